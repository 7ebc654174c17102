package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/totegamma/discography"
	"github.com/totegamma/discography/internal/catalog"
	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/query"
	"github.com/totegamma/discography/internal/transfer"
)

// Kind holds what differs between resources: parent checks and how
// payloads become records. C is the creation payload, U the replacement one.
type Kind[E Entity, C any, U any] interface {
	// CheckScope fails with a NotFoundError when the parent does not exist.
	CheckScope(ctx context.Context, scope domain.Scope) error
	New(ctx context.Context, scope domain.Scope, in C) (E, error)
	// Replace builds the record stored at id. current is nil when the
	// record does not exist yet.
	Replace(ctx context.Context, scope domain.Scope, id uuid.UUID, in U, current *E) (E, error)
	// Snapshot is the replacement payload for current, or a blank one.
	Snapshot(current *E) U
}

// patchScoper lets a kind widen the lookup scope used by Patch.
type patchScoper interface {
	PatchScope(scope domain.Scope) domain.Scope
}

// Resource implements list, get, create, replace, patch and delete for one
// resource type.
type Resource[E Entity, C any, U any] struct {
	desc   *catalog.Descriptor
	kind   Kind[E, C, U]
	repo   Repository[E]
	events EventPublisher
}

func NewResource[E Entity, C any, U any](
	desc *catalog.Descriptor,
	kind Kind[E, C, U],
	repo Repository[E],
	events EventPublisher,
) *Resource[E, C, U] {
	return &Resource[E, C, U]{
		desc:   desc,
		kind:   kind,
		repo:   repo,
		events: events,
	}
}

func (uc *Resource[E, C, U]) Descriptor() *catalog.Descriptor {
	return uc.desc
}

// List checks the parent, then orderBy and fields, before querying.
func (uc *Resource[E, C, U]) List(ctx context.Context, scope domain.Scope, params catalog.Params) (query.Page[E], error) {
	if err := uc.kind.CheckScope(ctx, scope); err != nil {
		return query.Page[E]{}, err
	}
	if !uc.desc.Mapping.Validate(params.OrderBy) {
		return query.Page[E]{}, domain.Invalidf("orderBy %q names a field %s cannot be sorted by", params.OrderBy, uc.desc.Name)
	}
	keys, err := uc.desc.Mapping.Compile(params.OrderBy)
	if err != nil {
		return query.Page[E]{}, err
	}
	if err := uc.desc.CheckFields(params.Fields); err != nil {
		return query.Page[E]{}, err
	}
	return uc.repo.List(ctx, scope, params.Request(keys).Normalize())
}

func (uc *Resource[E, C, U]) Get(ctx context.Context, scope domain.Scope, id uuid.UUID) (E, error) {
	if err := uc.kind.CheckScope(ctx, scope); err != nil {
		var zero E
		return zero, err
	}
	return uc.repo.Get(ctx, scope, id)
}

func (uc *Resource[E, C, U]) Create(ctx context.Context, scope domain.Scope, in C) (E, error) {
	var zero E
	if err := uc.kind.CheckScope(ctx, scope); err != nil {
		return zero, err
	}
	if err := transfer.Validate(in); err != nil {
		return zero, err
	}

	entity, err := uc.kind.New(ctx, scope, in)
	if err != nil {
		return zero, err
	}
	if err := uc.repo.Create(ctx, entity); err != nil {
		return zero, err
	}

	uc.publish(ctx, domain.EventCreated, scope, entity.Key())
	return entity, nil
}

// Replace stores in at id, creating the record when it does not exist.
// created reports which of the two happened.
func (uc *Resource[E, C, U]) Replace(ctx context.Context, scope domain.Scope, id uuid.UUID, in U) (entity E, created bool, err error) {
	if err := uc.kind.CheckScope(ctx, scope); err != nil {
		return entity, false, err
	}
	if err := transfer.Validate(in); err != nil {
		return entity, false, err
	}

	current, err := uc.find(ctx, scope, id)
	if err != nil {
		return entity, false, err
	}
	return uc.upsert(ctx, scope, id, in, current)
}

// Patch applies a partial update to the record at id, or to a blank
// payload when there is none, then validates and stores the result.
func (uc *Resource[E, C, U]) Patch(ctx context.Context, scope domain.Scope, id uuid.UUID, apply func(*U) error) (entity E, created bool, err error) {
	if err := uc.kind.CheckScope(ctx, scope); err != nil {
		return entity, false, err
	}

	lookup := scope
	if ps, ok := uc.kind.(patchScoper); ok {
		lookup = ps.PatchScope(scope)
	}
	current, err := uc.find(ctx, lookup, id)
	if err != nil {
		return entity, false, err
	}

	in := uc.kind.Snapshot(current)
	if err := apply(&in); err != nil {
		return entity, false, err
	}
	if err := transfer.Validate(in); err != nil {
		return entity, false, err
	}
	return uc.upsert(ctx, scope, id, in, current)
}

func (uc *Resource[E, C, U]) Delete(ctx context.Context, scope domain.Scope, id uuid.UUID) error {
	if err := uc.kind.CheckScope(ctx, scope); err != nil {
		return err
	}
	ok, err := uc.repo.Exists(ctx, scope, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFoundError{Resource: uc.desc.Name}
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.publish(ctx, domain.EventDeleted, scope, id)
	return nil
}

// find returns nil when id does not exist inside scope.
func (uc *Resource[E, C, U]) find(ctx context.Context, scope domain.Scope, id uuid.UUID) (*E, error) {
	current, err := uc.repo.Get(ctx, scope, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &current, nil
}

func (uc *Resource[E, C, U]) upsert(ctx context.Context, scope domain.Scope, id uuid.UUID, in U, current *E) (E, bool, error) {
	var zero E
	if current == nil {
		// the id may already belong to a record under another parent
		taken, err := uc.repo.Exists(ctx, domain.Scope{}, id)
		if err != nil {
			return zero, false, err
		}
		if taken {
			return zero, false, domain.Invalidf("%s %s belongs to another parent", uc.desc.Name, id)
		}
	}

	entity, err := uc.kind.Replace(ctx, scope, id, in, current)
	if err != nil {
		return zero, false, err
	}

	if current == nil {
		if err := uc.repo.Create(ctx, entity); err != nil {
			return zero, false, err
		}
		uc.publish(ctx, domain.EventCreated, scope, id)
		return entity, true, nil
	}

	if err := uc.repo.Update(ctx, entity); err != nil {
		return zero, false, err
	}
	uc.publish(ctx, domain.EventUpdated, scope, id)
	return entity, false, nil
}

func (uc *Resource[E, C, U]) publish(ctx context.Context, typ domain.EventType, scope domain.Scope, id uuid.UUID) {
	if uc.events == nil {
		return
	}
	event := discography.Event{
		Type:     string(typ),
		Resource: uc.desc.Name,
		ID:       id.String(),
		Href:     uc.desc.ItemPath(scope, id),
		Time:     time.Now().UTC(),
	}
	if scope.HasBand() {
		event.BandID = scope.BandID.String()
	}
	if scope.HasAlbum() {
		event.AlbumID = scope.AlbumID.String()
	}
	err := uc.events.Publish(ctx, event)
	if err != nil {
		slog.WarnContext(
			ctx, "failed to publish event",
			slog.String("error", err.Error()),
			slog.String("resource", uc.desc.Name),
			slog.String("module", "usecase"),
		)
	}
}
