package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/query"
	"github.com/totegamma/discography/internal/usecase"
)

var tracer = otel.Tracer("repository")

// table is the gorm implementation shared by the catalog repositories.
// E is the domain record and M its row model.
type table[E usecase.Entity, M any] struct {
	db       *gorm.DB
	name     string
	resource string
	toModel  func(E) M
	toDomain func(M) E
	scope    func(db *gorm.DB, scope domain.Scope) *gorm.DB
}

func (t *table[E, M]) span(ctx context.Context, method string) (context.Context, func()) {
	ctx, span := tracer.Start(ctx, "Repository."+t.name+"."+method)
	return ctx, func() { span.End() }
}

func (t *table[E, M]) scoped(ctx context.Context, scope domain.Scope) *gorm.DB {
	return t.scope(t.db.WithContext(ctx).Model(new(M)), scope)
}

func (t *table[E, M]) Get(ctx context.Context, scope domain.Scope, id uuid.UUID) (E, error) {
	ctx, end := t.span(ctx, "Get")
	defer end()

	var zero E
	var row M
	err := t.scoped(ctx, scope).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return zero, domain.NotFoundError{Resource: t.resource}
	}
	if err != nil {
		return zero, errors.Wrap(err, t.name+"Repository.Get: take failed")
	}
	return t.toDomain(row), nil
}

func (t *table[E, M]) Exists(ctx context.Context, scope domain.Scope, id uuid.UUID) (bool, error) {
	ctx, end := t.span(ctx, "Exists")
	defer end()

	var count int64
	err := t.scoped(ctx, scope).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, errors.Wrap(err, t.name+"Repository.Exists: count failed")
	}
	return count > 0, nil
}

func (t *table[E, M]) List(ctx context.Context, scope domain.Scope, req query.Request) (query.Page[E], error) {
	ctx, end := t.span(ctx, "List")
	defer end()

	return query.Execute[E](ctx, source[E, M]{table: t, scope: scope}, req)
}

func (t *table[E, M]) Create(ctx context.Context, item E) error {
	ctx, end := t.span(ctx, "Create")
	defer end()

	row := t.toModel(item)
	if err := t.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translate(err, t.resource, t.name+"Repository.Create: create failed")
	}
	return nil
}

func (t *table[E, M]) Update(ctx context.Context, item E) error {
	ctx, end := t.span(ctx, "Update")
	defer end()

	row := t.toModel(item)
	result := t.db.WithContext(ctx).
		Model(&row).
		Select("*").
		Omit("id", "seq", "c_date", clause.Associations).
		Updates(&row)
	if result.Error != nil {
		return translate(result.Error, t.resource, t.name+"Repository.Update: updates failed")
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundError{Resource: t.resource}
	}
	return nil
}

// Delete removes the row; dependent rows follow through the foreign keys.
func (t *table[E, M]) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, end := t.span(ctx, "Delete")
	defer end()

	err := t.db.WithContext(ctx).Where("id = ?", id).Delete(new(M)).Error
	if err != nil {
		return errors.Wrap(err, t.name+"Repository.Delete: delete failed")
	}
	return nil
}

func translate(err error, resource, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.Invalidf("%s already exists", resource)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return domain.Invalidf("%s refers to a missing record", resource)
	}
	return errors.Wrap(err, msg)
}

// source runs paged queries against one table.
type source[E usecase.Entity, M any] struct {
	table *table[E, M]
	scope domain.Scope
}

func (s source[E, M]) Count(ctx context.Context, predicates []query.Predicate) (int64, error) {
	db, err := where(s.table.scoped(ctx, s.scope), predicates)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, s.table.name+"Repository.List: count failed")
	}
	return count, nil
}

func (s source[E, M]) Find(ctx context.Context, predicates []query.Predicate, sort []query.SortKey, offset, limit int) ([]E, error) {
	db, err := where(s.table.scoped(ctx, s.scope), predicates)
	if err != nil {
		return nil, err
	}
	for _, k := range sort {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: k.Field}, Desc: k.Descending})
	}
	db = db.Order("seq")

	var rows []M
	if err := db.Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, s.table.name+"Repository.List: find failed")
	}
	items := make([]E, 0, len(rows))
	for _, row := range rows {
		items = append(items, s.table.toDomain(row))
	}
	return items, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// where adds one condition per predicate. Field names come from the
// catalog descriptors, never from the request.
func where(db *gorm.DB, predicates []query.Predicate) (*gorm.DB, error) {
	for _, p := range predicates {
		if p.Op != query.OpContains && len(p.Fields) != 1 {
			return nil, fmt.Errorf("%s predicate needs exactly one field", p.Op)
		}
		switch p.Op {
		case query.OpEqual:
			db = db.Where(clause.Eq{Column: clause.Column{Name: p.Fields[0]}, Value: p.Value})
		case query.OpHasFlag:
			db = db.Where("? & ? <> 0", clause.Column{Name: p.Fields[0]}, p.Value)
		case query.OpAfter:
			db = db.Where(clause.Gt{Column: clause.Column{Name: p.Fields[0]}, Value: p.Value})
		case query.OpBefore:
			db = db.Where(clause.Lt{Column: clause.Column{Name: p.Fields[0]}, Value: p.Value})
		case query.OpContains:
			pattern := "%" + likeEscaper.Replace(fmt.Sprint(p.Value)) + "%"
			ors := make([]string, 0, len(p.Fields))
			args := make([]any, 0, len(p.Fields)*2)
			for _, f := range p.Fields {
				ors = append(ors, "? ILIKE ?")
				args = append(args, clause.Column{Name: f}, pattern)
			}
			db = db.Where("("+strings.Join(ors, " OR ")+")", args...)
		default:
			return nil, fmt.Errorf("unsupported operator %s", p.Op)
		}
	}
	return db, nil
}

func byBand(db *gorm.DB, scope domain.Scope) *gorm.DB {
	if scope.HasBand() {
		db = db.Where("band_id = ?", scope.BandID)
	}
	return db
}
