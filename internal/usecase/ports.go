package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/totegamma/discography"
	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/query"
)

// Entity is a record with a stable identity.
type Entity interface {
	Key() uuid.UUID
}

// Repository defines storage operations shared by every catalog resource.
// Get and Exists only see records inside scope; a zero scope sees everything.
type Repository[E Entity] interface {
	Get(ctx context.Context, scope domain.Scope, id uuid.UUID) (E, error)
	Exists(ctx context.Context, scope domain.Scope, id uuid.UUID) (bool, error)
	List(ctx context.Context, scope domain.Scope, req query.Request) (query.Page[E], error)
	Create(ctx context.Context, entity E) error
	Update(ctx context.Context, entity E) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BandRepository adds the bulk operations behind band collections.
type BandRepository interface {
	Repository[domain.Band]
	GetMany(ctx context.Context, ids []uuid.UUID) ([]domain.Band, error)
	CreateMany(ctx context.Context, bands []domain.Band) error
}

// AlbumRepository creates an album's songs together with the album.
type AlbumRepository interface {
	Repository[domain.Album]
}

type MusicianRepository interface {
	Repository[domain.Musician]
}

type SongRepository interface {
	Repository[domain.Song]
}

// EventPublisher fans change events out to realtime subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event discography.Event) error
}
