package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/totegamma/discography/internal/catalog"
	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/transfer"
)

type AlbumUsecase = Resource[domain.Album, transfer.AlbumCreateInput, transfer.AlbumInput]

type albumKind struct {
	bands     BandRepository
	musicians MusicianRepository
}

func NewAlbumUsecase(repo AlbumRepository, bands BandRepository, musicians MusicianRepository, events EventPublisher) *AlbumUsecase {
	kind := albumKind{
		bands:     bands,
		musicians: musicians,
	}
	return NewResource[domain.Album, transfer.AlbumCreateInput, transfer.AlbumInput](catalog.Albums, kind, repo, events)
}

func (k albumKind) CheckScope(ctx context.Context, scope domain.Scope) error {
	return requireBand(ctx, k.bands, scope)
}

// New creates the album together with any nested songs. Song credits must
// point at existing musicians.
func (k albumKind) New(ctx context.Context, scope domain.Scope, in transfer.AlbumCreateInput) (domain.Album, error) {
	album, err := in.Album(scope.BandID, uuid.New())
	if err != nil {
		return domain.Album{}, err
	}
	for _, song := range album.Songs {
		err := checkCredits(ctx, k.musicians, song)
		if err != nil {
			return domain.Album{}, err
		}
	}
	return album, nil
}

func (k albumKind) Replace(ctx context.Context, scope domain.Scope, id uuid.UUID, in transfer.AlbumInput, current *domain.Album) (domain.Album, error) {
	return in.Album(scope.BandID, id), nil
}

func (k albumKind) Snapshot(current *domain.Album) transfer.AlbumInput {
	if current == nil {
		return transfer.AlbumInput{}
	}
	return transfer.AlbumInputFrom(*current)
}

func requireBand(ctx context.Context, bands BandRepository, scope domain.Scope) error {
	ok, err := bands.Exists(ctx, domain.Scope{}, scope.BandID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFoundError{Resource: domain.ResourceBand}
	}
	return nil
}
