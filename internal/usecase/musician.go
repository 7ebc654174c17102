package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/totegamma/discography/internal/catalog"
	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/transfer"
)

type MusicianUsecase = Resource[domain.Musician, transfer.MusicianInput, transfer.MusicianInput]

type musicianKind struct {
	bands BandRepository
}

func NewMusicianUsecase(repo MusicianRepository, bands BandRepository, events EventPublisher) *MusicianUsecase {
	return NewResource[domain.Musician, transfer.MusicianInput, transfer.MusicianInput](catalog.Musicians, musicianKind{bands: bands}, repo, events)
}

func (k musicianKind) CheckScope(ctx context.Context, scope domain.Scope) error {
	return requireBand(ctx, k.bands, scope)
}

func (k musicianKind) New(ctx context.Context, scope domain.Scope, in transfer.MusicianInput) (domain.Musician, error) {
	return in.Musician(scope.BandID, uuid.New())
}

func (k musicianKind) Replace(ctx context.Context, scope domain.Scope, id uuid.UUID, in transfer.MusicianInput, current *domain.Musician) (domain.Musician, error) {
	return in.Musician(scope.BandID, id)
}

func (k musicianKind) Snapshot(current *domain.Musician) transfer.MusicianInput {
	if current == nil {
		return transfer.EmptyMusicianInput()
	}
	return transfer.MusicianInputFrom(*current)
}
