package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/totegamma/discography/internal/catalog"
	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/transfer"
)

type BandUsecase = Resource[domain.Band, transfer.BandInput, transfer.BandInput]

type bandKind struct{}

func NewBandUsecase(repo BandRepository, events EventPublisher) *BandUsecase {
	return NewResource[domain.Band, transfer.BandInput, transfer.BandInput](catalog.Bands, bandKind{}, repo, events)
}

// bands are top level
func (bandKind) CheckScope(ctx context.Context, scope domain.Scope) error {
	return nil
}

func (bandKind) New(ctx context.Context, scope domain.Scope, in transfer.BandInput) (domain.Band, error) {
	return in.Band(uuid.New())
}

func (bandKind) Replace(ctx context.Context, scope domain.Scope, id uuid.UUID, in transfer.BandInput, current *domain.Band) (domain.Band, error) {
	return in.Band(id)
}

func (bandKind) Snapshot(current *domain.Band) transfer.BandInput {
	if current == nil {
		return transfer.EmptyBandInput()
	}
	return transfer.BandInputFrom(*current)
}
