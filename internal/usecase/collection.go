package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/totegamma/discography/internal/catalog"
	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/transfer"
)

// BandCollectionUsecase reads and creates several bands at once.
type BandCollectionUsecase struct {
	repo   BandRepository
	events EventPublisher
	bands  *BandUsecase
}

func NewBandCollectionUsecase(repo BandRepository, events EventPublisher) *BandCollectionUsecase {
	return &BandCollectionUsecase{
		repo:   repo,
		events: events,
		bands:  NewBandUsecase(repo, events),
	}
}

// Get returns the bands in the order of ids. Every id must exist.
func (uc *BandCollectionUsecase) Get(ctx context.Context, ids []uuid.UUID) ([]domain.Band, error) {
	if len(ids) == 0 {
		return nil, domain.Invalidf("no band ids given")
	}
	found, err := uc.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]domain.Band, len(found))
	for _, b := range found {
		byID[b.ID] = b
	}
	bands := make([]domain.Band, 0, len(ids))
	for _, id := range ids {
		b, ok := byID[id]
		if !ok {
			return nil, domain.NotFoundError{Resource: domain.ResourceBand}
		}
		bands = append(bands, b)
	}
	return bands, nil
}

// Create validates every payload and stores the bands in one write.
// Validation messages are keyed by the payload index, e.g. "[1].name".
func (uc *BandCollectionUsecase) Create(ctx context.Context, inputs []transfer.BandInput) ([]domain.Band, error) {
	if len(inputs) == 0 {
		return nil, domain.Invalidf("no bands given")
	}

	var failed domain.ValidationError
	bands := make([]domain.Band, 0, len(inputs))
	for i, in := range inputs {
		err := transfer.Validate(in)
		if err != nil {
			var verr domain.ValidationError
			if !errors.As(err, &verr) {
				return nil, err
			}
			for field, msgs := range verr.Fields {
				for _, msg := range msgs {
					failed.Add(fmt.Sprintf("[%d].%s", i, field), msg)
				}
			}
			continue
		}
		band, err := in.Band(uuid.New())
		if err != nil {
			return nil, err
		}
		bands = append(bands, band)
	}
	if len(failed.Fields) > 0 {
		return nil, failed
	}

	if err := uc.repo.CreateMany(ctx, bands); err != nil {
		return nil, err
	}
	for _, b := range bands {
		uc.bands.publish(ctx, domain.EventCreated, domain.Scope{}, b.ID)
	}
	return bands, nil
}

func (uc *BandCollectionUsecase) Descriptor() *catalog.Descriptor {
	return catalog.Bands
}
