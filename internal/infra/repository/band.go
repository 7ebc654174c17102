package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/infra/database/models"
)

type BandRepository struct {
	*table[domain.Band, models.Band]
}

func NewBandRepository(db *gorm.DB) *BandRepository {
	return &BandRepository{&table[domain.Band, models.Band]{
		db:       db,
		name:     "Band",
		resource: domain.ResourceBand,
		toModel:  bandModel,
		toDomain: bandFromModel,
		scope:    func(db *gorm.DB, _ domain.Scope) *gorm.DB { return db },
	}}
}

func (r *BandRepository) GetMany(ctx context.Context, ids []uuid.UUID) ([]domain.Band, error) {
	ctx, end := r.span(ctx, "GetMany")
	defer end()

	var rows []models.Band
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("seq").Find(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "BandRepository.GetMany: find failed")
	}
	bands := make([]domain.Band, 0, len(rows))
	for _, row := range rows {
		bands = append(bands, bandFromModel(row))
	}
	return bands, nil
}

// CreateMany inserts the bands in one transaction.
func (r *BandRepository) CreateMany(ctx context.Context, bands []domain.Band) error {
	ctx, end := r.span(ctx, "CreateMany")
	defer end()

	rows := make([]models.Band, 0, len(bands))
	for _, b := range bands {
		rows = append(rows, bandModel(b))
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		return translate(err, domain.ResourceBand, "BandRepository.CreateMany: create failed")
	}
	return nil
}

func bandModel(b domain.Band) models.Band {
	periods := make([]models.ActivePeriod, 0, len(b.ActivePeriods))
	for _, p := range b.SortedPeriods() {
		periods = append(periods, models.ActivePeriod{StartYear: p.StartYear, EndYear: p.EndYear})
	}
	return models.Band{
		ID:              b.ID,
		Name:            b.Name,
		YearOfFormation: b.YearOfFormation,
		AlsoKnownAs:     b.AlsoKnownAs,
		Description:     b.Description,
		ActivePeriods:   periods,
		ActiveSince:     b.ActiveSince(),
		Genres:          domain.PackGenres(b.Genres),
	}
}

func bandFromModel(m models.Band) domain.Band {
	periods := make([]domain.ActivePeriod, 0, len(m.ActivePeriods))
	for _, p := range m.ActivePeriods {
		periods = append(periods, domain.ActivePeriod{StartYear: p.StartYear, EndYear: p.EndYear})
	}
	return domain.Band{
		ID:              m.ID,
		Name:            m.Name,
		YearOfFormation: m.YearOfFormation,
		AlsoKnownAs:     m.AlsoKnownAs,
		Description:     m.Description,
		ActivePeriods:   periods,
		Genres:          domain.UnpackGenres(m.Genres),
	}
}
