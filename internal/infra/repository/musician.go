package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/infra/database/models"
)

// MusicianRepository relies on the song foreign keys to clear credits
// when a musician is deleted.
type MusicianRepository struct {
	*table[domain.Musician, models.Musician]
}

func NewMusicianRepository(db *gorm.DB) *MusicianRepository {
	return &MusicianRepository{&table[domain.Musician, models.Musician]{
		db:       db,
		name:     "Musician",
		resource: domain.ResourceMusician,
		toModel:  musicianModel,
		toDomain: musicianFromModel,
		scope:    byBand,
	}}
}

func musicianModel(m domain.Musician) models.Musician {
	return models.Musician{
		ID:          m.ID,
		FirstName:   m.FirstName,
		MiddleName:  m.MiddleName,
		LastName:    m.LastName,
		AlsoKnownAs: m.AlsoKnownAs,
		Biography:   m.Biography,
		DateOfBirth: m.DateOfBirth,
		DateOfDeath: m.DateOfDeath,
		Instruments: domain.PackInstruments(m.Instruments),
		BandID:      m.BandID,
	}
}

func musicianFromModel(m models.Musician) domain.Musician {
	return domain.Musician{
		ID:          m.ID,
		FirstName:   m.FirstName,
		MiddleName:  m.MiddleName,
		LastName:    m.LastName,
		AlsoKnownAs: m.AlsoKnownAs,
		Biography:   m.Biography,
		DateOfBirth: m.DateOfBirth.UTC(),
		DateOfDeath: utc(m.DateOfDeath),
		Instruments: domain.UnpackInstruments(m.Instruments),
		BandID:      m.BandID,
	}
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
