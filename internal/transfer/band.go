package transfer

import (
	"github.com/google/uuid"

	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/shape"
)

// BandDto is the public representation of a band.
type BandDto struct {
	ID              uuid.UUID
	Name            string
	YearOfFormation int
	AlsoKnownAs     string
	Description     string
	ActivePeriods   []string
	Genres          []string
}

func (d BandDto) Declared() shape.Fields {
	return shape.Of(
		"Id", d.ID,
		"Name", d.Name,
		"YearOfFormation", d.YearOfFormation,
		"AlsoKnownAs", d.AlsoKnownAs,
		"Description", d.Description,
		"ActivePeriods", d.ActivePeriods,
		"Genres", d.Genres,
	)
}

func FromBand(b domain.Band) BandDto {
	periods := make([]string, 0, len(b.ActivePeriods))
	for _, p := range b.SortedPeriods() {
		periods = append(periods, p.String())
	}
	genres := make([]string, 0, len(b.Genres))
	for _, g := range domain.UnpackGenres(domain.PackGenres(b.Genres)) {
		genres = append(genres, string(g))
	}
	return BandDto{
		ID:              b.ID,
		Name:            b.Name,
		YearOfFormation: b.YearOfFormation,
		AlsoKnownAs:     b.AlsoKnownAs,
		Description:     b.Description,
		ActivePeriods:   periods,
		Genres:          genres,
	}
}

type ActivePeriodInput struct {
	StartYear int  `json:"startYear" validate:"required"`
	EndYear   *int `json:"endYear"`
}

// BandInput is the payload for creating or replacing a band.
type BandInput struct {
	Name            string              `json:"name" validate:"required,max=100"`
	YearOfFormation int                 `json:"yearOfFormation"`
	AlsoKnownAs     string              `json:"alsoKnownAs" validate:"max=100"`
	Description     string              `json:"description" validate:"max=1500"`
	ActivePeriods   []ActivePeriodInput `json:"activePeriods" validate:"dive"`
	Genres          []string            `json:"genres" validate:"dive,genre"`
}

// Band builds the record stored under id. The input must have been validated.
func (in BandInput) Band(id uuid.UUID) (domain.Band, error) {
	genres, err := domain.ParseGenres(in.Genres)
	if err != nil {
		return domain.Band{}, domain.Invalidf("%s", err.Error())
	}
	periods := make([]domain.ActivePeriod, 0, len(in.ActivePeriods))
	for _, p := range in.ActivePeriods {
		periods = append(periods, domain.ActivePeriod{StartYear: p.StartYear, EndYear: p.EndYear})
	}
	return domain.Band{
		ID:              id,
		Name:            in.Name,
		YearOfFormation: in.YearOfFormation,
		AlsoKnownAs:     in.AlsoKnownAs,
		Description:     in.Description,
		ActivePeriods:   periods,
		Genres:          genres,
	}, nil
}

// BandInputFrom is the payload that would reproduce b.
func BandInputFrom(b domain.Band) BandInput {
	in := BandInput{
		Name:            b.Name,
		YearOfFormation: b.YearOfFormation,
		AlsoKnownAs:     b.AlsoKnownAs,
		Description:     b.Description,
		ActivePeriods:   []ActivePeriodInput{},
		Genres:          []string{},
	}
	for _, p := range b.SortedPeriods() {
		in.ActivePeriods = append(in.ActivePeriods, ActivePeriodInput{StartYear: p.StartYear, EndYear: p.EndYear})
	}
	for _, g := range b.Genres {
		in.Genres = append(in.Genres, string(g))
	}
	return in
}

// EmptyBandInput is the starting point for a patch against a missing band.
func EmptyBandInput() BandInput {
	return BandInput{ActivePeriods: []ActivePeriodInput{}, Genres: []string{}}
}
