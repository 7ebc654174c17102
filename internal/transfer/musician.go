package transfer

import (
	"time"

	"github.com/google/uuid"

	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/shape"
)

type MusicianDto struct {
	ID          uuid.UUID
	Name        string
	AlsoKnownAs string
	Biography   string
	DateOfBirth time.Time
	DateOfDeath *time.Time
	Instruments []string
	BandID      uuid.UUID
}

func (d MusicianDto) Declared() shape.Fields {
	return shape.Of(
		"Id", d.ID,
		"Name", d.Name,
		"AlsoKnownAs", d.AlsoKnownAs,
		"Biography", d.Biography,
		"DateOfBirth", d.DateOfBirth,
		"DateOfDeath", d.DateOfDeath,
		"Instruments", d.Instruments,
		"BandId", d.BandID,
	)
}

func FromMusician(m domain.Musician) MusicianDto {
	instruments := make([]string, 0, len(m.Instruments))
	for _, in := range domain.UnpackInstruments(domain.PackInstruments(m.Instruments)) {
		instruments = append(instruments, string(in))
	}
	return MusicianDto{
		ID:          m.ID,
		Name:        m.FullName(),
		AlsoKnownAs: m.AlsoKnownAs,
		Biography:   m.Biography,
		DateOfBirth: m.DateOfBirth,
		DateOfDeath: m.DateOfDeath,
		Instruments: instruments,
		BandID:      m.BandID,
	}
}

type MusicianInput struct {
	FirstName   string   `json:"firstName" validate:"required,max=50"`
	LastName    string   `json:"lastName" validate:"required,max=50"`
	MiddleName  string   `json:"middleName" validate:"max=50"`
	AlsoKnownAs string   `json:"alsoKnownAs" validate:"max=100"`
	Biography   string   `json:"biography" validate:"max=5000"`
	DateOfBirth Date     `json:"dateOfBirth" validate:"required"`
	DateOfDeath *Date    `json:"dateOfDeath"`
	Instruments []string `json:"instruments" validate:"dive,instrument"`
}

func (in MusicianInput) Musician(bandID, id uuid.UUID) (domain.Musician, error) {
	instruments, err := domain.ParseInstruments(in.Instruments)
	if err != nil {
		return domain.Musician{}, domain.Invalidf("%s", err.Error())
	}
	var death *time.Time
	if in.DateOfDeath != nil && !in.DateOfDeath.IsZero() {
		death = in.DateOfDeath.TimePtr()
	}
	return domain.Musician{
		ID:          id,
		FirstName:   in.FirstName,
		MiddleName:  in.MiddleName,
		LastName:    in.LastName,
		AlsoKnownAs: in.AlsoKnownAs,
		Biography:   in.Biography,
		DateOfBirth: in.DateOfBirth.Time,
		DateOfDeath: death,
		Instruments: instruments,
		BandID:      bandID,
	}, nil
}

func MusicianInputFrom(m domain.Musician) MusicianInput {
	in := MusicianInput{
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		MiddleName:  m.MiddleName,
		AlsoKnownAs: m.AlsoKnownAs,
		Biography:   m.Biography,
		DateOfBirth: NewDate(m.DateOfBirth),
		DateOfDeath: DatePtr(m.DateOfDeath),
		Instruments: []string{},
	}
	for _, i := range m.Instruments {
		in.Instruments = append(in.Instruments, string(i))
	}
	return in
}

func EmptyMusicianInput() MusicianInput {
	return MusicianInput{Instruments: []string{}}
}
