package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Musician struct {
	ID          uuid.UUID    `json:"id"`
	FirstName   string       `json:"firstName"`
	MiddleName  string       `json:"middleName"`
	LastName    string       `json:"lastName"`
	AlsoKnownAs string       `json:"alsoKnownAs"`
	Biography   string       `json:"biography"`
	DateOfBirth time.Time    `json:"dateOfBirth"`
	DateOfDeath *time.Time   `json:"dateOfDeath,omitempty"`
	Instruments []Instrument `json:"instruments"`
	BandID      uuid.UUID    `json:"bandId"`
}

func (m Musician) Key() uuid.UUID { return m.ID }

// FullName joins first, middle and last name, skipping an empty middle name.
func (m Musician) FullName() string {
	parts := []string{m.FirstName}
	if strings.TrimSpace(m.MiddleName) != "" {
		parts = append(parts, m.MiddleName)
	}
	parts = append(parts, m.LastName)
	return strings.Join(parts, " ")
}
