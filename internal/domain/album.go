package domain

import (
	"time"

	"github.com/google/uuid"
)

// Album belongs to a band. Songs is only populated when an album is
// created together with its tracks.
type Album struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Label        string    `json:"label"`
	DateReleased time.Time `json:"dateReleased"`
	BandID       uuid.UUID `json:"bandId"`
	Songs        []Song    `json:"songs,omitempty"`
}

func (a Album) Key() uuid.UUID { return a.ID }
