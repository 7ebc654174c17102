package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Song struct {
	ID                uuid.UUID  `json:"id"`
	Title             string     `json:"title"`
	DurationInSeconds int        `json:"durationInSeconds"`
	DateRecorded      *time.Time `json:"dateRecorded,omitempty"`
	DateReleased      *time.Time `json:"dateReleased,omitempty"`
	Lyrics            string     `json:"lyrics"`
	Genres            []Genre    `json:"genres"`
	BandID            uuid.UUID  `json:"bandId"`
	AlbumID           uuid.UUID  `json:"albumId"`
	LyricistID        *uuid.UUID `json:"lyricistId,omitempty"`
	ComposerID        *uuid.UUID `json:"composerId,omitempty"`
}

func (s Song) Key() uuid.UUID { return s.ID }

// FormatDuration renders seconds as m:ss.
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// ParseDuration reads an m:ss duration.
func ParseDuration(s string) (int, error) {
	mins, secs, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("duration %q is not in m:ss format", s)
	}
	m, err := strconv.Atoi(mins)
	if err != nil || m < 0 {
		return 0, fmt.Errorf("duration %q is not in m:ss format", s)
	}
	if len(secs) != 2 {
		return 0, fmt.Errorf("duration %q is not in m:ss format", s)
	}
	ss, err := strconv.Atoi(secs)
	if err != nil || ss < 0 || ss > 59 {
		return 0, fmt.Errorf("duration %q is not in m:ss format", s)
	}
	return m*60 + ss, nil
}
