package domain

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// ActivePeriod is a span of years a band was active. EndYear is nil while still active.
type ActivePeriod struct {
	StartYear int  `json:"startYear"`
	EndYear   *int `json:"endYear,omitempty"`
}

func (p ActivePeriod) String() string {
	if p.EndYear == nil {
		return fmt.Sprintf("%d-", p.StartYear)
	}
	return fmt.Sprintf("%d-%d", p.StartYear, *p.EndYear)
}

// Band is the top level catalog record.
type Band struct {
	ID              uuid.UUID      `json:"id"`
	Name            string         `json:"name"`
	YearOfFormation int            `json:"yearOfFormation"`
	AlsoKnownAs     string         `json:"alsoKnownAs"`
	Description     string         `json:"description"`
	ActivePeriods   []ActivePeriod `json:"activePeriods"`
	Genres          []Genre        `json:"genres"`
}

func (b Band) Key() uuid.UUID { return b.ID }

// SortedPeriods returns the active periods ordered by start year.
func (b Band) SortedPeriods() []ActivePeriod {
	out := append([]ActivePeriod(nil), b.ActivePeriods...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartYear < out[j].StartYear
	})
	return out
}

// ActiveSince is the earliest start year, 0 when no period is known.
func (b Band) ActiveSince() int {
	since := 0
	for _, p := range b.ActivePeriods {
		if since == 0 || p.StartYear < since {
			since = p.StartYear
		}
	}
	return since
}
