package database

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/query"
	"github.com/totegamma/discography/internal/usecase"
)

// Repositories bundles the stores the seed writes to.
type Repositories struct {
	Bands     usecase.BandRepository
	Albums    usecase.AlbumRepository
	Musicians usecase.MusicianRepository
	Songs     usecase.SongRepository
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(i int) *int { return &i }

// Seed loads the demo catalog when no band is stored yet.
func Seed(ctx context.Context, repos Repositories) error {
	page, err := repos.Bands.List(ctx, domain.Scope{}, query.Request{PageNumber: 1, PageSize: 1})
	if err != nil {
		return err
	}
	if page.TotalCount > 0 {
		return nil
	}

	band := domain.Band{
		ID:              uuid.New(),
		Name:            "Led Zeppelin",
		AlsoKnownAs:     "New Yardbirds",
		YearOfFormation: 1968,
		ActivePeriods: []domain.ActivePeriod{
			{StartYear: 1968, EndYear: intPtr(1980)},
			{StartYear: 1985},
			{StartYear: 1988},
			{StartYear: 1995},
			{StartYear: 2007},
		},
		Description: "Led Zeppelin were an English rock band formed in London in 1968. The group consisted of vocalist Robert Plant, " +
			"guitarist Jimmy Page, bassist/keyboardist John Paul Jones, and drummer John Bonham. With a heavy, guitar-driven sound, " +
			"they are cited as one of the progenitors of hard rock and heavy metal, although their style drew from a variety of " +
			"influences, including blues and folk music.",
		Genres: []domain.Genre{domain.GenreBlues, domain.GenreRock, domain.GenreFolk},
	}
	if err := repos.Bands.Create(ctx, band); err != nil {
		return err
	}

	bonhamDeath := day(1980, time.September, 25)
	jimmy := domain.Musician{
		ID:          uuid.New(),
		FirstName:   "James",
		LastName:    "Page",
		AlsoKnownAs: "Jimmy Page",
		Biography: "James Patrick Page OBE (born 9 January 1944) is an English musician, songwriter, multi-instrumentalist and " +
			"record producer who achieved international success as the guitarist and founder of the rock band Led Zeppelin.",
		DateOfBirth: day(1944, time.January, 9),
		Instruments: []domain.Instrument{domain.InstrumentGuitar},
		BandID:      band.ID,
	}
	plant := domain.Musician{
		ID:          uuid.New(),
		FirstName:   "Robert",
		MiddleName:  "Anthony",
		LastName:    "Plant",
		AlsoKnownAs: "Robert Plant",
		Biography: "Robert Anthony Plant CBE (born 20 August 1948) is a British singer and songwriter, best known as the lead " +
			"singer and lyricist of the English rock band Led Zeppelin.",
		DateOfBirth: day(1948, time.August, 20),
		Instruments: []domain.Instrument{domain.InstrumentHarmonica},
		BandID:      band.ID,
	}
	musicians := []domain.Musician{
		jimmy,
		{
			ID:          uuid.New(),
			FirstName:   "John",
			MiddleName:  "Richard",
			LastName:    "Baldwin",
			AlsoKnownAs: "John Paul Jones",
			Biography: "John Richard Baldwin (born 3 January 1946), better known by his stage name John Paul Jones, is an English " +
				"musician and record producer who was the bassist and keyboardist for the rock band Led Zeppelin.",
			DateOfBirth: day(1946, time.January, 3),
			Instruments: []domain.Instrument{domain.InstrumentBass, domain.InstrumentOrgan},
			BandID:      band.ID,
		},
		plant,
		{
			ID:          uuid.New(),
			FirstName:   "John",
			MiddleName:  "Henry",
			LastName:    "Bonham",
			AlsoKnownAs: "Bonzo",
			Biography: "John Henry 'Bonzo' Bonham (31 May 1948 to 25 September 1980) was an English musician and songwriter, " +
				"best known as the drummer for the English rock band Led Zeppelin.",
			DateOfBirth: day(1948, time.May, 31),
			DateOfDeath: &bonhamDeath,
			Instruments: []domain.Instrument{domain.InstrumentDrums},
			BandID:      band.ID,
		},
	}
	for _, m := range musicians {
		if err := repos.Musicians.Create(ctx, m); err != nil {
			return err
		}
	}

	album := domain.Album{
		ID:           uuid.New(),
		Title:        "Led Zeppelin",
		Label:        "Atlantic",
		DateReleased: day(1969, time.January, 12),
		BandID:       band.ID,
	}
	if err := repos.Albums.Create(ctx, album); err != nil {
		return err
	}

	recorded := day(1968, time.October, 5)
	released := day(1969, time.March, 10)
	song := domain.Song{
		ID:                uuid.New(),
		Title:             "Good Times Bad Times",
		DurationInSeconds: 163,
		DateRecorded:      &recorded,
		DateReleased:      &released,
		Lyrics:            "Good time bad times...",
		Genres:            []domain.Genre{domain.GenreBlues, domain.GenreRock},
		BandID:            band.ID,
		AlbumID:           album.ID,
		ComposerID:        &jimmy.ID,
		LyricistID:        &plant.ID,
	}
	if err := repos.Songs.Create(ctx, song); err != nil {
		return err
	}

	slog.InfoContext(
		ctx, "seeded catalog",
		slog.String("band", band.ID.String()),
		slog.String("module", "database"),
	)
	return nil
}
