package transfer

import (
	"time"

	"github.com/google/uuid"

	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/shape"
)

type SongDto struct {
	ID           uuid.UUID
	Title        string
	Duration     string
	DateRecorded *time.Time
	DateReleased *time.Time
	Lyrics       string
	Genres       []string
	BandID       uuid.UUID
	LyricistID   *uuid.UUID
	ComposerID   *uuid.UUID
	AlbumID      uuid.UUID
}

func (d SongDto) Declared() shape.Fields {
	return shape.Of(
		"Id", d.ID,
		"Title", d.Title,
		"Duration", d.Duration,
		"DateRecorded", d.DateRecorded,
		"DateReleased", d.DateReleased,
		"Lyrics", d.Lyrics,
		"Genres", d.Genres,
		"BandId", d.BandID,
		"LyricistId", d.LyricistID,
		"ComposerId", d.ComposerID,
		"AlbumId", d.AlbumID,
	)
}

func FromSong(s domain.Song) SongDto {
	genres := make([]string, 0, len(s.Genres))
	for _, g := range domain.UnpackGenres(domain.PackGenres(s.Genres)) {
		genres = append(genres, string(g))
	}
	return SongDto{
		ID:           s.ID,
		Title:        s.Title,
		Duration:     domain.FormatDuration(s.DurationInSeconds),
		DateRecorded: s.DateRecorded,
		DateReleased: s.DateReleased,
		Lyrics:       s.Lyrics,
		Genres:       genres,
		BandID:       s.BandID,
		LyricistID:   s.LyricistID,
		ComposerID:   s.ComposerID,
		AlbumID:      s.AlbumID,
	}
}

type SongInput struct {
	Title        string     `json:"title" validate:"required,max=200"`
	Duration     string     `json:"duration" validate:"required,duration"`
	DateRecorded *Date      `json:"dateRecorded"`
	DateReleased *Date      `json:"dateReleased"`
	Lyrics       string     `json:"lyrics" validate:"max=10000"`
	Genres       []string   `json:"genres" validate:"dive,genre"`
	LyricistID   *uuid.UUID `json:"lyricistId"`
	ComposerID   *uuid.UUID `json:"composerId"`
}

func (in SongInput) Song(bandID, albumID, id uuid.UUID) (domain.Song, error) {
	seconds, err := domain.ParseDuration(in.Duration)
	if err != nil {
		return domain.Song{}, domain.Invalidf("%s", err.Error())
	}
	genres, err := domain.ParseGenres(in.Genres)
	if err != nil {
		return domain.Song{}, domain.Invalidf("%s", err.Error())
	}
	return domain.Song{
		ID:                id,
		Title:             in.Title,
		DurationInSeconds: seconds,
		DateRecorded:      optionalTime(in.DateRecorded),
		DateReleased:      optionalTime(in.DateReleased),
		Lyrics:            in.Lyrics,
		Genres:            genres,
		BandID:            bandID,
		AlbumID:           albumID,
		LyricistID:        in.LyricistID,
		ComposerID:        in.ComposerID,
	}, nil
}

func SongInputFrom(s domain.Song) SongInput {
	in := SongInput{
		Title:        s.Title,
		Duration:     domain.FormatDuration(s.DurationInSeconds),
		DateRecorded: DatePtr(s.DateRecorded),
		DateReleased: DatePtr(s.DateReleased),
		Lyrics:       s.Lyrics,
		Genres:       []string{},
		LyricistID:   s.LyricistID,
		ComposerID:   s.ComposerID,
	}
	for _, g := range s.Genres {
		in.Genres = append(in.Genres, string(g))
	}
	return in
}

func EmptySongInput() SongInput {
	return SongInput{Genres: []string{}}
}

func optionalTime(d *Date) *time.Time {
	if d == nil || d.IsZero() {
		return nil
	}
	return d.TimePtr()
}
