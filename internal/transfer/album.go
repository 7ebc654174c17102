package transfer

import (
	"time"

	"github.com/google/uuid"

	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/shape"
)

type AlbumDto struct {
	ID           uuid.UUID
	Title        string
	Label        string
	DateReleased time.Time
	BandID       uuid.UUID
}

func (d AlbumDto) Declared() shape.Fields {
	return shape.Of(
		"Id", d.ID,
		"Title", d.Title,
		"Label", d.Label,
		"DateReleased", d.DateReleased,
		"BandId", d.BandID,
	)
}

func FromAlbum(a domain.Album) AlbumDto {
	return AlbumDto{
		ID:           a.ID,
		Title:        a.Title,
		Label:        a.Label,
		DateReleased: a.DateReleased,
		BandID:       a.BandID,
	}
}

// AlbumInput is the payload for replacing an album.
type AlbumInput struct {
	Title        string `json:"title" validate:"required,max=200"`
	Label        string `json:"label" validate:"max=100"`
	DateReleased Date   `json:"dateReleased"`
}

func (in AlbumInput) Album(bandID, id uuid.UUID) domain.Album {
	return domain.Album{
		ID:           id,
		Title:        in.Title,
		Label:        in.Label,
		DateReleased: in.DateReleased.Time,
		BandID:       bandID,
	}
}

func AlbumInputFrom(a domain.Album) AlbumInput {
	return AlbumInput{
		Title:        a.Title,
		Label:        a.Label,
		DateReleased: NewDate(a.DateReleased),
	}
}

// AlbumCreateInput creates an album, optionally together with its songs.
type AlbumCreateInput struct {
	Title        string      `json:"title" validate:"required,max=200"`
	Label        string      `json:"label" validate:"max=100"`
	DateReleased Date        `json:"dateReleased"`
	Songs        []SongInput `json:"songs" validate:"dive"`
}

// Album builds the new album and its songs. Song ids are generated.
func (in AlbumCreateInput) Album(bandID, id uuid.UUID) (domain.Album, error) {
	album := AlbumInput{Title: in.Title, Label: in.Label, DateReleased: in.DateReleased}.Album(bandID, id)
	for _, s := range in.Songs {
		song, err := s.Song(bandID, id, uuid.New())
		if err != nil {
			return domain.Album{}, err
		}
		album.Songs = append(album.Songs, song)
	}
	return album, nil
}
