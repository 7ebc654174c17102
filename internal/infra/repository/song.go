package repository

import (
	"gorm.io/gorm"

	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/infra/database/models"
)

type SongRepository struct {
	*table[domain.Song, models.Song]
}

func NewSongRepository(db *gorm.DB) *SongRepository {
	return &SongRepository{&table[domain.Song, models.Song]{
		db:       db,
		name:     "Song",
		resource: domain.ResourceSong,
		toModel:  songModel,
		toDomain: songFromModel,
		scope: func(db *gorm.DB, scope domain.Scope) *gorm.DB {
			db = byBand(db, scope)
			if scope.HasAlbum() {
				db = db.Where("album_id = ?", scope.AlbumID)
			}
			return db
		},
	}}
}

func songModel(s domain.Song) models.Song {
	return models.Song{
		ID:                s.ID,
		Title:             s.Title,
		DurationInSeconds: s.DurationInSeconds,
		DateRecorded:      s.DateRecorded,
		DateReleased:      s.DateReleased,
		Lyrics:            s.Lyrics,
		Genres:            domain.PackGenres(s.Genres),
		BandID:            s.BandID,
		AlbumID:           s.AlbumID,
		LyricistID:        s.LyricistID,
		ComposerID:        s.ComposerID,
	}
}

func songFromModel(m models.Song) domain.Song {
	return domain.Song{
		ID:                m.ID,
		Title:             m.Title,
		DurationInSeconds: m.DurationInSeconds,
		DateRecorded:      utc(m.DateRecorded),
		DateReleased:      utc(m.DateReleased),
		Lyrics:            m.Lyrics,
		Genres:            domain.UnpackGenres(m.Genres),
		BandID:            m.BandID,
		AlbumID:           m.AlbumID,
		LyricistID:        m.LyricistID,
		ComposerID:        m.ComposerID,
	}
}
