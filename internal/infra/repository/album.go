package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/infra/database/models"
)

type AlbumRepository struct {
	*table[domain.Album, models.Album]
}

func NewAlbumRepository(db *gorm.DB) *AlbumRepository {
	return &AlbumRepository{&table[domain.Album, models.Album]{
		db:       db,
		name:     "Album",
		resource: domain.ResourceAlbum,
		toModel:  albumModel,
		toDomain: albumFromModel,
		scope:    byBand,
	}}
}

// Create inserts the album and the songs created with it in one transaction.
func (r *AlbumRepository) Create(ctx context.Context, album domain.Album) error {
	ctx, end := r.span(ctx, "Create")
	defer end()

	row := albumModel(album)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		if len(album.Songs) == 0 {
			return nil
		}
		songs := make([]models.Song, 0, len(album.Songs))
		for _, s := range album.Songs {
			songs = append(songs, songModel(s))
		}
		return tx.Create(&songs).Error
	})
	if err != nil {
		return translate(err, domain.ResourceAlbum, "AlbumRepository.Create: transaction failed")
	}
	return nil
}

func albumModel(a domain.Album) models.Album {
	return models.Album{
		ID:           a.ID,
		Title:        a.Title,
		Label:        a.Label,
		DateReleased: a.DateReleased,
		BandID:       a.BandID,
	}
}

func albumFromModel(m models.Album) domain.Album {
	return domain.Album{
		ID:           m.ID,
		Title:        m.Title,
		Label:        m.Label,
		DateReleased: m.DateReleased.UTC(),
		BandID:       m.BandID,
	}
}
