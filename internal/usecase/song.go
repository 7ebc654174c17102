package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/totegamma/discography/internal/catalog"
	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/transfer"
)

type SongUsecase = Resource[domain.Song, transfer.SongInput, transfer.SongInput]

type songKind struct {
	albums    AlbumRepository
	musicians MusicianRepository
	config    domain.Config
}

func NewSongUsecase(
	repo SongRepository,
	albums AlbumRepository,
	musicians MusicianRepository,
	events EventPublisher,
	config domain.Config,
) *SongUsecase {
	kind := songKind{
		albums:    albums,
		musicians: musicians,
		config:    config,
	}
	return NewResource[domain.Song, transfer.SongInput, transfer.SongInput](catalog.Songs, kind, repo, events)
}

// CheckScope requires the album to exist under the band.
func (k songKind) CheckScope(ctx context.Context, scope domain.Scope) error {
	ok, err := k.albums.Exists(ctx, domain.Scope{BandID: scope.BandID}, scope.AlbumID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NotFoundError{Resource: domain.ResourceAlbum}
	}
	return nil
}

func (k songKind) New(ctx context.Context, scope domain.Scope, in transfer.SongInput) (domain.Song, error) {
	song, err := in.Song(scope.BandID, scope.AlbumID, uuid.New())
	if err != nil {
		return domain.Song{}, err
	}
	if err := checkCredits(ctx, k.musicians, song); err != nil {
		return domain.Song{}, err
	}
	return song, nil
}

func (k songKind) Replace(ctx context.Context, scope domain.Scope, id uuid.UUID, in transfer.SongInput, current *domain.Song) (domain.Song, error) {
	song, err := in.Song(scope.BandID, scope.AlbumID, id)
	if err != nil {
		return domain.Song{}, err
	}
	if k.config.VerifyReferencesOnReplace {
		if err := checkCredits(ctx, k.musicians, song); err != nil {
			return domain.Song{}, err
		}
	}
	return song, nil
}

func (k songKind) Snapshot(current *domain.Song) transfer.SongInput {
	if current == nil {
		return transfer.EmptySongInput()
	}
	return transfer.SongInputFrom(*current)
}

// PatchScope drops the album from the lookup when patches are only scoped
// by band. The patched song then moves to the album in the route.
func (k songKind) PatchScope(scope domain.Scope) domain.Scope {
	if k.config.ScopeSongPatchByAlbum {
		return scope
	}
	return domain.Scope{BandID: scope.BandID}
}

// checkCredits verifies that lyricist and composer exist. Credits may name
// musicians of any band.
func checkCredits(ctx context.Context, musicians MusicianRepository, song domain.Song) error {
	credits := []struct {
		field string
		id    *uuid.UUID
	}{
		{"lyricistId", song.LyricistID},
		{"composerId", song.ComposerID},
	}
	for _, c := range credits {
		if c.id == nil {
			continue
		}
		ok, err := musicians.Exists(ctx, domain.Scope{}, *c.id)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ReferenceError{Field: c.field, Resource: domain.ResourceMusician}
		}
	}
	return nil
}
