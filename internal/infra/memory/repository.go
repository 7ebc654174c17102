package memory

import (
	"context"

	"github.com/google/uuid"

	"github.com/totegamma/discography/internal/catalog"
	"github.com/totegamma/discography/internal/domain"
)

type BandRepository struct {
	*table[domain.Band]
}

func NewBandRepository(store *Store) *BandRepository {
	return &BandRepository{&table[domain.Band]{
		store:    store,
		resource: domain.ResourceBand,
		access:   bandField,
		inScope:  func(domain.Band, domain.Scope) bool { return true },
	}}
}

func (r *BandRepository) GetMany(ctx context.Context, ids []uuid.UUID) ([]domain.Band, error) {
	out := make([]domain.Band, 0, len(ids))
	for _, id := range ids {
		if e, found := r.lookup(id); found {
			out = append(out, e.value)
		}
	}
	return out, nil
}

// CreateMany stores all bands or none of them.
func (r *BandRepository) CreateMany(ctx context.Context, bands []domain.Band) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, b := range bands {
		if _, found := r.lookup(b.ID); found {
			return domain.Invalidf("band %s already exists", b.ID)
		}
	}
	for _, b := range bands {
		if err := r.insert(b); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the band with its albums, songs and musicians.
func (r *BandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	songs(r.store).deleteWhere(func(s domain.Song) bool { return s.BandID == id })
	albums(r.store).deleteWhere(func(a domain.Album) bool { return a.BandID == id })
	musicians(r.store).deleteWhere(func(m domain.Musician) bool { return m.BandID == id })
	r.store.cache.Delete(r.key(id))
	return nil
}

type AlbumRepository struct {
	*table[domain.Album]
}

func NewAlbumRepository(store *Store) *AlbumRepository {
	return &AlbumRepository{albums(store)}
}

func albums(store *Store) *table[domain.Album] {
	return &table[domain.Album]{
		store:    store,
		resource: domain.ResourceAlbum,
		access:   albumField,
		inScope: func(a domain.Album, s domain.Scope) bool {
			return !s.HasBand() || a.BandID == s.BandID
		},
	}
}

// Create stores the album and the songs created with it. Songs are not
// kept on the album record itself.
func (r *AlbumRepository) Create(ctx context.Context, album domain.Album) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	nested := album.Songs
	album.Songs = nil
	if err := r.insert(album); err != nil {
		return err
	}
	st := songs(r.store)
	for _, s := range nested {
		if err := st.insert(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *AlbumRepository) Update(ctx context.Context, album domain.Album) error {
	album.Songs = nil
	return r.table.Update(ctx, album)
}

func (r *AlbumRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	songs(r.store).deleteWhere(func(s domain.Song) bool { return s.AlbumID == id })
	r.store.cache.Delete(r.key(id))
	return nil
}

type MusicianRepository struct {
	*table[domain.Musician]
}

func NewMusicianRepository(store *Store) *MusicianRepository {
	return &MusicianRepository{musicians(store)}
}

func musicians(store *Store) *table[domain.Musician] {
	return &table[domain.Musician]{
		store:    store,
		resource: domain.ResourceMusician,
		access:   musicianField,
		inScope: func(m domain.Musician, s domain.Scope) bool {
			return !s.HasBand() || m.BandID == s.BandID
		},
	}
}

// Delete removes the musician and clears the song credits naming them.
func (r *MusicianRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	songs(r.store).updateWhere(func(s domain.Song) (domain.Song, bool) {
		changed := false
		if s.LyricistID != nil && *s.LyricistID == id {
			s.LyricistID = nil
			changed = true
		}
		if s.ComposerID != nil && *s.ComposerID == id {
			s.ComposerID = nil
			changed = true
		}
		return s, changed
	})
	r.store.cache.Delete(r.key(id))
	return nil
}

type SongRepository struct {
	*table[domain.Song]
}

func NewSongRepository(store *Store) *SongRepository {
	return &SongRepository{songs(store)}
}

func songs(store *Store) *table[domain.Song] {
	return &table[domain.Song]{
		store:    store,
		resource: domain.ResourceSong,
		access:   songField,
		inScope: func(song domain.Song, s domain.Scope) bool {
			if s.HasBand() && song.BandID != s.BandID {
				return false
			}
			return !s.HasAlbum() || song.AlbumID == s.AlbumID
		},
	}
}

func bandField(b domain.Band, field string) (any, bool) {
	switch field {
	case catalog.FieldID:
		return b.ID, true
	case catalog.FieldName:
		return b.Name, true
	case catalog.FieldYearOfFormation:
		return b.YearOfFormation, true
	case catalog.FieldAlsoKnownAs:
		return b.AlsoKnownAs, true
	case catalog.FieldActiveSince:
		return b.ActiveSince(), true
	case catalog.FieldGenres:
		return domain.PackGenres(b.Genres), true
	}
	return nil, false
}

func albumField(a domain.Album, field string) (any, bool) {
	switch field {
	case catalog.FieldID:
		return a.ID, true
	case catalog.FieldTitle:
		return a.Title, true
	case catalog.FieldLabel:
		return a.Label, true
	case catalog.FieldDateReleased:
		return a.DateReleased, true
	}
	return nil, false
}

func musicianField(m domain.Musician, field string) (any, bool) {
	switch field {
	case catalog.FieldID:
		return m.ID, true
	case catalog.FieldFirstName:
		return m.FirstName, true
	case catalog.FieldMiddleName:
		return m.MiddleName, true
	case catalog.FieldLastName:
		return m.LastName, true
	case catalog.FieldAlsoKnownAs:
		return m.AlsoKnownAs, true
	case catalog.FieldDateOfBirth:
		return m.DateOfBirth, true
	case catalog.FieldDateOfDeath:
		return m.DateOfDeath, true
	case catalog.FieldInstruments:
		return domain.PackInstruments(m.Instruments), true
	}
	return nil, false
}

func songField(s domain.Song, field string) (any, bool) {
	switch field {
	case catalog.FieldID:
		return s.ID, true
	case catalog.FieldTitle:
		return s.Title, true
	case catalog.FieldDurationInSeconds:
		return s.DurationInSeconds, true
	case catalog.FieldDateRecorded:
		return s.DateRecorded, true
	case catalog.FieldDateReleased:
		return s.DateReleased, true
	case catalog.FieldGenres:
		return domain.PackGenres(s.Genres), true
	}
	return nil, false
}
