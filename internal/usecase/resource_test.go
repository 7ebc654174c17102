package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/totegamma/discography"
	"github.com/totegamma/discography/internal/catalog"
	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/query"
	"github.com/totegamma/discography/internal/transfer"
)

type mockRepo[E Entity] struct {
	items   map[uuid.UUID]E
	order   []uuid.UUID
	inScope func(E, domain.Scope) bool
	created []E
	updated []E
	deleted []uuid.UUID
}

func newMockRepo[E Entity](inScope func(E, domain.Scope) bool, items ...E) *mockRepo[E] {
	m := &mockRepo[E]{items: map[uuid.UUID]E{}, inScope: inScope}
	for _, item := range items {
		m.items[item.Key()] = item
		m.order = append(m.order, item.Key())
	}
	return m
}

func (m *mockRepo[E]) Get(ctx context.Context, scope domain.Scope, id uuid.UUID) (E, error) {
	item, ok := m.items[id]
	if !ok || !m.inScope(item, scope) {
		var zero E
		return zero, domain.NotFoundError{}
	}
	return item, nil
}

func (m *mockRepo[E]) Exists(ctx context.Context, scope domain.Scope, id uuid.UUID) (bool, error) {
	_, err := m.Get(ctx, scope, id)
	return err == nil, nil
}

func (m *mockRepo[E]) List(ctx context.Context, scope domain.Scope, req query.Request) (query.Page[E], error) {
	items := []E{}
	for _, id := range m.order {
		if item, ok := m.items[id]; ok && m.inScope(item, scope) {
			items = append(items, item)
		}
	}
	return query.NewPage(items, int64(len(items)), req.PageNumber, req.PageSize), nil
}

func (m *mockRepo[E]) Create(ctx context.Context, entity E) error {
	m.items[entity.Key()] = entity
	m.order = append(m.order, entity.Key())
	m.created = append(m.created, entity)
	return nil
}

func (m *mockRepo[E]) Update(ctx context.Context, entity E) error {
	m.items[entity.Key()] = entity
	m.updated = append(m.updated, entity)
	return nil
}

func (m *mockRepo[E]) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockBandRepo struct {
	*mockRepo[domain.Band]
}

func (m mockBandRepo) GetMany(ctx context.Context, ids []uuid.UUID) ([]domain.Band, error) {
	out := []domain.Band{}
	for _, id := range ids {
		if b, ok := m.items[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m mockBandRepo) CreateMany(ctx context.Context, bands []domain.Band) error {
	for _, b := range bands {
		m.Create(ctx, b)
	}
	return nil
}

type mockPublisher struct {
	events []discography.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event discography.Event) error {
	m.events = append(m.events, event)
	return nil
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := transfer.ParseDate(s)
	if err != nil {
		t.Fatalf("bad date %s: %v", s, err)
	}
	return d
}

func newBandRepo(bands ...domain.Band) mockBandRepo {
	return mockBandRepo{newMockRepo(func(domain.Band, domain.Scope) bool { return true }, bands...)}
}

func newMusicianRepo(musicians ...domain.Musician) *mockRepo[domain.Musician] {
	return newMockRepo(func(m domain.Musician, s domain.Scope) bool {
		return !s.HasBand() || m.BandID == s.BandID
	}, musicians...)
}

func newAlbumRepo(albums ...domain.Album) *mockRepo[domain.Album] {
	return newMockRepo(func(a domain.Album, s domain.Scope) bool {
		return !s.HasBand() || a.BandID == s.BandID
	}, albums...)
}

func newSongRepo(songs ...domain.Song) *mockRepo[domain.Song] {
	return newMockRepo(func(song domain.Song, s domain.Scope) bool {
		if s.HasBand() && song.BandID != s.BandID {
			return false
		}
		return !s.HasAlbum() || song.AlbumID == s.AlbumID
	}, songs...)
}

func TestBandCreatePublishesEvent(t *testing.T) {
	repo := newBandRepo()
	events := &mockPublisher{}
	uc := NewBandUsecase(repo, events)

	band, err := uc.Create(context.Background(), domain.Scope{}, transfer.BandInput{
		Name:   "Led Zeppelin",
		Genres: []string{"rock", "blues"},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if band.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one create, got %d", len(repo.created))
	}
	if len(events.events) != 1 {
		t.Fatalf("expected one event, got %d", len(events.events))
	}
	ev := events.events[0]
	if ev.Type != "created" || ev.Resource != "band" || ev.ID != band.ID.String() {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.Href != "/api/bands/"+band.ID.String() {
		t.Fatalf("unexpected href %s", ev.Href)
	}
}

func TestBandCreateValidation(t *testing.T) {
	repo := newBandRepo()
	uc := NewBandUsecase(repo, nil)

	_, err := uc.Create(context.Background(), domain.Scope{}, transfer.BandInput{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("nothing should be stored")
	}
}

func TestReplaceUpsert(t *testing.T) {
	existing := domain.Band{ID: uuid.New(), Name: "Old"}
	repo := newBandRepo(existing)
	uc := NewBandUsecase(repo, nil)
	ctx := context.Background()

	band, created, err := uc.Replace(ctx, domain.Scope{}, existing.ID, transfer.BandInput{Name: "New"})
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if created {
		t.Fatalf("expected update of existing band")
	}
	if band.Name != "New" || len(repo.updated) != 1 {
		t.Fatalf("expected stored update, got %+v", band)
	}

	id := uuid.New()
	band, created, err = uc.Replace(ctx, domain.Scope{}, id, transfer.BandInput{Name: "Fresh"})
	if err != nil {
		t.Fatalf("replace failed: %v", err)
	}
	if !created || band.ID != id {
		t.Fatalf("expected creation at %s, got %s (created=%v)", id, band.ID, created)
	}
}

func TestReplaceRejectsIDOfOtherParent(t *testing.T) {
	band := domain.Band{ID: uuid.New()}
	other := domain.Band{ID: uuid.New()}
	musician := domain.Musician{ID: uuid.New(), BandID: other.ID}
	uc := NewMusicianUsecase(newMusicianRepo(musician), newBandRepo(band, other), nil)

	_, _, err := uc.Replace(context.Background(), domain.Scope{BandID: band.ID}, musician.ID, transfer.MusicianInput{
		FirstName:   "Jimmy",
		LastName:    "Page",
		DateOfBirth: transfer.NewDate(mustDate(t, "1944-01-09")),
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestPatchExistingAndMissing(t *testing.T) {
	existing := domain.Band{ID: uuid.New(), Name: "Led Zeppelin", YearOfFormation: 1968}
	repo := newBandRepo(existing)
	uc := NewBandUsecase(repo, nil)
	ctx := context.Background()

	band, created, err := uc.Patch(ctx, domain.Scope{}, existing.ID, func(in *transfer.BandInput) error {
		in.Description = "English rock band"
		return nil
	})
	if err != nil {
		t.Fatalf("patch failed: %v", err)
	}
	if created {
		t.Fatalf("expected update")
	}
	if band.Name != "Led Zeppelin" || band.YearOfFormation != 1968 || band.Description != "English rock band" {
		t.Fatalf("patch lost fields: %+v", band)
	}

	// a blank payload that stays blank fails validation
	_, _, err = uc.Patch(ctx, domain.Scope{}, uuid.New(), func(in *transfer.BandInput) error {
		return nil
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	id := uuid.New()
	band, created, err = uc.Patch(ctx, domain.Scope{}, id, func(in *transfer.BandInput) error {
		in.Name = "The Yardbirds"
		return nil
	})
	if err != nil {
		t.Fatalf("patch create failed: %v", err)
	}
	if !created || band.ID != id {
		t.Fatalf("expected creation at %s", id)
	}
}

func TestDeleteMissing(t *testing.T) {
	repo := newBandRepo()
	uc := NewBandUsecase(repo, nil)

	err := uc.Delete(context.Background(), domain.Scope{}, uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(repo.deleted) != 0 {
		t.Fatalf("nothing should be deleted")
	}
}

func TestNestedRequiresParent(t *testing.T) {
	uc := NewAlbumUsecase(newAlbumRepo(), newBandRepo(), newMusicianRepo(), nil)
	ctx := context.Background()
	scope := domain.Scope{BandID: uuid.New()}

	_, err := uc.List(ctx, scope, catalog.Params{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("list: expected not found, got %v", err)
	}
	_, err = uc.Create(ctx, scope, transfer.AlbumCreateInput{Title: "IV"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("create: expected not found, got %v", err)
	}
	err = uc.Delete(ctx, scope, uuid.New())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("delete: expected not found, got %v", err)
	}
}

func TestAlbumCreateWithSongs(t *testing.T) {
	band := domain.Band{ID: uuid.New()}
	page := domain.Musician{ID: uuid.New(), BandID: band.ID}
	albums := newAlbumRepo()
	uc := NewAlbumUsecase(albums, newBandRepo(band), newMusicianRepo(page), nil)

	album, err := uc.Create(context.Background(), domain.Scope{BandID: band.ID}, transfer.AlbumCreateInput{
		Title: "Led Zeppelin IV",
		Songs: []transfer.SongInput{
			{Title: "Black Dog", Duration: "4:55", ComposerID: &page.ID},
			{Title: "Rock and Roll", Duration: "3:40"},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(album.Songs) != 2 {
		t.Fatalf("expected 2 songs, got %d", len(album.Songs))
	}
	for _, s := range album.Songs {
		if s.AlbumID != album.ID || s.BandID != band.ID || s.ID == uuid.Nil {
			t.Fatalf("song not attached to album: %+v", s)
		}
	}

	missing := uuid.New()
	_, err = uc.Create(context.Background(), domain.Scope{BandID: band.ID}, transfer.AlbumCreateInput{
		Title: "Coda",
		Songs: []transfer.SongInput{{Title: "Walter's Walk", Duration: "4:31", LyricistID: &missing}},
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected reference error, got %v", err)
	}
}

func songFixture(t *testing.T) (domain.Band, domain.Album, domain.Musician) {
	t.Helper()
	band := domain.Band{ID: uuid.New()}
	album := domain.Album{ID: uuid.New(), BandID: band.ID}
	musician := domain.Musician{ID: uuid.New(), BandID: band.ID}
	return band, album, musician
}

func TestSongReferences(t *testing.T) {
	band, album, musician := songFixture(t)
	missing := uuid.New()
	scope := domain.Scope{BandID: band.ID, AlbumID: album.ID}
	ctx := context.Background()

	cases := []struct {
		name    string
		verify  bool
		replace bool
		wantErr bool
	}{
		{"create checks", true, false, true},
		{"create checks regardless of flag", false, false, true},
		{"replace checks when enabled", true, true, true},
		{"legacy replace skips check", false, true, false},
	}
	for _, c := range cases {
		uc := NewSongUsecase(newSongRepo(), newAlbumRepo(album), newMusicianRepo(musician), nil, domain.Config{
			VerifyReferencesOnReplace: c.verify,
		})
		in := transfer.SongInput{Title: "Kashmir", Duration: "8:37", ComposerID: &musician.ID, LyricistID: &missing}

		var err error
		if c.replace {
			_, _, err = uc.Replace(ctx, scope, uuid.New(), in)
		} else {
			_, err = uc.Create(ctx, scope, in)
		}
		if c.wantErr {
			var ref domain.ReferenceError
			if !errors.As(err, &ref) || ref.Field != "lyricistId" {
				t.Fatalf("%s: expected lyricist reference error, got %v", c.name, err)
			}
		} else if err != nil {
			t.Fatalf("%s: unexpected error %v", c.name, err)
		}
	}
}

func TestSongRequiresAlbumOfBand(t *testing.T) {
	band, album, musician := songFixture(t)
	uc := NewSongUsecase(newSongRepo(), newAlbumRepo(album), newMusicianRepo(musician), nil, domain.Config{})

	_, err := uc.List(context.Background(), domain.Scope{BandID: uuid.New(), AlbumID: album.ID}, catalog.Params{})
	var nf domain.NotFoundError
	if !errors.As(err, &nf) || nf.Resource != "album" {
		t.Fatalf("expected album not found, got %v", err)
	}
	_, err = uc.List(context.Background(), domain.Scope{BandID: band.ID, AlbumID: album.ID}, catalog.Params{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
}

func TestSongPatchScope(t *testing.T) {
	band, album, musician := songFixture(t)
	other := domain.Album{ID: uuid.New(), BandID: band.ID}
	song := domain.Song{ID: uuid.New(), Title: "Kashmir", DurationInSeconds: 517, BandID: band.ID, AlbumID: other.ID}
	ctx := context.Background()
	scope := domain.Scope{BandID: band.ID, AlbumID: album.ID}
	rename := func(in *transfer.SongInput) error {
		in.Title = "Kashmir (Live)"
		if in.Duration == "" {
			in.Duration = "8:37"
		}
		return nil
	}

	uc := NewSongUsecase(newSongRepo(song), newAlbumRepo(album, other), newMusicianRepo(musician), nil, domain.Config{
		ScopeSongPatchByAlbum: true,
	})
	_, _, err := uc.Patch(ctx, scope, song.ID, rename)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("album scoped patch should not see song of other album, got %v", err)
	}

	songs := newSongRepo(song)
	uc = NewSongUsecase(songs, newAlbumRepo(album, other), newMusicianRepo(musician), nil, domain.Config{})
	patched, created, err := uc.Patch(ctx, scope, song.ID, rename)
	if err != nil {
		t.Fatalf("band scoped patch failed: %v", err)
	}
	if created || patched.AlbumID != album.ID || patched.DurationInSeconds != 517 {
		t.Fatalf("unexpected patch result %+v (created=%v)", patched, created)
	}
}

func TestBandCollection(t *testing.T) {
	a := domain.Band{ID: uuid.New(), Name: "A"}
	b := domain.Band{ID: uuid.New(), Name: "B"}
	repo := newBandRepo(a, b)
	events := &mockPublisher{}
	uc := NewBandCollectionUsecase(repo, events)
	ctx := context.Background()

	bands, err := uc.Get(ctx, []uuid.UUID{b.ID, a.ID})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if bands[0].Name != "B" || bands[1].Name != "A" {
		t.Fatalf("expected request order, got %+v", bands)
	}
	_, err = uc.Get(ctx, []uuid.UUID{a.ID, uuid.New()})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	_, err = uc.Create(ctx, []transfer.BandInput{{Name: "ok"}, {}})
	var verr domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := verr.Fields["[1].name"]; !ok {
		t.Fatalf("expected indexed field key, got %v", verr.Fields)
	}

	created, err := uc.Create(ctx, []transfer.BandInput{{Name: "C"}, {Name: "D"}})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(created) != 2 || len(events.events) != 2 {
		t.Fatalf("expected 2 bands and 2 events, got %d and %d", len(created), len(events.events))
	}
}
