// Package memory keeps the catalog in process, for development and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/query"
	"github.com/totegamma/discography/internal/usecase"
)

// Store is the shared backing cache of the memory repositories. Entries
// never expire.
type Store struct {
	cache *cache.Cache
	mu    sync.Mutex
	seq   int64
}

func NewStore() *Store {
	return &Store{
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// entry remembers insertion order so listings can break sort ties the
// way the sql store does.
type entry[E any] struct {
	seq   int64
	value E
}

type table[E usecase.Entity] struct {
	store    *Store
	resource string
	access   query.Accessor[E]
	inScope  func(item E, scope domain.Scope) bool
}

func (t *table[E]) key(id uuid.UUID) string {
	return t.resource + ":" + id.String()
}

func (t *table[E]) prefix() string {
	return t.resource + ":"
}

func (t *table[E]) lookup(id uuid.UUID) (entry[E], bool) {
	v, found := t.store.cache.Get(t.key(id))
	if !found {
		return entry[E]{}, false
	}
	return v.(entry[E]), true
}

func (t *table[E]) Get(ctx context.Context, scope domain.Scope, id uuid.UUID) (E, error) {
	e, found := t.lookup(id)
	if !found || !t.inScope(e.value, scope) {
		var zero E
		return zero, domain.NotFoundError{Resource: t.resource}
	}
	return e.value, nil
}

func (t *table[E]) Exists(ctx context.Context, scope domain.Scope, id uuid.UUID) (bool, error) {
	e, found := t.lookup(id)
	return found && t.inScope(e.value, scope), nil
}

// all returns the records inside scope in insertion order.
func (t *table[E]) all(scope domain.Scope) []E {
	entries := []entry[E]{}
	for k, item := range t.store.cache.Items() {
		if !strings.HasPrefix(k, t.prefix()) {
			continue
		}
		e := item.Object.(entry[E])
		if t.inScope(e.value, scope) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})

	out := make([]E, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.value)
	}
	return out
}

func (t *table[E]) List(ctx context.Context, scope domain.Scope, req query.Request) (query.Page[E], error) {
	src := query.SliceSource[E]{
		Items:  t.all(scope),
		Access: t.access,
	}
	return query.Execute[E](ctx, src, req)
}

func (t *table[E]) Create(ctx context.Context, item E) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	return t.insert(item)
}

// insert must be called with the store lock held.
func (t *table[E]) insert(item E) error {
	t.store.seq++
	err := t.store.cache.Add(t.key(item.Key()), entry[E]{seq: t.store.seq, value: item}, cache.NoExpiration)
	if err != nil {
		return domain.Invalidf("%s %s already exists", t.resource, item.Key())
	}
	return nil
}

func (t *table[E]) Update(ctx context.Context, item E) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	e, found := t.lookup(item.Key())
	if !found {
		return domain.NotFoundError{Resource: t.resource}
	}
	e.value = item
	t.store.cache.Set(t.key(item.Key()), e, cache.NoExpiration)
	return nil
}

func (t *table[E]) Delete(ctx context.Context, id uuid.UUID) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	t.store.cache.Delete(t.key(id))
	return nil
}

// deleteWhere removes every record matching fn. The store lock must be held.
func (t *table[E]) deleteWhere(fn func(E) bool) {
	for _, item := range t.all(domain.Scope{}) {
		if fn(item) {
			t.store.cache.Delete(t.key(item.Key()))
		}
	}
}

// updateWhere rewrites every record matching fn. The store lock must be held.
func (t *table[E]) updateWhere(fn func(E) (E, bool)) {
	for k, item := range t.store.cache.Items() {
		if !strings.HasPrefix(k, t.prefix()) {
			continue
		}
		e := item.Object.(entry[E])
		if v, ok := fn(e.value); ok {
			e.value = v
			t.store.cache.Set(k, e, cache.NoExpiration)
		}
	}
}
