// Package catalog describes each resource the API serves: how its fields
// map to storage, which filters it accepts and where it lives.
package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/mapping"
	"github.com/totegamma/discography/internal/query"
	"github.com/totegamma/discography/internal/shape"
)

// Filter turns one query parameter into a predicate. apply is false when
// the raw value means "no filter".
type Filter struct {
	Param string
	Build func(raw string) (p query.Predicate, apply bool, err error)
}

// Descriptor is the read-only description of a resource type.
type Descriptor struct {
	// Name is the singular resource name used in link relations.
	Name string
	// Collection is the collection path with {bandId} and {albumId} placeholders.
	Collection string
	// Parents are the route parameters that identify the parent scope.
	Parents []string
	// IDParam is the route parameter of the item id.
	IDParam string
	Mapping *mapping.Table
	// Fields are the declared output fields of the representation.
	Fields  []string
	Search  []string
	Filters []Filter
	// DefaultOrderBy applies when the request has no orderBy.
	DefaultOrderBy string
}

// CollectionPath fills the parent placeholders from scope.
func (d *Descriptor) CollectionPath(scope domain.Scope) string {
	p := d.Collection
	p = strings.ReplaceAll(p, "{bandId}", scope.BandID.String())
	p = strings.ReplaceAll(p, "{albumId}", scope.AlbumID.String())
	return p
}

func (d *Descriptor) ItemPath(scope domain.Scope, id uuid.UUID) string {
	return d.CollectionPath(scope) + "/" + id.String()
}

// CollectionRoute is the collection path in echo route syntax.
func (d *Descriptor) CollectionRoute() string {
	p := d.Collection
	p = strings.ReplaceAll(p, "{bandId}", ":bandId")
	p = strings.ReplaceAll(p, "{albumId}", ":albumId")
	return p
}

func (d *Descriptor) ItemRoute() string {
	return d.CollectionRoute() + "/:" + d.IDParam
}

// Params is the parsed query state of a list request.
type Params struct {
	PageNumber  int
	PageSize    int
	OrderBy     string
	Fields      string
	SearchQuery string
	// Filters holds the raw resource specific parameters that were applied.
	Filters    url.Values
	Predicates []query.Predicate
}

// ParseParams reads paging, sorting, shaping, search and the descriptor's
// filters from q. Malformed numbers and filter values are invalid input.
func (d *Descriptor) ParseParams(q url.Values) (Params, error) {
	p := Params{
		PageNumber: query.DefaultPageNumber,
		PageSize:   query.DefaultPageSize,
		OrderBy:    d.DefaultOrderBy,
		Filters:    url.Values{},
	}

	if raw := strings.TrimSpace(q.Get("pageNumber")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Params{}, domain.Invalidf("invalid pageNumber %q", raw)
		}
		p.PageNumber = n
	}
	if raw := strings.TrimSpace(q.Get("pageSize")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Params{}, domain.Invalidf("invalid pageSize %q", raw)
		}
		p.PageSize = n
	}
	if p.PageNumber < 1 {
		p.PageNumber = query.DefaultPageNumber
	}
	if p.PageNumber > query.MaxPageNumber {
		p.PageNumber = query.MaxPageNumber
	}
	p.PageSize = query.ClampPageSize(p.PageSize)

	if q.Has("orderBy") {
		p.OrderBy = q.Get("orderBy")
	}
	p.Fields = q.Get("fields")
	p.SearchQuery = strings.TrimSpace(q.Get("searchQuery"))

	if p.SearchQuery != "" && len(d.Search) > 0 {
		p.Predicates = append(p.Predicates, query.Contains(p.SearchQuery, d.Search...))
	}

	for _, f := range d.Filters {
		raw := strings.TrimSpace(q.Get(f.Param))
		if raw == "" {
			continue
		}
		pred, apply, err := f.Build(raw)
		if err != nil {
			return Params{}, domain.Invalidf("invalid %s: %s", f.Param, err.Error())
		}
		if !apply {
			continue
		}
		p.Filters.Set(f.Param, raw)
		p.Predicates = append(p.Predicates, pred)
	}

	return p, nil
}

// Values is the query state to carry on collection links.
func (p Params) Values() url.Values {
	v := url.Values{}
	v.Set("pageNumber", strconv.Itoa(p.PageNumber))
	v.Set("pageSize", strconv.Itoa(p.PageSize))
	if p.OrderBy != "" {
		v.Set("orderBy", p.OrderBy)
	}
	if p.Fields != "" {
		v.Set("fields", p.Fields)
	}
	if p.SearchQuery != "" {
		v.Set("searchQuery", p.SearchQuery)
	}
	for k, vals := range p.Filters {
		for _, val := range vals {
			v.Add(k, val)
		}
	}
	return v
}

// Request is the page request for the compiled sort keys.
func (p Params) Request(sort []query.SortKey) query.Request {
	return query.Request{
		Predicates: p.Predicates,
		Sort:       sort,
		PageNumber: p.PageNumber,
		PageSize:   p.PageSize,
	}
}

// CheckFields reports whether every requested field is declared.
func (d *Descriptor) CheckFields(fields string) error {
	return shape.Check(declared(d.Fields), fields)
}

type declared []string

func (n declared) Declared() shape.Fields {
	f := make(shape.Fields, len(n))
	for i, name := range n {
		f[name] = shape.OrderedKV[any]{Order: int64(i)}
	}
	return f
}
