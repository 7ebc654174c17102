// Package hateoas builds the hypermedia links attached to responses.
package hateoas

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/totegamma/discography"
)

const (
	RelSelf         = "self"
	RelNextPage     = "nextPage"
	RelPreviousPage = "previousPage"
)

// Builder renders absolute hrefs below Base, e.g. "http://localhost:8000".
type Builder struct {
	Base string
}

func NewBuilder(scheme, host string) Builder {
	return Builder{Base: scheme + "://" + host}
}

// Href joins path and query onto the base URL.
func (b Builder) Href(path string, q url.Values) string {
	href := strings.TrimSuffix(b.Base, "/") + path
	if len(q) > 0 {
		href += "?" + q.Encode()
	}
	return href
}

// Page describes where a collection response sits.
type Page struct {
	CurrentPage int
	HasNext     bool
	HasPrevious bool
}

// Collection returns self, plus nextPage and previousPage when they exist.
// params is the current query state; only pageNumber differs between links.
func (b Builder) Collection(path string, params url.Values, page Page) []discography.Link {
	links := []discography.Link{
		{Href: b.Href(path, withPage(params, page.CurrentPage)), Rel: RelSelf, Method: http.MethodGet},
	}
	if page.HasNext {
		links = append(links, discography.Link{
			Href:   b.Href(path, withPage(params, page.CurrentPage+1)),
			Rel:    RelNextPage,
			Method: http.MethodGet,
		})
	}
	if page.HasPrevious {
		links = append(links, discography.Link{
			Href:   b.Href(path, withPage(params, page.CurrentPage-1)),
			Rel:    RelPreviousPage,
			Method: http.MethodGet,
		})
	}
	return links
}

// Item returns the links for a single record of resource: self, then one
// per mutating operation. fields is carried on self when set.
func (b Builder) Item(resource, collectionPath, itemPath, fields string) []discography.Link {
	var q url.Values
	if strings.TrimSpace(fields) != "" {
		q = url.Values{"fields": {fields}}
	}
	return []discography.Link{
		{Href: b.Href(itemPath, q), Rel: RelSelf, Method: http.MethodGet},
		{Href: b.Href(itemPath, nil), Rel: "delete_" + resource, Method: http.MethodDelete},
		{Href: b.Href(collectionPath, nil), Rel: "create_" + resource, Method: http.MethodPost},
		{Href: b.Href(itemPath, nil), Rel: "update_" + resource, Method: http.MethodPut},
		{Href: b.Href(itemPath, nil), Rel: "partially_update_" + resource, Method: http.MethodPatch},
	}
}

// Root returns the entry points of the API.
func (b Builder) Root(bandsPath string) []discography.Link {
	return []discography.Link{
		{Href: b.Href("/api", nil), Rel: RelSelf, Method: http.MethodGet},
		{Href: b.Href(bandsPath, nil), Rel: "bands", Method: http.MethodGet},
		{Href: b.Href(bandsPath, nil), Rel: "create_band", Method: http.MethodPost},
	}
}

func withPage(params url.Values, pageNumber int) url.Values {
	q := make(url.Values, len(params)+1)
	for k, v := range params {
		q[k] = append([]string(nil), v...)
	}
	q.Set("pageNumber", strconv.Itoa(pageNumber))
	return q
}
