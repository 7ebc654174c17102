package discography

import (
	"time"
)

const (
	MediaTypeJSON    = "application/json"
	MediaTypeHateoas = "application/vnd.marvin.hateoas+json"
	MediaTypePatch   = "application/json-patch+json"
)

// Link is a hypermedia control describing a follow up request.
type Link struct {
	Href   string `json:"href"`
	Rel    string `json:"rel"`
	Method string `json:"method"`
}

// PaginationMetadata is sent JSON encoded in the X-Pagination header.
type PaginationMetadata struct {
	TotalCount  int64 `json:"totalCount"`
	PageSize    int   `json:"pageSize"`
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
}

// Collection is the body of a list response.
type Collection struct {
	Value []any  `json:"value"`
	Links []Link `json:"links"`
}

// Root is the entry document served at /api.
type Root struct {
	Links []Link `json:"links"`
}

// Event announces a change to a catalog record.
type Event struct {
	Type     string    `json:"type"`
	Resource string    `json:"resource"`
	ID       string    `json:"id"`
	BandID   string    `json:"bandId,omitempty"`
	AlbumID  string    `json:"albumId,omitempty"`
	Href     string    `json:"href"`
	Time     time.Time `json:"time"`
}

// ProblemDetails is the body of an error response.
type ProblemDetails struct {
	Title   string              `json:"title"`
	Status  int                 `json:"status"`
	Detail  string              `json:"detail,omitempty"`
	TraceID string              `json:"traceId,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}
