package query

import (
	"context"
	"math"
)

const (
	MaxPageSize       = 20
	DefaultPageSize   = 10
	DefaultPageNumber = 1

	// MaxPageNumber keeps (PageNumber-1)*MaxPageSize within int.
	MaxPageNumber = math.MaxInt/MaxPageSize + 1
)

// Request is everything a source needs to produce one page.
type Request struct {
	Predicates []Predicate
	Sort       []SortKey
	PageNumber int
	PageSize   int
}

// ClampPageSize bounds a requested page size to [1, MaxPageSize].
func ClampPageSize(size int) int {
	if size < 1 {
		return 1
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// Normalize clamps the page size and the page number to [1, MaxPageNumber].
func (r Request) Normalize() Request {
	if r.PageNumber < 1 {
		r.PageNumber = DefaultPageNumber
	}
	if r.PageNumber > MaxPageNumber {
		r.PageNumber = MaxPageNumber
	}
	r.PageSize = ClampPageSize(r.PageSize)
	return r
}

// Offset is the number of records skipped before the page starts.
func (r Request) Offset() int {
	n := r.Normalize()
	return (n.PageNumber - 1) * n.PageSize
}

// Page is one slice of a filtered, sorted result set.
type Page[T any] struct {
	Items       []T
	TotalCount  int64
	PageSize    int
	CurrentPage int
	TotalPages  int
}

func NewPage[T any](items []T, totalCount int64, pageNumber, pageSize int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	}
	return Page[T]{
		Items:       items,
		TotalCount:  totalCount,
		PageSize:    pageSize,
		CurrentPage: pageNumber,
		TotalPages:  totalPages,
	}
}

func (p Page[T]) HasNext() bool {
	return p.CurrentPage < p.TotalPages
}

func (p Page[T]) HasPrevious() bool {
	return p.CurrentPage > 1
}

// Map converts the items of a page, keeping its metadata.
func Map[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, fn(item))
	}
	return Page[U]{
		Items:       items,
		TotalCount:  p.TotalCount,
		PageSize:    p.PageSize,
		CurrentPage: p.CurrentPage,
		TotalPages:  p.TotalPages,
	}
}

// Source is a filterable, sortable collection of records.
type Source[T any] interface {
	Count(ctx context.Context, predicates []Predicate) (int64, error)
	Find(ctx context.Context, predicates []Predicate, sort []SortKey, offset, limit int) ([]T, error)
}

// Execute counts the filtered set, then fetches the requested page of it.
func Execute[T any](ctx context.Context, src Source[T], req Request) (Page[T], error) {
	req = req.Normalize()

	total, err := src.Count(ctx, req.Predicates)
	if err != nil {
		return Page[T]{}, err
	}

	offset := req.Offset()
	var items []T
	if int64(offset) < total {
		items, err = src.Find(ctx, req.Predicates, req.Sort, offset, req.PageSize)
		if err != nil {
			return Page[T]{}, err
		}
	}

	return NewPage(items, total, req.PageNumber, req.PageSize), nil
}
