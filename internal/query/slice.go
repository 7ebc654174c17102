package query

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Accessor reads a storage field of a record. ok is false for fields the
// record does not have.
type Accessor[T any] func(item T, field string) (value any, ok bool)

// SliceSource evaluates requests against records held in memory.
// Items must be in insertion order; ties in the sort keep that order.
type SliceSource[T any] struct {
	Items  []T
	Access Accessor[T]
}

func (s SliceSource[T]) Count(ctx context.Context, predicates []Predicate) (int64, error) {
	filtered, err := Filter(s.Items, predicates, s.Access)
	if err != nil {
		return 0, err
	}
	return int64(len(filtered)), nil
}

func (s SliceSource[T]) Find(ctx context.Context, predicates []Predicate, keys []SortKey, offset, limit int) ([]T, error) {
	if offset < 0 || limit < 0 {
		return nil, fmt.Errorf("invalid window offset=%d limit=%d", offset, limit)
	}
	filtered, err := Filter(s.Items, predicates, s.Access)
	if err != nil {
		return nil, err
	}
	if err := Sort(filtered, keys, s.Access); err != nil {
		return nil, err
	}
	if offset >= len(filtered) {
		return []T{}, nil
	}
	end := offset + limit
	if limit > len(filtered)-offset {
		end = len(filtered)
	}
	return filtered[offset:end], nil
}

// Filter returns the records matching every predicate, in their original order.
func Filter[T any](items []T, predicates []Predicate, access Accessor[T]) ([]T, error) {
	fold := cases.Fold()
	out := make([]T, 0, len(items))
	for _, item := range items {
		keep := true
		for _, p := range predicates {
			ok, err := match(item, p, access, fold)
			if err != nil {
				return nil, err
			}
			if !ok {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, item)
		}
	}
	return out, nil
}

func match[T any](item T, p Predicate, access Accessor[T], fold cases.Caser) (bool, error) {
	if p.Op == OpContains {
		needle := fold.String(fmt.Sprint(p.Value))
		for _, field := range p.Fields {
			v, ok := access(item, field)
			if !ok {
				return false, fmt.Errorf("unknown field %q", field)
			}
			s, _ := v.(string)
			if strings.Contains(fold.String(s), needle) {
				return true, nil
			}
		}
		return false, nil
	}

	if len(p.Fields) != 1 {
		return false, fmt.Errorf("%s predicate needs exactly one field", p.Op)
	}
	v, ok := access(item, p.Fields[0])
	if !ok {
		return false, fmt.Errorf("unknown field %q", p.Fields[0])
	}
	value := normalize(v)
	target := normalize(p.Value)

	switch p.Op {
	case OpEqual:
		if value == nil || target == nil {
			return false, nil
		}
		c, err := compareValues(value, target, nil)
		if err != nil {
			return false, err
		}
		return c == 0, nil
	case OpHasFlag:
		mask, ok1 := value.(int64)
		bit, ok2 := target.(int64)
		if !ok1 || !ok2 {
			return false, fmt.Errorf("hasFlag needs integer operands on %q", p.Fields[0])
		}
		return mask&bit != 0, nil
	case OpAfter, OpBefore:
		if value == nil || target == nil {
			return false, nil
		}
		c, err := compareValues(value, target, nil)
		if err != nil {
			return false, err
		}
		if p.Op == OpAfter {
			return c > 0, nil
		}
		return c < 0, nil
	}
	return false, fmt.Errorf("unsupported operator %s", p.Op)
}

// Sort orders records by keys, first key primary. The sort is stable.
func Sort[T any](items []T, keys []SortKey, access Accessor[T]) error {
	if len(keys) == 0 || len(items) < 2 {
		return nil
	}
	col := collate.New(language.Und, collate.IgnoreCase)
	var sortErr error
	sort.SliceStable(items, func(i, j int) bool {
		for _, k := range keys {
			a, ok := access(items[i], k.Field)
			if !ok {
				sortErr = fmt.Errorf("unknown sort field %q", k.Field)
				return false
			}
			b, _ := access(items[j], k.Field)
			c, err := compareValues(normalize(a), normalize(b), col)
			if err != nil {
				sortErr = err
				return false
			}
			if c == 0 {
				continue
			}
			if k.Descending {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return sortErr
}

func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case *int:
		if x == nil {
			return nil
		}
		return int64(*x)
	case *time.Time:
		if x == nil {
			return nil
		}
		return *x
	case uuid.UUID:
		return x.String()
	case *uuid.UUID:
		if x == nil {
			return nil
		}
		return x.String()
	}
	return v
}

// compareValues orders nil after every value, like NULLS LAST in postgres.
func compareValues(a, b any, col *collate.Collator) (int, error) {
	switch {
	case a == nil && b == nil:
		return 0, nil
	case a == nil:
		return 1, nil
	case b == nil:
		return -1, nil
	}

	switch x := a.(type) {
	case int64:
		y, ok := b.(int64)
		if !ok {
			break
		}
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
		return 0, nil
	case string:
		y, ok := b.(string)
		if !ok {
			break
		}
		if col != nil {
			if c := col.CompareString(x, y); c != 0 {
				return c, nil
			}
		}
		return strings.Compare(x, y), nil
	case time.Time:
		y, ok := b.(time.Time)
		if !ok {
			break
		}
		return x.Compare(y), nil
	case bool:
		y, ok := b.(bool)
		if !ok {
			break
		}
		switch {
		case x == y:
			return 0, nil
		case !x:
			return -1, nil
		}
		return 1, nil
	}
	return 0, fmt.Errorf("cannot compare %T with %T", a, b)
}
