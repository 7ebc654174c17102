// Package mapping translates the field names clients see into the storage
// fields behind them, for both validation and sorting.
package mapping

import (
	"fmt"
	"strings"
)

// Entry maps one output field to the storage fields it is derived from.
// Reverse flips the natural order, e.g. sorting an age by date of birth.
type Entry struct {
	OutputField   string
	StorageFields []string
	Reverse       bool
}

// Field declares an entry.
func Field(output string, storage ...string) Entry {
	return Entry{OutputField: output, StorageFields: storage}
}

// Reversed returns the entry with its natural order flipped.
func (e Entry) Reversed() Entry {
	e.Reverse = true
	return e
}

// Table is the read-only mapping for one resource type.
type Table struct {
	resource string
	entries  []Entry
	index    map[string]int
}

// NewTable builds a table. Tables are created once at start up, so a
// malformed declaration panics.
func NewTable(resource string, entries ...Entry) *Table {
	t := &Table{
		resource: resource,
		entries:  make([]Entry, 0, len(entries)),
		index:    make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.OutputField))
		if key == "" {
			panic(fmt.Sprintf("mapping %s: empty output field", resource))
		}
		if len(e.StorageFields) == 0 {
			panic(fmt.Sprintf("mapping %s: %s has no storage fields", resource, e.OutputField))
		}
		if _, dup := t.index[key]; dup {
			panic(fmt.Sprintf("mapping %s: duplicate output field %s", resource, e.OutputField))
		}
		e.StorageFields = append([]string(nil), e.StorageFields...)
		t.index[key] = len(t.entries)
		t.entries = append(t.entries, e)
	}
	return t
}

func (t *Table) Resource() string { return t.resource }

// Lookup finds the entry for an output field, ignoring case.
func (t *Table) Lookup(name string) (Entry, bool) {
	i, ok := t.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// Fields lists the output fields in declaration order.
func (t *Table) Fields() []string {
	out := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.OutputField)
	}
	return out
}

// Validate reports whether every comma separated field in list is mapped.
// A trailing " asc" or " desc" is allowed on each token. Blank input is valid.
func (t *Table) Validate(list string) bool {
	if strings.TrimSpace(list) == "" {
		return true
	}
	for _, token := range strings.Split(list, ",") {
		name, _, ok := splitDirection(token)
		if !ok {
			return false
		}
		if _, found := t.Lookup(name); !found {
			return false
		}
	}
	return true
}

// splitDirection separates "Name desc" into the field and its direction.
func splitDirection(token string) (name string, descending bool, ok bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false, false
	}
	fields := strings.Fields(token)
	switch len(fields) {
	case 1:
		return fields[0], false, true
	case 2:
		switch strings.ToLower(fields[1]) {
		case "desc":
			return fields[0], true, true
		case "asc":
			return fields[0], false, true
		}
	}
	return "", false, false
}
