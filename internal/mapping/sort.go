package mapping

import (
	"strings"

	"github.com/totegamma/discography/internal/domain"
	"github.com/totegamma/discography/internal/query"
)

// Compile turns an ordering expression such as "Name desc, Id" into sort
// keys over storage fields. Each token expands to every storage field of its
// entry, in order, with the direction flipped for reversed entries.
// Unknown fields fail the whole expression.
func (t *Table) Compile(orderBy string) ([]query.SortKey, error) {
	if strings.TrimSpace(orderBy) == "" {
		return nil, nil
	}

	var keys []query.SortKey
	for _, token := range strings.Split(orderBy, ",") {
		name, descending, ok := splitDirection(token)
		if !ok {
			return nil, domain.Invalidf("invalid orderBy clause %q", strings.TrimSpace(token))
		}
		entry, found := t.Lookup(name)
		if !found {
			return nil, domain.Invalidf("%s cannot be ordered by %q", t.resource, name)
		}
		for _, field := range entry.StorageFields {
			keys = append(keys, query.SortKey{
				Field:      field,
				Descending: descending != entry.Reverse,
			})
		}
	}
	return keys, nil
}
