package discography

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// ParseIDList reads an id list of the form "(id1,id2,...)". The parentheses
// are optional and the input may be query escaped.
func ParseIDList(escaped string) ([]uuid.UUID, error) {
	raw, err := url.PathUnescape(escaped)
	if err != nil {
		return nil, fmt.Errorf("invalid id list encoding")
	}
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "(")
	raw = strings.TrimSuffix(raw, ")")
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty id list")
	}

	parts := strings.Split(raw, ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		id, err := uuid.Parse(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", strings.TrimSpace(p))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ComposeIDList is the inverse of ParseIDList.
func ComposeIDList(ids []uuid.UUID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id.String())
	}
	return "(" + strings.Join(parts, ",") + ")"
}
