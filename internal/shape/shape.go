// Package shape reduces representations to a caller chosen set of fields.
package shape

import (
	"strings"

	"github.com/totegamma/discography/internal/domain"
)

// Fields is a shaped view: field name to value in output order.
type Fields = OrderedKVMap[any]

// Representation is anything that can list its declared fields in order.
type Representation interface {
	Declared() Fields
}

// Of builds Fields from alternating name, value pairs.
func Of(pairs ...any) Fields {
	f := make(Fields, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		f[pairs[i].(string)] = OrderedKV[any]{Value: pairs[i+1], Order: int64(i / 2)}
	}
	return f
}

// Names lists the declared field names of a representation.
func Names(rep Representation) []string {
	return rep.Declared().Keys()
}

// Check reports whether every field in selection is declared by rep.
func Check(rep Representation, selection string) error {
	_, err := resolve(rep.Declared(), selection)
	return err
}

// Apply returns the fields of rep named in selection, in the requested
// order. Names match case-insensitively and come out with their declared
// spelling. A blank selection returns every field in declared order.
func Apply(rep Representation, selection string) (Fields, error) {
	declared := rep.Declared()
	names, err := resolve(declared, selection)
	if err != nil {
		return nil, err
	}
	if names == nil {
		return declared, nil
	}

	out := make(Fields, len(names))
	for i, name := range names {
		out[name] = OrderedKV[any]{Value: declared[name].Value, Order: int64(i)}
	}
	return out, nil
}

// resolve maps selection onto declared names. nil means everything.
func resolve(declared Fields, selection string) ([]string, error) {
	if strings.TrimSpace(selection) == "" {
		return nil, nil
	}

	byLower := make(map[string]string, len(declared))
	for k := range declared {
		byLower[strings.ToLower(k)] = k
	}

	tokens := strings.Split(selection, ",")
	names := make([]string, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		name, ok := byLower[strings.ToLower(token)]
		if !ok {
			return nil, domain.Invalidf("field %q does not exist", token)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names, nil
}
