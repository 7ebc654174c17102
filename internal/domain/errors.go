package domain

import (
	"fmt"
	"sort"
	"strings"
)

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError.
func (e NotFoundError) Is(target error) bool {
	_, ok := target.(NotFoundError)
	if ok {
		return true
	}
	_, ok = target.(*NotFoundError)
	return ok
}

// ErrNotFound is the sentinel error for missing resources.
var ErrNotFound = NotFoundError{}

// InvalidInputError is a request the caller has to correct before retrying:
// unknown sort or field names, unparsable headers, malformed filters.
type InvalidInputError struct {
	Message string
}

func (e InvalidInputError) Error() string {
	if e.Message == "" {
		return "invalid input"
	}
	return e.Message
}

func (e InvalidInputError) Is(target error) bool {
	_, ok := target.(InvalidInputError)
	if ok {
		return true
	}
	_, ok = target.(*InvalidInputError)
	return ok
}

var ErrInvalidInput = InvalidInputError{}

// Invalidf builds an InvalidInputError.
func Invalidf(format string, args ...any) error {
	return InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// ReferenceError reports a payload field pointing at a record that does not exist.
// It is a client error.
type ReferenceError struct {
	Field    string
	Resource string
}

func (e ReferenceError) Error() string {
	return fmt.Sprintf("%s references a %s that does not exist", e.Field, e.Resource)
}

func (e ReferenceError) Is(target error) bool {
	switch target.(type) {
	case ReferenceError, *ReferenceError, InvalidInputError, *InvalidInputError:
		return true
	}
	return false
}

// ValidationError carries field-level messages for a payload that failed validation.
type ValidationError struct {
	Fields map[string][]string
}

func (e ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e ValidationError) Is(target error) bool {
	_, ok := target.(ValidationError)
	if ok {
		return true
	}
	_, ok = target.(*ValidationError)
	return ok
}

var ErrValidation = ValidationError{}

// Add appends a message for field.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}
