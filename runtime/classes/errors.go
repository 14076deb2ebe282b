package classes

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a named member or type does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalid is returned for malformed requests, such as an array of
	// void or a definition that breaks a type invariant.
	ErrInvalid = errors.New("invalid")
)

// NotFoundError describes a failed lookup.
type NotFoundError struct {
	Kind   string // "class", "loader", "field", "method" or "constructor"
	Owner  *Type
	Name   string
	Params []*Type
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind)
	b.WriteString(" not found: ")
	if e.Owner != nil {
		b.WriteString(e.Owner.Name())
		b.WriteByte('.')
	}
	b.WriteString(e.Name)
	if e.Kind == "method" || e.Kind == "constructor" {
		b.WriteByte('(')
		b.WriteString(joinNames(e.Params))
		b.WriteByte(')')
	}
	return b.String()
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// InvalidError carries the reason a request was rejected.
type InvalidError struct {
	Reason string
}

func (e *InvalidError) Error() string { return "invalid: " + e.Reason }

func (e *InvalidError) Unwrap() error { return ErrInvalid }

func invalidf(format string, args ...any) error {
	return &InvalidError{Reason: fmt.Sprintf(format, args...)}
}

func joinNames(types []*Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		if t == nil {
			names[i] = "null"
			continue
		}
		names[i] = t.Name()
	}
	return strings.Join(names, ",")
}
