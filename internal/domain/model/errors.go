package model

import (
	"fmt"
	"strings"

	"github.com/markwash/meta/internal/domain/shared"
)

// ArgumentError reports construction arguments nothing consumed.
type ArgumentError struct {
	Type       string
	Keywords   []string
	Positional int
	// Duplicate names a parameter given both positionally and by keyword.
	Duplicate string
}

// NewArgumentError describes the arguments left in args after construction
// of the named type.
func NewArgumentError(typeName string, args Args) *ArgumentError {
	return &ArgumentError{
		Type:       typeName,
		Keywords:   args.Keyword.Names(),
		Positional: len(args.Positional),
	}
}

// Error implements the error interface
func (e *ArgumentError) Error() string {
	parts := make([]string, 0, 3)
	switch len(e.Keywords) {
	case 0:
	case 1:
		parts = append(parts, fmt.Sprintf("unexpected keyword argument '%s'", e.Keywords[0]))
	default:
		parts = append(parts, fmt.Sprintf("unexpected keyword arguments '%s'", strings.Join(e.Keywords, "', '")))
	}
	if e.Positional > 0 {
		parts = append(parts, fmt.Sprintf("%d unexpected positional argument(s)", e.Positional))
	}
	if e.Duplicate != "" {
		parts = append(parts, fmt.Sprintf("multiple values for argument '%s'", e.Duplicate))
	}
	msg := strings.Join(parts, "; ")
	if e.Type != "" {
		msg = e.Type + ": " + msg
	}
	return msg
}

// Unwrap lets errors.Is match shared.ErrUnexpectedArgument.
func (e *ArgumentError) Unwrap() error {
	return shared.ErrUnexpectedArgument
}
