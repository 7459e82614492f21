package compiler

import (
	"errors"
	"fmt"
)

// Domain errors for the compiler package.
var (
	// ErrInvalidDirective is wrapped by every ParseError.
	ErrInvalidDirective = errors.New("compiler: invalid directive")

	// ErrUnknownDirective is returned when parsing a directive with no declared shape.
	ErrUnknownDirective = errors.New("compiler: unknown directive")
)

// ParseError reports a directive value that does not match its declared shape.
type ParseError struct {
	EntryID   string
	Directive string
	Shape     Shape
	Raw       string
	Err       error
}

func (e *ParseError) Error() string {
	if e.EntryID != "" {
		return fmt.Sprintf("compiler: invalid %s value for %s on %s: %v", e.Shape, e.Directive, e.EntryID, e.Err)
	}
	return fmt.Sprintf("compiler: invalid %s value for %s: %v", e.Shape, e.Directive, e.Err)
}

// Unwrap lets errors.Is match both ErrInvalidDirective and the cause.
func (e *ParseError) Unwrap() []error {
	return []error{ErrInvalidDirective, e.Err}
}
