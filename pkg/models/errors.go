package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is returned when a generator parameter is out of
	// range (resolution below 3, non-positive size).
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrParse is returned when a mesh file cannot be parsed.
	ErrParse = errors.New("parse error")
)

// ParseError reports the line at which a mesh file failed to parse.
type ParseError struct {
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("line %d: %s: %v", e.Line, e.Msg, e.Err)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Unwrap exposes both ErrParse and the underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrParse, e.Err}
	}
	return []error{ErrParse}
}

// InvalidParameter wraps ErrInvalidParameter with the offending name and value.
func InvalidParameter(name string, value any) error {
	return fmt.Errorf("%w: %s = %v", ErrInvalidParameter, name, value)
}
