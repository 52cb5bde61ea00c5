package asc

import (
	"errors"
	"fmt"
)

var (
	errMissingValue = errors.New("missing value")

	// ErrHeaderIncomplete is returned by ReadHeader when the input ends before
	// NODATA_value.
	ErrHeaderIncomplete = errors.New("asc: input ended before NODATA_value")
)

// IOError is returned when the grid cannot be opened or read.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("asc: read: %v", e.Err)
	}
	return fmt.Sprintf("asc: %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError is returned for a malformed header or body token.
type ParseError struct {
	Line  int
	Key   string // header keyword, empty for body values
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("asc: line %d: %s %q: %v", e.Line, e.Key, e.Token, e.Err)
	}
	return fmt.Sprintf("asc: line %d: value %q: %v", e.Line, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
