package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrMissingHeader = errors.New("missing header row")
	ErrFieldCount    = errors.New("wrong number of fields")
	ErrMissingColumn = errors.New("missing column")
	ErrEmptyCode     = errors.New("empty course code")
)

// ParseError reports a malformed export, Line is 1-based and counts the
// header row.
type ParseError struct {
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("parse csv: line %d: column %q: %s", e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("parse csv: line %d: %s", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IOError reports a filesystem failure while reading a cache file or
// writing an output file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
