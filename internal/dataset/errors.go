package dataset

import (
	"errors"
	"fmt"
)

var ErrFileNotFound = errors.New("dataset file not found")

// ParseError reports a malformed dataset: a missing column or an unparsable value.
type ParseError struct {
	Path   string
	Line   int // 0 when the error is not tied to a data row
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse dataset %s: line %d, column %s: %s", e.Path, e.Line, e.Column, e.Err)
	}
	if e.Column != "" {
		return fmt.Sprintf("parse dataset %s: column %s: %s", e.Path, e.Column, e.Err)
	}
	return fmt.Sprintf("parse dataset %s: %s", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
