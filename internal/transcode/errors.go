package transcode

// errors.go defines the structured failure kinds at the transcoder boundary.
//
// Two kinds are reportable here: IOFailure (the file could not be opened,
// read, or written) and ParseError (the delimited text itself is malformed,
// with line and column detail). Callers that only need a success flag use
// the ImportOK/ExportOK adapters instead of inspecting these.

import (
	"errors"
	"fmt"
)

var (
	// ErrBareQuote is returned when a quote appears inside an unquoted field.
	ErrBareQuote = errors.New("bare quote in unquoted field")
	// ErrUnterminatedQuote is returned when a quoted field is not closed
	// before the end of input.
	ErrUnterminatedQuote = errors.New("unterminated quoted field")
	// ErrFileTooLarge is returned when the input exceeds the configured
	// maximum file size.
	ErrFileTooLarge = errors.New("file too large")
	// ErrBadOrigin is returned for a negative insertion origin.
	ErrBadOrigin = errors.New("insertion origin must be >= 1")
)

func errNegativeOrigin(row, col int) error {
	return fmt.Errorf("transcode: origin (%d, %d): %w", row, col, ErrBadOrigin)
}

// IOFailure reports a failure to open, read, or write a file. The
// underlying cause is reachable through errors.Is/As.
type IOFailure struct {
	Path string
	Err  error
}

func (e *IOFailure) Error() string {
	return fmt.Sprintf("transcode: %s: %v", e.Path, e.Err)
}

func (e *IOFailure) Unwrap() error {
	return e.Err
}

// ParseError reports malformed delimited text with its location. Line and
// Column are 1-based; Line counts logical source lines, so a newline
// embedded in a quoted field advances it.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("transcode: parse error on line %d, column %d: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
