package manifest

import (
	"errors"
	"fmt"
)

var (
	errBothContentSource = errors.New("content and source are mutually exclusive")
	errModeRange         = errors.New("mode out of range")
	errNegativeID        = errors.New("negative id")
	errTrailingData      = errors.New("trailing data after record")
)

type ParseErrorKind string

const (
	MalformedJSON ParseErrorKind = "malformed JSON"
	MissingField  ParseErrorKind = "missing field"
	InvalidKind   ParseErrorKind = "invalid kind"
	InvalidField  ParseErrorKind = "invalid field"
	UnsafePath    ParseErrorKind = "unsafe path"
)

// ParseError describes why a manifest line could not be turned into a
// record.
type ParseError struct {
	Kind  ParseErrorKind
	Line  int    // 1-based manifest line number, 0 if unknown
	Path  string // record path, when it was readable
	Field string // offending field for MissingField/InvalidField
	Err   error  // underlying cause, if any
}

func (e *ParseError) Error() string {
	msg := string(e.Kind)
	if e.Field != "" {
		msg += " " + e.Field
	}
	if e.Path != "" {
		msg += fmt.Sprintf(" (path %q)", e.Path)
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }
