package pack

import (
	"errors"
	"fmt"
)

// Sentinel causes carried inside WriteError and ReadError; match with
// errors.Is.
var (
	// ErrLengthMismatch is returned when a content source produces
	// a different byte count than its declared size.
	ErrLengthMismatch = errors.New("content length mismatch")

	// ErrUnsupportedEntryType is returned when an archive member
	// has no manifest representation (device nodes, fifos).
	ErrUnsupportedEntryType = errors.New("unsupported entry type")

	// ErrCorruptArchive is returned for malformed or truncated
	// archive content.
	ErrCorruptArchive = errors.New("corrupt archive")
)

// SubstitutionError reports a placeholder that references an
// undefined variable, with the record it came from.
type SubstitutionError struct {
	Name string
	Path string
	Line int
}

func (e *SubstitutionError) Error() string {
	return fmt.Sprintf(
		"line %d: undefined variable %q in record %q",
		e.Line, e.Name, e.Path,
	)
}

// ConflictError reports two records resolving to the same archive
// path where the directory policy does not permit it.
type ConflictError struct {
	Path string
	Line int // line of the colliding record
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf(
		"line %d: duplicate entry for path %q", e.Line, e.Path,
	)
}

// WriteError wraps a failure while serializing one record.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %q: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ReadError wraps a failure while reading one archive member.
// Member is the 0-based index of the member at fault.
type ReadError struct {
	Member int
	Path   string
	Err    error
}

func (e *ReadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf(
			"archive member %d (%s): %v", e.Member, e.Path, e.Err,
		)
	}
	return fmt.Sprintf("archive member %d: %v", e.Member, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
