package course

import (
	"errors"
	"fmt"
)

var (
	// ErrSourceUnavailable means a source could not be fetched or timed out.
	// The source contributes zero records to the run.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrRowMalformed means a row lacked the minimum structure and was dropped.
	ErrRowMalformed = errors.New("row malformed")

	// ErrFieldUnparsable means a single field fell back to its null/zero/raw value.
	ErrFieldUnparsable = errors.New("field unparsable")

	// ErrFilterSpecInvalid means a user-supplied filter input was ignored.
	ErrFilterSpecInvalid = errors.New("filter spec invalid")
)

// FieldError records which field of a row fell back and the text that failed.
type FieldError struct {
	Field string
	Raw   string
}

func (e *FieldError) Error() string {
	if e.Raw == "" {
		return fmt.Sprintf("%s: missing", e.Field)
	}
	return fmt.Sprintf("%s: cannot parse %q", e.Field, e.Raw)
}

// Unwrap lets errors.Is match ErrFieldUnparsable.
func (e *FieldError) Unwrap() error {
	return ErrFieldUnparsable
}

// RowError describes a dropped row.
type RowError struct {
	Source string
	Index  int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %d: %s", e.Source, e.Index, e.Reason)
}

// Unwrap lets errors.Is match ErrRowMalformed.
func (e *RowError) Unwrap() error {
	return ErrRowMalformed
}
