package codec

import (
	"errors"
	"fmt"
)

// ErrFormat is the kind shared by every malformed-input error below, so
// callers can reject bad files with a single errors.Is check.
var ErrFormat = errors.New("format error")

var (
	ErrInvalidFormat      = fmt.Errorf("%w: invalid format", ErrFormat)
	ErrNoValidRecords     = fmt.Errorf("%w: no valid student records found", ErrFormat)
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported backup version", ErrFormat)
	ErrUnknownFormat      = fmt.Errorf("%w: unrecognized file format", ErrFormat)
)

// ErrEmptyCollection is returned when an export is asked to encode zero records.
var ErrEmptyCollection = errors.New("no student data to export")

// MissingFieldError reports a JSON record without one of the required fields.
type MissingFieldError struct {
	Field string
	// Index is the zero-based position of the record in the input array.
	Index int
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field '%s' in record %d", e.Field, e.Index+1)
}

func (e *MissingFieldError) Unwrap() error { return ErrFormat }
