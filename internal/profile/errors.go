package profile

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptState matches any *CorruptStateError.
	ErrCorruptState = errors.New("stored document is corrupt")

	// ErrInvalidInput is returned when a value cannot be represented in the document,
	// such as an unknown mood or role. Empty strings are accepted.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidImport is returned when imported data lacks required sections.
	ErrInvalidImport = errors.New("invalid import data")

	// ErrInvalidNamespace is returned for empty namespaces or namespaces containing '/'.
	ErrInvalidNamespace = errors.New("invalid storage namespace")

	// errNoChange aborts a mutation without writing.
	errNoChange = errors.New("no change")
)

// CorruptStateError reports a stored document that could not be decoded. The
// document is left untouched so the data can be recovered.
type CorruptStateError struct {
	Key string
	Err error
}

func (e *CorruptStateError) Error() string {
	return fmt.Sprintf("corrupt document %q: %v", e.Key, e.Err)
}

func (e *CorruptStateError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrCorruptState) true for any CorruptStateError.
func (e *CorruptStateError) Is(target error) bool { return target == ErrCorruptState }

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
