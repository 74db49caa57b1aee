package interview

import (
	"errors"
	"fmt"
)

// ErrInvalidInput marks a caller contract violation. It is the only error the
// engine ever returns.
var ErrInvalidInput = errors.New("invalid interview input")

// InputError names the offending field.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Field, e.Reason)
}

func (e *InputError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, format string, args ...any) error {
	return &InputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
