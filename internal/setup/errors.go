package setup

import (
	"errors"
	"fmt"
)

// ErrSetupIncomplete is returned when finalize is requested before the flow
// has reached its last step.
var ErrSetupIncomplete = errors.New("setup steps are not complete")

// ValidationKind identifies the exact rule a field value broke, so the caller
// can surface a specific, localizable message.
type ValidationKind string

const (
	MissingImage      ValidationKind = "missing_image"
	Empty             ValidationKind = "empty"
	TooShort          ValidationKind = "too_short"
	TooLong           ValidationKind = "too_long"
	InvalidCharacters ValidationKind = "invalid_characters"
	RepeatedSpaces    ValidationKind = "repeated_spaces"
	BioTooLong        ValidationKind = "bio_too_long"
)

// ValidationError is recovered locally and never fatal; the draft is left
// untouched.
type ValidationError struct {
	Field string
	Kind  ValidationKind
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Kind)
}

// PersistenceError wraps a failed finalize write. The draft is retained and
// the caller may retry.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist profile: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
