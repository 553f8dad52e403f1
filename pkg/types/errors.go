package types

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package matches exactly one of
// these through errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrDuplicate  = errors.New("duplicate entry")
	ErrNotFound   = errors.New("not found")
)

// ValidationError reports malformed field input.
type ValidationError struct {
	Field  string // Field kind, e.g. "phone" or "email".
	Value  string // Offending input after trimming.
	Reason string // Human-readable reason.
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// DuplicateError reports a name, phone, or id collision.
type DuplicateError struct {
	Kind  string // "contact", "phone", "note".
	Value string
	Owner string // Contact already holding the value, if any.
}

func (e *DuplicateError) Error() string {
	if e.Owner != "" {
		return fmt.Sprintf("%s %q already belongs to contact %q", e.Kind, e.Value, e.Owner)
	}
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Value)
}

// Is reports whether target is ErrDuplicate.
func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// NotFoundError reports a reference to a missing contact, phone, note, or tag.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
