package domain

import (
	"errors"
	"fmt"
)

// Every message is prefixed with "drillsim:" so it can be grepped in logs.
// Callers match them with errors.Is; context is added by wrapping.
var (
	// ErrInvalidRange is returned when the depth range is empty or the step is not positive.
	ErrInvalidRange = errors.New("drillsim: invalid depth range")

	// ErrInvalidChannelBounds is returned when a channel has min >= max or a non-positive step delta.
	ErrInvalidChannelBounds = errors.New("drillsim: invalid channel bounds")

	// ErrUnknownChannel is returned when an override names a channel that does not exist.
	ErrUnknownChannel = errors.New("drillsim: unknown channel")

	// ErrColumnLength is returned when the columns of a table do not line up.
	ErrColumnLength = errors.New("drillsim: column length mismatch")

	// ErrUnknownFormat is returned when no serializer is registered for a format.
	ErrUnknownFormat = errors.New("drillsim: unknown export format")

	// ErrInvalidTarget is returned when an export target cannot name a file.
	ErrInvalidTarget = errors.New("drillsim: invalid export target")

	// ErrExportIO wraps file system failures during export.
	ErrExportIO = errors.New("drillsim: export i/o failure")

	// ErrNamingExhaustion is returned when the unique file name search hits its cap.
	ErrNamingExhaustion = errors.New("drillsim: no free file name")
)

// ValidationError describes a single rejected input field.
// It unwraps to the sentinel that classifies it.
type ValidationError struct {
	Field  string // Field name
	Reason string // Human-readable reason for failure
	Value  any    // The value that failed validation
	Err    error  // Classifying sentinel
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("%s: field %q: %s", e.Err, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: field %q: %s (got %v)", e.Err, e.Field, e.Reason, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err was caused by rejected input rather than I/O.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrInvalidChannelBounds) ||
		errors.Is(err, ErrUnknownChannel) ||
		errors.Is(err, ErrUnknownFormat) ||
		errors.Is(err, ErrInvalidTarget)
}
