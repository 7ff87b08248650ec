package config

import (
	"errors"
	"fmt"
)

// Sentinel errors for parameter extraction.
var (
	// ErrMissingField indicates a required parameter is absent from the bundle.
	ErrMissingField = errors.New("missing parameter")

	// ErrTypeMismatch indicates a parameter is present with an incompatible type.
	ErrTypeMismatch = errors.New("parameter type mismatch")
)

// ExtractionError reports a parameter that could not be extracted with the
// type the caller expected. It is a configuration error and is never retried.
type ExtractionError struct {
	// Field is the bundle key that was requested.
	Field string
	// Want is the expected Go type.
	Want string
	// Got is the dynamic type found in the bundle, empty if the key was missing.
	Got string
	// Err is ErrMissingField, ErrTypeMismatch, or a conversion error.
	Err error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	if e.Got == "" {
		return fmt.Sprintf("cannot extract parameter %q of desired type %s: %v", e.Field, e.Want, e.Err)
	}
	return fmt.Sprintf("cannot extract parameter %q of desired type %s (have %s): %v",
		e.Field, e.Want, e.Got, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}
