package dispatch

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for dispatch.
var (
	// ErrNoMatch indicates no catalog entry accepts the bundle's values.
	ErrNoMatch = errors.New("no matching instantiation")

	// ErrMissingTypeField indicates a type-list field is absent from the bundle.
	ErrMissingTypeField = errors.New("missing type-list field")
)

// DispatchError reports a bundle that could not be routed to any entry of a
// catalog. It is a configuration error and is never retried.
type DispatchError struct {
	// Catalog is the name of the catalog that was searched.
	Catalog string
	// Field is the offending field for ErrMissingTypeField, empty otherwise.
	Field string
	// Got lists "field=type" for every type-list field present in the bundle.
	Got []string
	// Err is ErrNoMatch or ErrMissingTypeField.
	Err error
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("dispatch %s: %v: %q", e.Catalog, e.Err, e.Field)
	}
	return fmt.Sprintf("dispatch %s: %v for (%s)", e.Catalog, e.Err, strings.Join(e.Got, ", "))
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *DispatchError) Unwrap() error {
	return e.Err
}
