// Package geoerr defines the error taxonomy shared by the indexing packages.
package geoerr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks input that is out of domain: depths, shapes, ellipsoid parameters.
	ErrValidation = errors.New("validation error")
	// ErrUnsupportedSelection marks a selection the range representation cannot express.
	ErrUnsupportedSelection = errors.New("unsupported selection")
	// ErrDepthMismatch marks set-algebra operands built at different depths.
	ErrDepthMismatch = errors.New("depth mismatch")
	// ErrLookup marks a named resource that is not registered.
	ErrLookup = errors.New("lookup error")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
