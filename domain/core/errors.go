package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrUnknownProfile = fmt.Errorf("%w: form profile", ErrNotFound)
	ErrUnknownChart   = fmt.Errorf("%w: chart", ErrNotFound)

	// Artifact errors
	ErrArtifactUnavailable = errors.New("model artifact unavailable")
	ErrSchemaMismatch      = errors.New("artifact feature schema mismatch")
	ErrEncodingMismatch    = errors.New("categorical encoding mismatch")
	ErrBadProbabilities    = errors.New("probability vector does not sum to 1")

	// Input validation errors
	ErrOutOfRange     = errors.New("value out of range")
	ErrNonPositiveAge = errors.New("age must be positive")
	ErrUnknownOption  = errors.New("value is not one of the allowed options")
	ErrInvalidValue   = errors.New("missing or malformed value")

	// Dataset errors
	ErrMissingColumn = errors.New("required column missing")
	ErrEmptyDataset  = errors.New("dataset has no rows")
)

// NewRangeError reports a field outside its closed interval.
func NewRangeError(field string, value, min, max float64) error {
	return fmt.Errorf("%w: %s=%g not in [%g, %g]", ErrOutOfRange, field, value, min, max)
}

// NewOptionError reports a categorical value outside its option set.
func NewOptionError(field string, value float64) error {
	return fmt.Errorf("%w: %s=%g", ErrUnknownOption, field, value)
}

func NewMissingColumnError(column string) error {
	return fmt.Errorf("%w: %q", ErrMissingColumn, column)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidationError(err error) bool {
	return errors.Is(err, ErrOutOfRange) ||
		errors.Is(err, ErrNonPositiveAge) ||
		errors.Is(err, ErrUnknownOption) ||
		errors.Is(err, ErrInvalidValue)
}

func IsArtifactError(err error) bool {
	return errors.Is(err, ErrArtifactUnavailable) ||
		errors.Is(err, ErrSchemaMismatch) ||
		errors.Is(err, ErrEncodingMismatch)
}
