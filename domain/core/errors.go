package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound       = errors.New("resource not found")
	ErrResultNotFound = fmt.Errorf("%w: result", ErrNotFound)

	// Schema adherence: the input table is missing a required column.
	// Fatal for the whole computation, never produces a partial bundle.
	ErrColumnMissing = errors.New("required column missing from dataset")

	// Output validation: a statistic's raw result does not match its
	// declared schema.
	ErrOutputInvalid = errors.New("statistic output failed schema validation")

	// Serialization of a validated result failed. Underlying detail is
	// withheld because it may carry raw cell values.
	ErrSerialization = errors.New("result serialization failed")

	ErrEmptyTable = errors.New("dataset contains no rows")
)

// NewColumnMissingError reports absent required columns by name only.
func NewColumnMissingError(columns ...string) error {
	return fmt.Errorf("%w: %v - review the data schema adherence", ErrColumnMissing, columns)
}

// NewOutputError names the statistic whose output failed validation.
func NewOutputError(statistic string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrOutputInvalid, statistic, cause)
}

// Error checking helpers
func IsSchemaAdherenceError(err error) bool {
	return errors.Is(err, ErrColumnMissing)
}

func IsOutputValidationError(err error) bool {
	return errors.Is(err, ErrOutputInvalid)
}
