package coilprox

import (
	"errors"
	"fmt"
)

// ErrInvalidThreshold is returned when the threshold is not a positive
// finite number.
var ErrInvalidThreshold = errors.New("threshold must be a positive finite number")

// ErrBaseCurvesOutOfRange indicates a numBaseCurves outside [0, len(clouds)].
type ErrBaseCurvesOutOfRange struct {
	Count  int
	Clouds int
}

func (e *ErrBaseCurvesOutOfRange) Error() string {
	return fmt.Sprintf("numBaseCurves %d outside valid range [0, %d]", e.Count, e.Clouds)
}

// ErrInvalidCloud wraps a validation failure of a single input cloud.
// No partial result is produced: one bad cloud would silently shift the
// indices of every pair in the output.
type ErrInvalidCloud struct {
	Index int
	cause error
}

func (e *ErrInvalidCloud) Error() string {
	return fmt.Sprintf("cloud %d: %v", e.Index, e.cause)
}

func (e *ErrInvalidCloud) Unwrap() error { return e.cause }
