package cci

import (
	"errors"
	"fmt"
)

var (
	ErrInsufficientSamples = errors.New("insufficient samples for decomposition")
	ErrDecompositionFailed = errors.New("principal component decomposition failed")
	ErrDegenerateBaseline  = errors.New("mean out-class variance is zero")
	ErrMalformedInput      = errors.New("malformed input")
)

// InsufficientSamplesError reports a decomposition requested with more
// components than the centroid matrix can provide.
type InsufficientSamplesError struct {
	Samples    int
	Features   int
	Components int
}

func (e *InsufficientSamplesError) Error() string {
	return fmt.Sprintf("%s: %d centroids with %d features, %d components requested",
		ErrInsufficientSamples, e.Samples, e.Features, e.Components)
}

func (e *InsufficientSamplesError) Unwrap() error { return ErrInsufficientSamples }

// DegenerateBaselineError is only raised in strict baseline mode; otherwise the
// non-finite ratio is returned as the score.
type DegenerateBaselineError struct {
	Category Range
	Time     float64
}

func (e *DegenerateBaselineError) Error() string {
	return fmt.Sprintf("%s: category %s at time %g", ErrDegenerateBaseline, e.Category, e.Time)
}

func (e *DegenerateBaselineError) Unwrap() error { return ErrDegenerateBaseline }

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedInput, fmt.Sprintf(format, args...))
}
