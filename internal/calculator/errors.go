package calculator

import "errors"

var (
	// ErrEmptySeries is returned when a series has no usable values.
	ErrEmptySeries = errors.New("series has no defined values")
	// ErrInvalidBaseline is returned when a series cannot be rescaled to its first value.
	ErrInvalidBaseline = errors.New("invalid baseline")
	// ErrUnorderedSeries is returned when dates are not strictly increasing.
	ErrUnorderedSeries = errors.New("series dates are not strictly increasing")
)
