// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipInterval is a wrapper to use Clip with an r1.Interval instead of
// a separate max and min value
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// Wrap wraps value around the half-open interval [min, max). Values
// equal to max wrap around to min.
func Wrap(value, min, max float64) float64 {
	width := max - min
	wrapped := math.Mod(value-min, width)
	if wrapped < 0 {
		wrapped += width
	}

	// math.Mod of a tiny negative number plus width can round up to width
	if wrapped >= width {
		wrapped = 0
	}
	return wrapped + min
}

// WrapInterval is a wrapper to use Wrap with an r1.Interval
func WrapInterval(value float64, interval r1.Interval) float64 {
	return Wrap(value, interval.Min, interval.Max)
}

// IsFinite returns whether value is neither NaN nor infinite
func IsFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

// Finite returns the index of the first non-finite value in values and
// false, or -1 and true if all values are finite.
func Finite(values ...float64) (int, bool) {
	for i, value := range values {
		if !IsFinite(value) {
			return i, false
		}
	}
	return -1, true
}
