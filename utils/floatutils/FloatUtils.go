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

// Round rounds value to the given number of decimal places. Ties are
// rounded half up, towards positive infinity, so that Round(0.45, 1)
// is 0.5 and Round(-0.25, 1) is -0.2.
func Round(value float64, places int) float64 {
	scale := math.Pow10(places)
	rounded := math.Floor(value*scale+0.5) / scale

	// Avoid reporting negative zero
	if rounded == 0 {
		return 0
	}
	return rounded
}

// ClipRound clips value to interval and then rounds the clipped value
// to the given number of decimal places
func ClipRound(value float64, interval r1.Interval, places int) float64 {
	return Round(ClipInterval(value, interval), places)
}

// Quantized returns whether value is already rounded to the given
// number of decimal places
func Quantized(value float64, places int) bool {
	return Round(value, places) == value
}
