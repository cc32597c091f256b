package math

import (
	"math"
	"strconv"
)

// Format formats a float based on the given precision
func Format(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// Clamp restricts the value to the [min, max] interval.
func Clamp(f, min, max float64) float64 {
	if f < min {
		return min
	}
	if f > max {
		return max
	}
	return f
}

// Saturate grows linearly from the floor with the given slope and stops at the cap.
// NOTE : the distance is taken as absolute value
func Saturate(distance, floor, slope, cap float64) float64 {
	return math.Min(floor+math.Abs(distance)*slope, cap)
}

// Finite checks that the value is a real number.
func Finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
