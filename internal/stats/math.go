package stats

import "math"

// CeilInt rounds up to the next whole case. Non-finite or negative input yields 0.
func CeilInt(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return int(math.Ceil(v))
}

// FiniteOr returns v unless it is NaN or infinite, in which case fallback is returned.
func FiniteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// Percentage returns part/whole*100 clamped to [0,100], or empty when whole is zero.
func Percentage(part, whole int, empty float64) float64 {
	if whole <= 0 {
		return empty
	}
	return math.Max(0, math.Min(100, float64(part)/float64(whole)*100))
}

// CalculateMean averages a slice of floats; an empty slice averages to 0.
func CalculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
