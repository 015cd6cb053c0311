package core

import "math"

// -----------------------------------------------------------------------------

// Mean computes the arithmetic mean. Empty input yields 0.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// -----------------------------------------------------------------------------

// SampleStd computes the sample standard deviation (N-1 denominator).
// Fewer than two observations yield 0.
func SampleStd(data []float64) float64 {
	if len(data) < 2 {
		return 0
	}

	mean := Mean(data)

	varianceSum := 0.0
	for _, v := range data {
		varianceSum += (v - mean) * (v - mean)
	}
	return math.Sqrt(varianceSum / float64(len(data)-1))
}
