package utils

import (
	"math"
	"strings"
)

// Minimum of a slice
func MinSlice(a []float64) float64 {
	var m float64
	for i, e := range a {
		if i == 0 || e < m {
			m = e
		}
	}
	return m
}

// Maximum of a slice
func MaxSlice(a []float64) float64 {
	var m float64
	for i, e := range a {
		if i == 0 || e > m {
			m = e
		}
	}
	return m
}

// GeoMean is the geometric average of strictly positive values.
func GeoMean(a []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	s := 0.0
	for _, e := range a {
		s += math.Log(e)
	}
	return math.Exp(s / float64(len(a)))
}

// ObservationIndices picks n+1 equally spaced indices in [0, length-1], truncated the
// same way a float linspace cast to int would be.
func ObservationIndices(length, n int) []int {
	out := make([]int, n+1)
	if n == 0 {
		return out
	}
	step := float64(length-1) / float64(n)
	for i := range out {
		out[i] = int(float64(i) * step)
	}
	out[n] = length - 1
	return out
}

// NormalizeTicker upper-cases and trims a ticker symbol.
func NormalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
