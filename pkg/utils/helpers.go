package utils

import "math"

//InSlice returns true if given string appears in given slice
func InSlice(lookingFor string, slice []string) bool {
	for _, s := range slice {
		if s == lookingFor {
			return true
		}
	}

	return false
}

//IsFinite returns false for NaN and +-Inf
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

//FiniteOnly returns a new slice holding only the finite values of given slice (failed frames placeholders are dropped)
func FiniteOnly(values []float64) []float64 {
	res := make([]float64, 0, len(values))
	for _, v := range values {
		if IsFinite(v) {
			res = append(res, v)
		}
	}

	return res
}
