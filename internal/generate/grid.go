// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

// Linspace returns n evenly spaced samples over [lo, hi], endpoints
// included. n == 1 yields lo alone; n <= 0 yields an empty slice.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = lo
		return out
	}
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}
