package isa

import (
	"errors"
	"fmt"
	"math"
)

// Sample is the evaluated atmosphere at one altitude.
type Sample struct {
	Altitude    float64 // m
	Temperature float64 // K
	Pressure    float64 // Pa
	Density     float64 // kg/m³
}

// ErrInvalidRange is returned by SampleRange for a malformed sampling grid.
var ErrInvalidRange = errors.New("invalid altitude range")

// maxGridSamples caps the number of samples a single grid may hold. Any
// range that dense is malformed for a 0–71 km model, and the cap keeps
// SampleRange from allocating unbounded memory before the caller's own
// limit can apply.
const maxGridSamples = 1 << 20

// Evaluate computes a sample for every altitude in order. It fails on the
// first out-of-range or invalid altitude and returns no partial result, so
// a caller never renders a truncated profile.
func Evaluate(altitudes []float64) ([]Sample, error) {
	out := make([]Sample, 0, len(altitudes))
	for _, h := range altitudes {
		s, err := At(h)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// SampleRange builds the altitude grid from..to inclusive with the given
// step, the shape consumers feed into Evaluate. Non-finite bounds and grids
// denser than maxGridSamples are rejected with ErrInvalidRange.
func SampleRange(from, to, step float64) ([]float64, error) {
	if math.IsNaN(from) || math.IsNaN(to) || math.IsNaN(step) ||
		math.IsInf(from, 0) || math.IsInf(to, 0) || math.IsInf(step, 0) {
		return nil, ErrInvalidRange
	}
	if step <= 0 {
		return nil, ErrInvalidRange
	}
	if to < from {
		return nil, ErrInvalidRange
	}
	// Count in float space first: converting an oversized count to int
	// overflows, and allocating it would exhaust memory.
	count := math.Floor((to-from)/step) + 1
	if count > maxGridSamples {
		return nil, fmt.Errorf("%w: %g samples exceeds limit of %d", ErrInvalidRange, count, maxGridSamples)
	}
	n := int(count)
	grid := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		grid = append(grid, from+float64(i)*step)
	}
	return grid, nil
}
