package fitsview

import (
	"math"
	"slices"
)

// DefaultScaleCutoff is the percentile used for the top of the display range.
const DefaultScaleCutoff = 0.999

// Range is the normalization window of a draw: samples map to
// (value-Floor)/Range before stretching.
type Range struct {
	Floor float64
	Range float64
}

// Max returns the sample value at the top of the range.
func (r Range) Max() float64 { return r.Floor + r.Range }

// Sorted is an ascending copy of a frame's samples. Keep it around to
// recompute ranges when only the cutoff changes.
type Sorted struct {
	values []float64
}

// SortSamples copies and sorts samples ascending with NaNs last.
func SortSamples(samples Samples) *Sorted {
	values := samples.Float64s()
	slices.Sort(values)
	nans := 0
	for nans < len(values) && math.IsNaN(values[nans]) {
		nans++
	}
	if nans > 0 && nans < len(values) {
		rotated := make([]float64, 0, len(values))
		rotated = append(rotated, values[nans:]...)
		values = append(rotated, values[:nans]...)
	}
	return &Sorted{values: values}
}

func (s *Sorted) Len() int { return len(s.values) }

// DisplayRange returns the floor and range of the sorted samples.
//
// Floor is the first nonzero value at index 1 or later; index 0 is never
// considered, so one zero or the true minimum alone does not set it. The
// top is the value at ceil(n*cutoff), clamped to the last index. When all
// samples are zero Range is NaN, which renders as zero intensity.
func (s *Sorted) DisplayRange(cutoff float64) Range {
	n := len(s.values)
	if n == 0 {
		return Range{Floor: 0, Range: math.NaN()}
	}

	floor := 0.0
	for i := 1; i < n && floor == 0; i++ {
		floor = s.values[i]
	}

	idx := int(math.Ceil(float64(n) * cutoff))
	if idx > n-1 {
		idx = n - 1
	}
	if idx < 0 {
		idx = 0
	}

	if floor == 0 {
		return Range{Floor: 0, Range: math.NaN()}
	}
	return Range{Floor: floor, Range: s.values[idx] - floor}
}

// DisplayRange sorts samples and computes their display range.
func DisplayRange(samples Samples, cutoff float64) Range {
	return SortSamples(samples).DisplayRange(cutoff)
}
