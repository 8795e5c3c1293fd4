package fitsview

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// Summary describes the finite values of a frame. NaN samples are counted
// separately and left out of every statistic.
type Summary struct {
	Count  int
	NaNs   int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	StdDev float64
}

func Summarize(samples Samples) (Summary, error) {
	data := make(stats.Float64Data, 0, samples.Len())
	var s Summary
	for i := 0; i < samples.Len(); i++ {
		v := samples.At(i)
		if math.IsNaN(v) {
			s.NaNs++
			continue
		}
		data = append(data, v)
	}
	s.Count = len(data)
	if s.Count == 0 {
		return s, fmt.Errorf("%w: no finite samples to summarize", ErrDimensionMismatch)
	}

	var err error
	if s.Min, err = stats.Min(data); err != nil {
		return s, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, err
	}
	if s.Mean, err = stats.Mean(data); err != nil {
		return s, err
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, err
	}
	if s.StdDev, err = stats.StandardDeviation(data); err != nil {
		return s, err
	}
	return s, nil
}
