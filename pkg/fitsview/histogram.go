package fitsview

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const DefaultHistogramBins = 64

// WriteHistogram plots the distribution of the samples that fall inside the
// display range rng as a PNG. A NaN range plots every finite sample.
func WriteHistogram(w io.Writer, samples Samples, rng Range, bins int) error {
	if bins <= 0 {
		bins = DefaultHistogramBins
	}
	lo, hi := rng.Floor, rng.Max()
	bounded := !math.IsNaN(lo) && !math.IsNaN(hi)

	values := make(plotter.Values, 0, samples.Len())
	for i := 0; i < samples.Len(); i++ {
		v := samples.At(i)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if bounded && (v < lo || v > hi) {
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return fmt.Errorf("%w: no samples inside display range", ErrDimensionMismatch)
	}

	h, err := plotter.NewHist(values, bins)
	if err != nil {
		return fmt.Errorf("building histogram: %w", err)
	}

	p := plot.New()
	p.Title.Text = "pixel values"
	p.X.Label.Text = "value"
	p.Y.Label.Text = "count"
	p.Add(h)
	if bounded {
		p.X.Min, p.X.Max = lo, hi
	}

	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("rendering histogram: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
