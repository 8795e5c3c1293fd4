package fitsview

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	s, err := Summarize(Array[float64]{4, 1, math.NaN(), 3, 2})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Count != 4 || s.NaNs != 1 {
		t.Errorf("count %d, NaNs %d", s.Count, s.NaNs)
	}
	if s.Min != 1 || s.Max != 4 || s.Mean != 2.5 || s.Median != 2.5 {
		t.Errorf("summary = %+v", s)
	}
	if math.Abs(s.StdDev-math.Sqrt(1.25)) > 1e-12 {
		t.Errorf("StdDev = %v, want %v", s.StdDev, math.Sqrt(1.25))
	}
}

func TestSummarizeNoFiniteSamples(t *testing.T) {
	if _, err := Summarize(Array[float32]{float32(math.NaN())}); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("err = %v, want ErrDimensionMismatch", err)
	}
}

func TestWriteHistogram(t *testing.T) {
	samples := Array[uint16](ramp(500))
	var buf bytes.Buffer
	if err := WriteHistogram(&buf, samples, DisplayRange(samples, DefaultScaleCutoff), 32); err != nil {
		t.Fatalf("WriteHistogram: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Errorf("output is not a PNG")
	}
}

func TestWriteHistogramEmptyRange(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHistogram(&buf, Array[float64]{1, 2, 3}, Range{Floor: 10, Range: 5}, 0)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("err = %v, want ErrDimensionMismatch", err)
	}
}
