package fitsview

import (
	"fmt"
	"strings"
)

// Keogram slices the centre column of frame `frame` (clamped per source)
// from every source, in order, and assembles them into a synthetic source
// one column per input image. All sources must share the first source's
// dimensions.
func Keogram(sources []*Source, frame int) (*Source, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no keogram sources", ErrDimensionMismatch)
	}
	first := sources[0]
	slices := make([]Samples, len(sources))
	for i, src := range sources {
		if src == nil {
			return nil, fmt.Errorf("%w: keogram source %d is nil", ErrDimensionMismatch, i)
		}
		if src.Width != first.Width || src.Height != first.Height {
			return nil, fmt.Errorf("%w: source %d is %dx%d, first is %dx%d",
				ErrDimensionMismatch, i, src.Width, src.Height, first.Width, first.Height)
		}
		f, err := src.Frame(clampFrame(frame, src.Depth))
		if err != nil {
			return nil, err
		}
		slices[i] = KeogramSlice(f, first.Width)
	}

	samples, err := AssembleKeogram(slices)
	if err != nil {
		return nil, err
	}
	width, height := len(sources), first.Height
	return &Source{
		Header:     keogramHeader(sources, samples.Bitpix(), width, height),
		Width:      width,
		Height:     height,
		Depth:      1,
		Samples:    samples,
		Calibrated: first.Calibrated,
	}, nil
}

// keogramHeader carries the descriptive cards of the first source over to
// the derived image and replaces the structural ones.
func keogramHeader(sources []*Source, bitpix, width, height int) *Header {
	first := sources[0].Header
	h := first.derive(
		Card{Key: "SIMPLE", Value: BoolValue(true)},
		Card{Key: "BITPIX", Value: IntValue(int64(bitpix))},
		Card{Key: "NAXIS", Value: IntValue(2)},
		Card{Key: "NAXIS1", Value: IntValue(int64(width))},
		Card{Key: "NAXIS2", Value: IntValue(int64(height))},
	)
	if first != nil {
		if t, ok := first.DateObs(); ok {
			h.set("KEOSTART", TimeValue(t))
		}
	}
	h.set("KEOSRCS", IntValue(int64(len(sources))))
	if last := sources[len(sources)-1].Header; last != nil {
		if t, ok := last.DateObs(); ok {
			h.set("KEOEND", TimeValue(t))
		}
	}
	h.finish()
	return h
}

func isStructuralKey(key string) bool {
	switch key {
	case "SIMPLE", "BITPIX", "NAXIS", "EXTEND", "END":
		return true
	}
	return strings.HasPrefix(key, "NAXIS")
}

func clampFrame(frame, depth int) int {
	if frame >= depth {
		frame = depth - 1
	}
	if frame < 0 {
		frame = 0
	}
	return frame
}
