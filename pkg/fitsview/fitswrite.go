package fitsview

import (
	"fmt"
	"io"

	"github.com/astrogo/fitsio"
)

// fitsDateLayout is the DATE-OBS form written for time-valued cards.
const fitsDateLayout = "2006-01-02T15:04:05.999999999"

// WriteFITS writes src as a single-HDU FITS file with 32-bit float pixels.
// Descriptive header cards are carried over; the structural ones are
// regenerated from the source dimensions.
func WriteFITS(w io.Writer, src *Source) error {
	if src == nil || src.Samples == nil {
		return ErrNotReady
	}
	n := src.Width * src.Height * src.Depth
	if src.Samples.Len() < n {
		return fmt.Errorf("%w: %d samples for %dx%dx%d",
			ErrDimensionMismatch, src.Samples.Len(), src.Width, src.Height, src.Depth)
	}

	axes := []int{src.Width, src.Height}
	if src.Depth > 1 {
		axes = append(axes, src.Depth)
	}

	f, err := fitsio.Create(w)
	if err != nil {
		return fmt.Errorf("creating FITS stream: %w", err)
	}
	defer f.Close()

	img := fitsio.NewImage(-32, axes)
	defer img.Close()

	if src.Header != nil {
		if err := img.Header().Append(exportCards(src.Header, src.Calibrated)...); err != nil {
			return fmt.Errorf("writing header cards: %w", err)
		}
	}

	pixels := make([]float32, n)
	for i := range pixels {
		pixels[i] = float32(src.Samples.At(i))
	}
	if err := img.Write(pixels); err != nil {
		return fmt.Errorf("writing pixels: %w", err)
	}
	if err := f.Write(img); err != nil {
		return fmt.Errorf("writing HDU: %w", err)
	}
	return nil
}

// exportCards converts h for fitsio. Scaling cards are dropped once the
// pixels are calibrated so readers do not apply them twice.
func exportCards(h *Header, calibrated bool) []fitsio.Card {
	cards := h.Cards()
	out := make([]fitsio.Card, 0, len(cards))
	for _, c := range cards {
		if isStructuralKey(c.Key) || len(c.Key) > 8 {
			continue
		}
		if calibrated && (c.Key == "BSCALE" || c.Key == "BZERO") {
			continue
		}
		var v interface{}
		switch c.Value.Kind {
		case KindBool:
			v = c.Value.Bool
		case KindInt:
			v = int(c.Value.Int)
		case KindFloat:
			v = c.Value.Float
		case KindTime:
			v = c.Value.Time.Format(fitsDateLayout)
		default:
			v = c.Value.Str
		}
		out = append(out, fitsio.Card{Name: c.Key, Value: v})
	}
	return out
}
