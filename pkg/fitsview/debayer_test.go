package fitsview

import (
	"errors"
	"testing"
)

const (
	mosaicRed   = 30
	mosaicGreen = 60
	mosaicBlue  = 90
)

// mosaic builds a flat-field colour mosaic for the given layout.
func mosaic(t *testing.T, width, height int, p BayerPattern) []uint16 {
	t.Helper()
	rx, ry := p.redOrigin()
	out := make([]uint16, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			redRow := (y+ry)%2 == 0
			redCol := (x+rx)%2 == 0
			switch {
			case redRow && redCol:
				out[y*width+x] = mosaicRed
			case !redRow && !redCol:
				out[y*width+x] = mosaicBlue
			default:
				out[y*width+x] = mosaicGreen
			}
		}
	}
	return out
}

func TestDebayerFlatField(t *testing.T) {
	for _, p := range []BayerPattern{BayerRGGB, BayerGRBG, BayerGBRG, BayerBGGR} {
		t.Run(p.String(), func(t *testing.T) {
			const w, h = 6, 6
			raw := mosaic(t, w, h, p)
			data := make([]float64, len(raw))
			for i, v := range raw {
				data[i] = float64(v)
			}
			lum := Debayer(data, w, h, p)
			if len(lum) != w*h {
				t.Fatalf("len = %d", len(lum))
			}
			want := float64(mosaicRed+mosaicGreen+mosaicBlue) / 3
			// Edge pixels replicate neighbours of another colour; check the interior.
			for y := 1; y < h-1; y++ {
				for x := 1; x < w-1; x++ {
					if got := lum[y*w+x]; got != want {
						t.Fatalf("lum(%d,%d) = %v, want %v", x, y, got, want)
					}
				}
			}
		})
	}
}

func TestDebayerRGGBUniform(t *testing.T) {
	data := []float64{7, 7, 7, 7, 7, 7, 7, 7, 7}
	for i, v := range DebayerRGGB(data, 3, 3) {
		if v != 7 {
			t.Fatalf("lum[%d] = %v, want 7", i, v)
		}
	}
}

func TestParseBayerPattern(t *testing.T) {
	tests := []struct {
		in   string
		want BayerPattern
	}{
		{"", BayerRGGB},
		{"RGGB", BayerRGGB},
		{"grbg", BayerGRBG},
		{" GBRG ", BayerGBRG},
		{"BGGR", BayerBGGR},
	}
	for _, tc := range tests {
		got, err := ParseBayerPattern(tc.in)
		if err != nil || got != tc.want {
			t.Errorf("ParseBayerPattern(%q) = %v, %v", tc.in, got, err)
		}
	}
	if _, err := ParseBayerPattern("RGBW"); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("err = %v, want ErrInvalidOption", err)
	}
}
