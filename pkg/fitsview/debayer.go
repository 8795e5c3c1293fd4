package fitsview

import (
	"fmt"
	"strings"
)

// BayerPattern names the colour of the top-left 2x2 cell of a mosaic,
// as recorded in the BAYERPAT header key.
type BayerPattern int

const (
	BayerRGGB BayerPattern = iota
	BayerGRBG
	BayerGBRG
	BayerBGGR
)

func (p BayerPattern) String() string {
	switch p {
	case BayerGRBG:
		return "GRBG"
	case BayerGBRG:
		return "GBRG"
	case BayerBGGR:
		return "BGGR"
	default:
		return "RGGB"
	}
}

func ParseBayerPattern(name string) (BayerPattern, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "RGGB", "":
		return BayerRGGB, nil
	case "GRBG":
		return BayerGRBG, nil
	case "GBRG":
		return BayerGBRG, nil
	case "BGGR":
		return BayerBGGR, nil
	}
	return BayerRGGB, fmt.Errorf("%w: unknown Bayer pattern %q", ErrInvalidOption, name)
}

// redOrigin is the position of the red pixel inside the 2x2 cell.
func (p BayerPattern) redOrigin() (int, int) {
	switch p {
	case BayerGRBG:
		return 1, 0
	case BayerGBRG:
		return 0, 1
	case BayerBGGR:
		return 1, 1
	default:
		return 0, 0
	}
}

// DebayerRGGB interpolates an RGGB mosaic bilinearly and returns the
// luminance (R+G+B)/3 of every pixel.
func DebayerRGGB(data []float64, width, height int) []float64 {
	return Debayer(data, width, height, BayerRGGB)
}

// Debayer is DebayerRGGB for any of the four 2x2 layouts. Edge pixels
// replicate their nearest neighbour.
func Debayer(data []float64, width, height int, pattern BayerPattern) []float64 {
	out := make([]float64, width*height)
	rx, ry := pattern.redOrigin()

	px := func(x, y int) float64 {
		x = min(max(x, 0), width-1)
		y = min(max(y, 0), height-1)
		return data[y*width+x]
	}
	cross := func(x, y int) float64 {
		return (px(x-1, y) + px(x+1, y) + px(x, y-1) + px(x, y+1)) / 4
	}
	diagonal := func(x, y int) float64 {
		return (px(x-1, y-1) + px(x+1, y-1) + px(x-1, y+1) + px(x+1, y+1)) / 4
	}

	for y := 0; y < height; y++ {
		redRow := (y+ry)%2 == 0
		for x := 0; x < width; x++ {
			redCol := (x+rx)%2 == 0
			var r, g, b float64

			switch {
			case redRow && redCol:
				r = px(x, y)
				g = cross(x, y)
				b = diagonal(x, y)
			case redRow:
				// green between reds horizontally
				r = (px(x-1, y) + px(x+1, y)) / 2
				g = px(x, y)
				b = (px(x, y-1) + px(x, y+1)) / 2
			case redCol:
				// green between reds vertically
				r = (px(x, y-1) + px(x, y+1)) / 2
				g = px(x, y)
				b = (px(x-1, y) + px(x+1, y)) / 2
			default:
				r = diagonal(x, y)
				g = cross(x, y)
				b = px(x, y)
			}

			out[y*width+x] = (r + g + b) / 3
		}
	}
	return out
}
