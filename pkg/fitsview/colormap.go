package fitsview

import (
	"fmt"
	"image/color"
	"math"
)

// Colormap maps an 8-bit intensity to an RGB triple. A and B are the
// SAOImage discrete scales; Heat and Blackbody are the same ramp.
type Colormap int

const (
	ColormapGray Colormap = iota
	ColormapHeat
	ColormapBlackbody
	ColormapA
	ColormapB
)

var Colormaps = []Colormap{ColormapGray, ColormapHeat, ColormapBlackbody, ColormapA, ColormapB}

func (c Colormap) String() string {
	switch c {
	case ColormapGray:
		return "gray"
	case ColormapHeat:
		return "heat"
	case ColormapBlackbody:
		return "blackbody"
	case ColormapA:
		return "A"
	case ColormapB:
		return "B"
	default:
		return fmt.Sprintf("Colormap(%d)", int(c))
	}
}

func ParseColormap(name string) (Colormap, error) {
	for _, c := range Colormaps {
		if c.String() == name {
			return c, nil
		}
	}
	return ColormapGray, fmt.Errorf("%w: unknown colormap %q", ErrInvalidOption, name)
}

// RGB holds unquantized channel values.
type RGB struct {
	R, G, B float64
}

// RGBA quantizes the channels to bytes with full opacity.
func (c RGB) RGBA() color.RGBA {
	return color.RGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: 0xff}
}

// channel clamps to [0, 255] and rounds half to even.
func channel(x float64) uint8 {
	switch {
	case math.IsNaN(x), x <= 0:
		return 0
	case x >= 255:
		return 255
	}
	return uint8(math.RoundToEven(x))
}

func (c Colormap) Map(intensity uint8) RGB {
	v := float64(intensity)
	switch c {
	case ColormapHeat, ColormapBlackbody:
		return heat(v)
	case ColormapA:
		return saoA(v)
	case ColormapB:
		return saoB(v)
	default:
		return RGB{v, v, v}
	}
}

func heat(v float64) RGB {
	var c RGB
	if v <= 127.5 {
		c.R = v * 2
	} else {
		c.R = 255
	}
	switch {
	case v <= 63.75:
		c.G = 0
	case v < 191.25:
		c.G = (v - 63.75) * 2
	default:
		c.G = 255
	}
	if v > 127.5 {
		c.B = (v - 127.5) * 2
	}
	return c
}

func saoA(v float64) RGB {
	var c RGB
	switch {
	case v <= 63.75:
		c.R = 0
	case v <= 127.5:
		c.R = (v - 63.75) * 4
	default:
		c.R = 255
	}
	switch {
	case v <= 63.75:
		c.G = v * 4
	case v <= 127.5:
		c.G = (127.5 - v) * 4
	case v < 191.25:
		c.G = 0
	default:
		c.G = (v - 191.25) * 4
	}
	switch {
	case v < 31.875:
		c.B = 0
	case v < 127.5:
		c.B = (v - 31.875) * 8 / 3
	case v < 191.25:
		c.B = (191.25 - v) * 4
	default:
		c.B = 0
	}
	return c
}

func saoB(v float64) RGB {
	var c RGB
	switch {
	case v <= 63.75:
		c.R = 0
	case v <= 127.5:
		c.R = (v - 63.75) * 4
	default:
		c.R = 255
	}
	switch {
	case v <= 127.5:
		c.G = 0
	case v <= 191.25:
		c.G = (v - 127.5) * 4
	default:
		c.G = 255
	}
	switch {
	case v < 63.75:
		c.B = v * 4
	case v < 127.5:
		c.B = (127.5 - v) * 4
	case v < 191.25:
		c.B = 0
	default:
		c.B = (v - 191.25) * 4
	}
	return c
}
