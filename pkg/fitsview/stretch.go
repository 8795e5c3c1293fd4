package fitsview

import (
	"fmt"
	"math"
)

// Stretch maps a raw sample onto the 0-255 display scale.
type Stretch int

const (
	StretchLinear Stretch = iota
	StretchSqrt
	StretchCuberoot
	StretchLog
	StretchLoglog
	StretchSqrtlog
)

// Stretches lists every stretch in declaration order.
var Stretches = []Stretch{StretchLinear, StretchSqrt, StretchCuberoot, StretchLog, StretchLoglog, StretchSqrtlog}

func (s Stretch) String() string {
	switch s {
	case StretchLinear:
		return "linear"
	case StretchSqrt:
		return "sqrt"
	case StretchCuberoot:
		return "cuberoot"
	case StretchLog:
		return "log"
	case StretchLoglog:
		return "loglog"
	case StretchSqrtlog:
		return "sqrtlog"
	default:
		return fmt.Sprintf("Stretch(%d)", int(s))
	}
}

func ParseStretch(name string) (Stretch, error) {
	for _, s := range Stretches {
		if s.String() == name {
			return s, nil
		}
	}
	return StretchLinear, fmt.Errorf("%w: unknown stretch %q", ErrInvalidOption, name)
}

// Apply returns the unclamped display value of v. The log family subtracts
// floor from the transformed value; floor itself is not transformed.
func (s Stretch) Apply(v, floor, rng float64) float64 {
	switch s {
	case StretchSqrt:
		return 255 * math.Sqrt((v-floor)/rng)
	case StretchCuberoot:
		return 255 * math.Pow((v-floor)/rng, 0.333)
	case StretchLog:
		return 255 * (math.Log(v) - floor) / rng
	case StretchLoglog:
		return 255 * (math.Log(math.Log(v)) - floor) / rng
	case StretchSqrtlog:
		return 255 * (math.Sqrt(math.Log(v)) - floor) / rng
	default:
		return 255 * (v - floor) / rng
	}
}

// MaxIntensity is the upper clamp of a stretched value.
const MaxIntensity = 254

// Intensity clamps a stretched value to [0, 254] and rounds it half to
// even. NaN becomes 0.
func Intensity(x float64) uint8 {
	switch {
	case math.IsNaN(x), x < 0:
		return 0
	case x > MaxIntensity:
		return MaxIntensity
	}
	return uint8(math.RoundToEven(x))
}
