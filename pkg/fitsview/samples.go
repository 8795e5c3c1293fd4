package fitsview

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Number is the set of element types a decoded image can hold.
type Number interface {
	uint8 | uint16 | uint32 | uint64 | float32 | float64
}

// Samples is a flat, read-only array of decoded pixel values in row-major
// order. The concrete type is Array[T] with T matching the file's BITPIX.
type Samples interface {
	Len() int
	// At returns element i converted to float64.
	At(i int) float64
	// Slice returns elements [lo, hi) sharing the backing storage.
	Slice(lo, hi int) Samples
	// Bitpix returns the FITS code of the element type.
	Bitpix() int
	// Float64s returns a float64 copy of all elements.
	Float64s() []float64

	column(width, col int) Samples
	interleave(slices []Samples) (Samples, error)
	appendBigEndian(dst []byte) []byte
}

// Array is the typed implementation of Samples.
type Array[T Number] []T

func (a Array[T]) Len() int                 { return len(a) }
func (a Array[T]) At(i int) float64         { return float64(a[i]) }
func (a Array[T]) Slice(lo, hi int) Samples { return a[lo:hi:hi] }

func (a Array[T]) Bitpix() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 8
	case uint16:
		return 16
	case uint32:
		return 32
	case uint64:
		return 64
	case float32:
		return -32
	default:
		return -64
	}
}

func (a Array[T]) Float64s() []float64 {
	out := make([]float64, len(a))
	for i, v := range a {
		out[i] = float64(v)
	}
	return out
}

func (a Array[T]) column(width, col int) Samples {
	if width <= 0 {
		return Array[T]{}
	}
	rows := len(a) / width
	out := make(Array[T], rows)
	for r := 0; r < rows; r++ {
		out[r] = a[r*width+col]
	}
	return out
}

// interleave places element j of slice i at j*len(slices)+i. The receiver
// only fixes the element type.
func (a Array[T]) interleave(slices []Samples) (Samples, error) {
	n := len(slices)
	typed := make([]Array[T], n)
	for i, s := range slices {
		t, ok := s.(Array[T])
		if !ok {
			return nil, fmt.Errorf("%w: slice %d has BITPIX %d, want %d", ErrDimensionMismatch, i, s.Bitpix(), a.Bitpix())
		}
		if i > 0 && len(t) != len(typed[0]) {
			return nil, fmt.Errorf("%w: slice %d has length %d, want %d", ErrDimensionMismatch, i, len(t), len(typed[0]))
		}
		typed[i] = t
	}
	height := len(typed[0])
	out := make(Array[T], n*height)
	for i, s := range typed {
		for j, v := range s {
			out[j*n+i] = v
		}
	}
	return out, nil
}

func (a Array[T]) appendBigEndian(dst []byte) []byte {
	switch v := any(a).(type) {
	case Array[uint8]:
		dst = append(dst, v...)
	case Array[uint16]:
		for _, x := range v {
			dst = binary.BigEndian.AppendUint16(dst, x)
		}
	case Array[uint32]:
		for _, x := range v {
			dst = binary.BigEndian.AppendUint32(dst, x)
		}
	case Array[uint64]:
		for _, x := range v {
			dst = binary.BigEndian.AppendUint64(dst, x)
		}
	case Array[float32]:
		for _, x := range v {
			dst = binary.BigEndian.AppendUint32(dst, math.Float32bits(x))
		}
	case Array[float64]:
		for _, x := range v {
			dst = binary.BigEndian.AppendUint64(dst, math.Float64bits(x))
		}
	}
	return dst
}
