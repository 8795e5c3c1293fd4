package fitsview

import "fmt"

// Frame returns samples [index*width*height, (index+1)*width*height).
func Frame(samples Samples, index, width, height int) (Samples, error) {
	size := width * height
	start := index * size
	if index < 0 || size <= 0 || start+size > samples.Len() {
		return nil, fmt.Errorf("%w: frame %d of %dx%d outside %d samples",
			ErrDimensionMismatch, index, width, height, samples.Len())
	}
	return samples.Slice(start, start+size), nil
}

// KeogramSlice returns the centre column, floor(width/2), of every row.
func KeogramSlice(frame Samples, width int) Samples {
	return frame.column(width, width/2)
}

// AssembleKeogram turns N slices of length H into an N-wide, H-tall image:
// element j of slice i lands at j*N+i.
func AssembleKeogram(slices []Samples) (Samples, error) {
	if len(slices) == 0 {
		return nil, fmt.Errorf("%w: no keogram slices", ErrDimensionMismatch)
	}
	for i, s := range slices {
		if s == nil {
			return nil, fmt.Errorf("%w: keogram slice %d is nil", ErrDimensionMismatch, i)
		}
	}
	return slices[0].interleave(slices)
}
