package fitsview

import (
	"encoding/binary"
	"fmt"
	"math"
)

// DecodeOptions adjusts how pixel data is interpreted.
type DecodeOptions struct {
	// LegacyFloatOrder reads BITPIX -32/-64 in host byte order instead of
	// big-endian, for files written by tools that dumped floats natively.
	LegacyFloatOrder bool

	// Physical applies BZERO + BSCALE*raw and returns float64 samples.
	// Off by default: display ranges are computed on raw values.
	Physical bool
}

// Source is a decoded primary HDU. It is produced once by Decode and must
// be treated as read-only by every consumer.
type Source struct {
	Header     *Header
	Width      int
	Height     int
	Depth      int
	DataOffset int
	Samples    Samples
	// Calibrated is set when Samples already hold BZERO + BSCALE*raw.
	Calibrated bool
}

// FrameSize returns the number of samples in one frame.
func (s *Source) FrameSize() int { return s.Width * s.Height }

// Frame returns frame i of the source without copying.
func (s *Source) Frame(i int) (Samples, error) {
	return Frame(s.Samples, i, s.Width, s.Height)
}

// Decode parses the header and pixel data of a FITS file held in memory.
func Decode(data []byte) (*Source, error) {
	return DecodeWithOptions(data, DecodeOptions{})
}

func DecodeWithOptions(data []byte, opts DecodeOptions) (*Source, error) {
	header, offset, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	return decodeSource(data, header, offset, opts)
}

// DecodeText decodes a file whose header was scanned as text, locating the
// data after the END record and any space padding.
func DecodeText(data []byte, opts DecodeOptions) (*Source, error) {
	header, offset, err := ParseHeaderText(string(data))
	if err != nil {
		return nil, err
	}
	return decodeSource(data, header, offset, opts)
}

func decodeSource(data []byte, header *Header, offset int, opts DecodeOptions) (*Source, error) {
	if header.Naxis() < 2 || header.Width() <= 0 || header.Height() <= 0 {
		return nil, fmt.Errorf("%w: NAXIS=%d, NAXIS1=%d, NAXIS2=%d",
			ErrDimensionMismatch, header.Naxis(), header.Width(), header.Height())
	}
	count, ok := pixelCount(header.Width(), header.Height(), header.Depth())
	if !ok {
		return nil, fmt.Errorf("%w: %dx%dx%d overflows the element count",
			ErrDimensionMismatch, header.Width(), header.Height(), header.Depth())
	}
	samples, err := decodeImage(data, offset, header.Bitpix(), count, opts)
	if err != nil {
		return nil, err
	}
	if opts.Physical {
		samples = calibrate(samples, header.BScale(), header.BZero())
	}
	return &Source{
		Header:     header,
		Width:      header.Width(),
		Height:     header.Height(),
		Depth:      header.Depth(),
		DataOffset: offset,
		Samples:    samples,
		Calibrated: opts.Physical,
	}, nil
}

// DecodeImage decodes width*height*depth big-endian elements starting at
// offset. Trailing bytes beyond that count, such as block padding, are
// ignored; a shortfall is an error.
func DecodeImage(data []byte, offset, bitpix, width, height, depth int) (Samples, error) {
	if depth < 1 {
		depth = 1
	}
	count, ok := pixelCount(width, height, depth)
	if !ok {
		return nil, fmt.Errorf("%w: %dx%dx%d overflows the element count",
			ErrDimensionMismatch, width, height, depth)
	}
	return decodeImage(data, offset, bitpix, count, DecodeOptions{})
}

// pixelCount returns width*height*depth, or false when a factor is negative
// or the product does not fit in an int.
func pixelCount(width, height, depth int) (int, bool) {
	n := 1
	for _, d := range [...]int{width, height, depth} {
		if d < 0 {
			return 0, false
		}
		if d != 0 && n > math.MaxInt/d {
			return 0, false
		}
		n *= d
	}
	return n, true
}

// ElementSize returns the byte width of a BITPIX code, or 0 if unsupported.
func ElementSize(bitpix int) int {
	switch bitpix {
	case 8, 16, 32, 64, -32, -64:
		if bitpix < 0 {
			return -bitpix / 8
		}
		return bitpix / 8
	}
	return 0
}

func decodeImage(data []byte, offset, bitpix, count int, opts DecodeOptions) (Samples, error) {
	size := ElementSize(bitpix)
	if size == 0 {
		return nil, fmt.Errorf("%w: BITPIX=%d", ErrUnsupportedEncoding, bitpix)
	}
	if offset < 0 || offset > len(data) {
		return nil, fmt.Errorf("%w: data offset %d outside %d-byte file", ErrDimensionMismatch, offset, len(data))
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative element count %d", ErrDimensionMismatch, count)
	}
	available := (len(data) - offset) / size
	if count > available {
		return nil, fmt.Errorf("%w: %d elements of %d bytes declared, %d present",
			ErrDimensionMismatch, count, size, available)
	}
	raw := data[offset : offset+count*size]

	floatOrder := binary.ByteOrder(binary.BigEndian)
	if opts.LegacyFloatOrder {
		host, err := HostByteOrder()
		if err != nil {
			return nil, err
		}
		floatOrder = host
	}

	switch bitpix {
	case 8:
		pixels := make(Array[uint8], count)
		copy(pixels, raw)
		return pixels, nil

	case 16:
		pixels := make(Array[uint16], count)
		for i := range pixels {
			pixels[i] = binary.BigEndian.Uint16(raw[i*2:])
		}
		return pixels, nil

	case 32:
		pixels := make(Array[uint32], count)
		for i := range pixels {
			pixels[i] = binary.BigEndian.Uint32(raw[i*4:])
		}
		return pixels, nil

	case 64:
		pixels := make(Array[uint64], count)
		for i := range pixels {
			pixels[i] = binary.BigEndian.Uint64(raw[i*8:])
		}
		return pixels, nil

	case -32:
		pixels := make(Array[float32], count)
		for i := range pixels {
			pixels[i] = math.Float32frombits(floatOrder.Uint32(raw[i*4:]))
		}
		return pixels, nil

	default:
		pixels := make(Array[float64], count)
		for i := range pixels {
			pixels[i] = math.Float64frombits(floatOrder.Uint64(raw[i*8:]))
		}
		return pixels, nil
	}
}

// EncodeImage writes samples back as big-endian bytes, the inverse of
// DecodeImage.
func EncodeImage(samples Samples) []byte {
	size := ElementSize(samples.Bitpix())
	return samples.appendBigEndian(make([]byte, 0, samples.Len()*size))
}

func calibrate(samples Samples, bscale, bzero float64) Samples {
	out := make(Array[float64], samples.Len())
	for i := range out {
		out[i] = bzero + bscale*samples.At(i)
	}
	return out
}
