package fitsview

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/tiff"
)

// Format is a raster output encoding.
type Format int

const (
	FormatPNG Format = iota
	FormatJPEG
	FormatTIFF
)

const jpegQuality = 90

func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatTIFF:
		return "tiff"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "tiff", "tif":
		return FormatTIFF, nil
	}
	return FormatPNG, fmt.Errorf("%w: unknown format %q", ErrInvalidOption, name)
}

// FormatForPath picks the format from a file extension, falling back to PNG.
func FormatForPath(path string) Format {
	f, err := ParseFormat(filepath.Ext(path))
	if err != nil {
		return FormatPNG
	}
	return f
}

// Encode writes img in the given format after resizing it by scale.
// A scale of 1 keeps the native resolution.
func Encode(w io.Writer, img *image.RGBA, format Format, scale float64) error {
	if !(scale > 0) {
		return fmt.Errorf("%w: scale %v must be positive", ErrInvalidOption, scale)
	}
	if scale != 1 {
		var err error
		if img, err = scaleRaster(img, scale); err != nil {
			return fmt.Errorf("scaling raster: %w", err)
		}
	}

	switch format {
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatPNG, FormatJPEG:
		return encodeRaster(w, img, format)
	}
	return fmt.Errorf("%w: %v", ErrInvalidOption, format)
}

// EncodeBytes is Encode into memory.
func EncodeBytes(img *image.RGBA, format Format, scale float64) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, format, scale); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func scaledSize(b image.Rectangle, scale float64) (int, int) {
	w := max(int(float64(b.Dx())*scale+0.5), 1)
	h := max(int(float64(b.Dy())*scale+0.5), 1)
	return w, h
}
