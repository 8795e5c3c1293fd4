//go:build purego || js

package fitsview

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"
)

func scaleRaster(img *image.RGBA, scale float64) (*image.RGBA, error) {
	w, h := scaledSize(img.Bounds(), scale)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// Enlarged pixels stay square; reductions are smoothed.
	var interp xdraw.Interpolator = xdraw.CatmullRom
	if scale > 1 {
		interp = xdraw.NearestNeighbor
	}
	interp.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst, nil
}

func encodeRaster(w io.Writer, img *image.RGBA, format Format) error {
	if format == FormatJPEG {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	}
	return png.Encode(w, img)
}
