//go:build !purego && !js

package fitsview

import (
	"fmt"
	"image"
	"io"

	"gocv.io/x/gocv"
	xdraw "golang.org/x/image/draw"
)

// toMat copies an RGBA raster into a BGRA gocv.Mat. The caller closes it.
func toMat(img *image.RGBA) (gocv.Mat, error) {
	return gocv.ImageToMatRGBA(img)
}

func fromMat(m gocv.Mat) (*image.RGBA, error) {
	out, err := m.ToImage()
	if err != nil {
		return nil, err
	}
	if rgba, ok := out.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(out.Bounds())
	xdraw.Draw(rgba, rgba.Bounds(), out, out.Bounds().Min, xdraw.Src)
	return rgba, nil
}

func scaleRaster(img *image.RGBA, scale float64) (*image.RGBA, error) {
	src, err := toMat(img)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	w, h := scaledSize(img.Bounds(), scale)
	interp := gocv.InterpolationArea
	if scale > 1 {
		interp = gocv.InterpolationNearestNeighbor
	}
	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Resize(src, &dst, image.Pt(w, h), 0, 0, interp)
	if dst.Empty() {
		return nil, fmt.Errorf("resize to %dx%d produced an empty mat", w, h)
	}
	return fromMat(dst)
}

func encodeRaster(w io.Writer, img *image.RGBA, format Format) error {
	m, err := toMat(img)
	if err != nil {
		return err
	}
	defer m.Close()

	var buf *gocv.NativeByteBuffer
	if format == FormatJPEG {
		// JPEG has no alpha channel.
		bgr := gocv.NewMat()
		defer bgr.Close()
		gocv.CvtColor(m, &bgr, gocv.ColorBGRAToBGR)
		buf, err = gocv.IMEncodeWithParams(gocv.JPEGFileExt, bgr, []int{gocv.IMWriteJpegQuality, jpegQuality})
	} else {
		buf, err = gocv.IMEncode(gocv.PNGFileExt, m)
	}
	if err != nil {
		return fmt.Errorf("encoding %v: %w", format, err)
	}
	defer buf.Close()

	_, err = w.Write(buf.GetBytes())
	return err
}
