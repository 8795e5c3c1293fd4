package fitsview

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	colorbarHeight = 12
	captionHeight  = 34
)

var (
	captionBackground = color.RGBA{0, 0, 0, 255}
	captionColor      = color.RGBA{220, 220, 220, 255}
)

// AnnotateColorbar returns a copy of img extended downwards by a colorbar
// for opts.Colormap and a caption naming the stretch, colormap and the
// data values at both ends of the bar.
func AnnotateColorbar(img *image.RGBA, opts Options, rng Range) *image.RGBA {
	b := img.Bounds()
	width := b.Dx()
	height := b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, width, height+colorbarHeight+captionHeight))

	xdraw.Draw(out, out.Bounds(), image.NewUniform(captionBackground), image.Point{}, xdraw.Src)
	xdraw.Draw(out, image.Rect(0, 0, width, height), img, b.Min, xdraw.Src)

	drawColorbar(out, opts.Colormap, height, width)

	face := basicfont.Face7x13
	textY := height + colorbarHeight + 14
	drawText(out, face, formatLevel(rng.Floor), 4, textY, captionColor)
	hi := formatLevel(rng.Max())
	drawText(out, face, hi, width-4-font.MeasureString(face, hi).Round(), textY, captionColor)

	label := fmt.Sprintf("%s / %s  cutoff %g  frame %d", opts.Stretch, opts.Colormap, opts.ScaleCutoff, opts.Frame)
	drawCenteredText(out, face, label, width/2, textY+16, captionColor)
	return out
}

// drawColorbar paints intensities 0..255 left to right across width
// columns starting at row y0.
func drawColorbar(img *image.RGBA, c Colormap, y0, width int) {
	var lut [256]color.RGBA
	for i := range lut {
		lut[i] = c.Map(uint8(i)).RGBA()
	}
	for x := 0; x < width; x++ {
		level := 0
		if width > 1 {
			level = x * 255 / (width - 1)
		}
		for y := y0; y < y0+colorbarHeight; y++ {
			img.SetRGBA(x, y, lut[level])
		}
	}
}

func formatLevel(v float64) string {
	return strconv.FormatFloat(v, 'g', 5, 64)
}

// drawText draws a string with its baseline origin at (x, y).
func drawText(img *image.RGBA, face font.Face, s string, x, y int, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func drawCenteredText(img *image.RGBA, face font.Face, s string, cx, y int, c color.RGBA) {
	advance := font.MeasureString(face, s)
	drawText(img, face, s, cx-advance.Round()/2, y, c)
}
