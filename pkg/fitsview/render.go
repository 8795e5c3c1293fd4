package fitsview

import (
	"fmt"
	"image"
	"sync"
)

// Options selects how a decoded source is turned into display pixels.
type Options struct {
	Stretch     Stretch
	Colormap    Colormap
	ScaleCutoff float64
	// Frame selects a plane of a cube; it is clamped to [0, depth-1].
	Frame int
	// Debayer converts an RGGB mosaic frame to luminance before stretching.
	Debayer bool
}

// DefaultOptions returns linear stretch, gray colormap, 0.999 cutoff, frame 0.
func DefaultOptions() Options {
	return Options{
		Stretch:     StretchLinear,
		Colormap:    ColormapGray,
		ScaleCutoff: DefaultScaleCutoff,
		Frame:       0,
	}
}

func (o Options) Validate() error {
	if !(o.ScaleCutoff > 0 && o.ScaleCutoff <= 1) {
		return fmt.Errorf("%w: scale cutoff %v outside (0, 1]", ErrInvalidOption, o.ScaleCutoff)
	}
	if o.Stretch < StretchLinear || o.Stretch > StretchSqrtlog {
		return fmt.Errorf("%w: %v", ErrInvalidOption, o.Stretch)
	}
	if o.Colormap < ColormapGray || o.Colormap > ColormapB {
		return fmt.Errorf("%w: %v", ErrInvalidOption, o.Colormap)
	}
	return nil
}

type frameKey struct {
	index   int
	debayer bool
}

// Renderer draws one decoded source. Redraws with other options reuse the
// per-frame sorted samples; the source is never decoded again.
type Renderer struct {
	src *Source

	mu     sync.Mutex
	frames map[frameKey]*renderFrame
}

type renderFrame struct {
	samples Samples
	sorted  *Sorted
}

func NewRenderer(src *Source) *Renderer {
	return &Renderer{src: src, frames: make(map[frameKey]*renderFrame)}
}

func (r *Renderer) Source() *Source { return r.src }

// Render produces the RGBA raster. ErrNotReady is returned when there is no
// decoded source yet, which callers treat as "skip this draw".
func (r *Renderer) Render(opts Options) (*image.RGBA, error) {
	img, _, err := r.RenderWithRange(opts)
	return img, err
}

// RenderWithRange is Render that also reports the display range it used.
func (r *Renderer) RenderWithRange(opts Options) (*image.RGBA, Range, error) {
	if r == nil || r.src == nil || r.src.Samples == nil {
		return nil, Range{}, ErrNotReady
	}
	if err := opts.Validate(); err != nil {
		return nil, Range{}, err
	}
	f, err := r.frame(clampFrame(opts.Frame, r.src.Depth), opts.Debayer)
	if err != nil {
		return nil, Range{}, err
	}
	rng := f.sorted.DisplayRange(opts.ScaleCutoff)
	img := image.NewRGBA(image.Rect(0, 0, r.src.Width, r.src.Height))
	Draw(img.Pix, f.samples, r.src.Width, r.src.Height, rng, opts.Stretch, opts.Colormap)
	return img, rng, nil
}

func (r *Renderer) frame(index int, debayer bool) (*renderFrame, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := frameKey{index: index, debayer: debayer}
	if f, ok := r.frames[key]; ok {
		return f, nil
	}
	samples, err := r.src.Frame(index)
	if err != nil {
		return nil, err
	}
	if debayer {
		pattern := BayerRGGB
		if r.src.Header != nil {
			if pattern, err = ParseBayerPattern(r.src.Header.BayerPattern()); err != nil {
				return nil, err
			}
		}
		samples = Array[float64](Debayer(samples.Float64s(), r.src.Width, r.src.Height, pattern))
	}
	f := &renderFrame{samples: samples, sorted: SortSamples(samples)}
	r.frames[key] = f
	return f, nil
}

// Render draws src with opts in a single call.
func Render(src *Source, opts Options) (*image.RGBA, error) {
	return NewRenderer(src).Render(opts)
}

// Draw writes width*height RGBA pixels into pix. Input row r becomes output
// row height-1-r, so the first FITS row (the bottom of the sky image) ends up
// at the bottom of the raster. Draw writes nothing when pix holds fewer than
// width*height*4 bytes or frame fewer than width*height samples.
func Draw(pix []byte, frame Samples, width, height int, rng Range, s Stretch, c Colormap) {
	if width <= 0 || height <= 0 {
		return
	}
	n, ok := pixelCount(width, height, 4)
	if !ok || len(pix) < n || frame.Len() < width*height {
		return
	}

	var lut [256]RGB
	for i := range lut {
		lut[i] = c.Map(uint8(i))
	}

	index := 0
	for row := 0; row < height; row++ {
		rowOff := (height - 1 - row) * width * 4
		for col := 0; col < width; col++ {
			v := Intensity(s.Apply(frame.At(index), rng.Floor, rng.Range))
			px := lut[v].RGBA()
			pos := rowOff + col*4
			pix[pos] = px.R
			pix[pos+1] = px.G
			pix[pos+2] = px.B
			pix[pos+3] = px.A
			index++
		}
	}
}
