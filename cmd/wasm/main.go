//go:build js && wasm

package main

import (
	"errors"
	"sync"
	"syscall/js"

	fv "fitsview/pkg/fitsview"
)

var (
	mu       sync.Mutex
	renderer *fv.Renderer
)

func main() {
	js.Global().Set("renderFITS", js.FuncOf(renderFITS))
	js.Global().Set("redrawFITS", js.FuncOf(redrawFITS))
	js.Global().Set("keogramFITS", js.FuncOf(keogramFITS))
	js.Global().Set("fitsHeader", js.FuncOf(fitsHeader))
	select {} // block forever
}

// renderFITS(fileBytes, options) decodes a file, keeps it for redraws and
// returns the rendered pixels.
func renderFITS(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("usage: renderFITS(fileBytes, options)")
	}
	src, err := fv.DecodeWithOptions(copyBytes(args[0]), decodeOptions(optionsArg(args, 1)))
	if err != nil {
		return errorResult("FITS parse error: " + err.Error())
	}

	r := fv.NewRenderer(src)
	mu.Lock()
	renderer = r
	mu.Unlock()
	return draw(r, optionsArg(args, 1))
}

// redrawFITS(options) re-renders the last decoded file without decoding it
// again. It returns null when nothing has been loaded.
func redrawFITS(this js.Value, args []js.Value) interface{} {
	mu.Lock()
	r := renderer
	mu.Unlock()
	return draw(r, optionsArg(args, 0))
}

// keogramFITS([fileBytes...], options) assembles the centre columns of every
// file into one image and renders it.
func keogramFITS(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		return errorResult("usage: keogramFITS([fileBytes...], options)")
	}
	opts := optionsArg(args, 1)
	dopts := decodeOptions(opts)

	n := args[0].Get("length").Int()
	sources := make([]*fv.Source, n)
	for i := 0; i < n; i++ {
		src, err := fv.DecodeWithOptions(copyBytes(args[0].Index(i)), dopts)
		if err != nil {
			return errorResult("FITS parse error: " + err.Error())
		}
		sources[i] = src
	}

	renderOpts, err := renderOptions(opts)
	if err != nil {
		return errorResult(err.Error())
	}
	keo, err := fv.Keogram(sources, renderOpts.Frame)
	if err != nil {
		return errorResult("Keogram error: " + err.Error())
	}
	return draw(fv.NewRenderer(keo), opts)
}

// fitsHeader(fileBytes) returns the header keys as a plain object.
func fitsHeader(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("usage: fitsHeader(fileBytes)")
	}
	h, _, err := fv.ParseHeader(copyBytes(args[0]))
	if err != nil {
		return errorResult("FITS parse error: " + err.Error())
	}
	cards := make(map[string]interface{}, h.Len())
	for _, c := range h.Cards() {
		cards[c.Key] = jsValue(c.Value)
	}
	return js.ValueOf(cards)
}

func draw(r *fv.Renderer, opts js.Value) interface{} {
	ro, err := renderOptions(opts)
	if err != nil {
		return errorResult(err.Error())
	}
	img, rng, err := r.RenderWithRange(ro)
	if errors.Is(err, fv.ErrNotReady) {
		return js.Null()
	}
	if err != nil {
		return errorResult("Render error: " + err.Error())
	}
	if opts.Type() == js.TypeObject && opts.Get("colorbar").Truthy() {
		img = fv.AnnotateColorbar(img, ro, rng)
	}

	b := img.Bounds()
	result := map[string]interface{}{
		"width":  b.Dx(),
		"height": b.Dy(),
		"floor":  rng.Floor,
		"range":  rng.Range,
		"pixels": toUint8Array(img.Pix),
	}

	if opts.Type() == js.TypeObject {
		if name := opts.Get("format"); name.Type() == js.TypeString {
			format, err := fv.ParseFormat(name.String())
			if err != nil {
				return errorResult(err.Error())
			}
			scale := 1.0
			if s := opts.Get("scale"); s.Type() == js.TypeNumber {
				scale = s.Float()
			}
			encoded, err := fv.EncodeBytes(img, format, scale)
			if err != nil {
				return errorResult("Encode error: " + err.Error())
			}
			result["encoded"] = toUint8Array(encoded)
		}
	}
	return js.ValueOf(result)
}

func renderOptions(opts js.Value) (fv.Options, error) {
	o := fv.DefaultOptions()
	if opts.Type() != js.TypeObject {
		return o, nil
	}
	var err error
	if v := opts.Get("stretch"); v.Type() == js.TypeString {
		if o.Stretch, err = fv.ParseStretch(v.String()); err != nil {
			return o, err
		}
	}
	if v := opts.Get("colormap"); v.Type() == js.TypeString {
		if o.Colormap, err = fv.ParseColormap(v.String()); err != nil {
			return o, err
		}
	}
	if v := opts.Get("scaleCutoff"); v.Type() == js.TypeNumber {
		o.ScaleCutoff = v.Float()
	}
	if v := opts.Get("frame"); v.Type() == js.TypeNumber {
		o.Frame = v.Int()
	}
	if v := opts.Get("debayer"); v.Type() == js.TypeBoolean {
		o.Debayer = v.Bool()
	}
	return o, o.Validate()
}

func decodeOptions(opts js.Value) fv.DecodeOptions {
	var d fv.DecodeOptions
	if opts.Type() != js.TypeObject {
		return d
	}
	if v := opts.Get("physical"); v.Type() == js.TypeBoolean {
		d.Physical = v.Bool()
	}
	if v := opts.Get("legacyFloatOrder"); v.Type() == js.TypeBoolean {
		d.LegacyFloatOrder = v.Bool()
	}
	return d
}

func optionsArg(args []js.Value, i int) js.Value {
	if len(args) > i {
		return args[i]
	}
	return js.Undefined()
}

func jsValue(v fv.Value) interface{} {
	switch v.Kind {
	case fv.KindBool:
		return v.Bool
	case fv.KindInt:
		return float64(v.Int)
	case fv.KindFloat:
		return v.Float
	default:
		return v.String()
	}
}

func copyBytes(v js.Value) []byte {
	b := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(b, v)
	return b
}

func toUint8Array(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

func errorResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{
		"error": msg,
	})
}
