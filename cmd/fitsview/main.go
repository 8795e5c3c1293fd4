package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	fv "fitsview/pkg/fitsview"
)

const usage = `usage: fitsview <command> [flags] <file|url>...

commands:
  info       print header keys and frame statistics
  render     render a frame to PNG, JPEG or TIFF
  keogram    assemble a keogram from a sequence of images
  histogram  plot the value distribution of a frame`

func main() {
	log.SetFlags(0)
	log.SetPrefix("[fitsview] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	if len(args) < 1 {
		return errors.New(usage)
	}
	switch args[0] {
	case "info":
		return runInfo(ctx, args[1:], stdout)
	case "render":
		return runRender(ctx, args[1:], stdout)
	case "keogram":
		return runKeogram(ctx, args[1:], stdout)
	case "histogram":
		return runHistogram(ctx, args[1:], stdout)
	case "-h", "-help", "--help", "help":
		fmt.Fprintln(stdout, usage)
		return nil
	}
	return fmt.Errorf("unknown command %q\n%s", args[0], usage)
}

// renderFlags are shared by render and keogram.
type renderFlags struct {
	stretch  string
	colormap string
	cutoff   float64
	frame    int
	debayer  bool
	scale    float64
	format   string
	output   string
	colorbar bool
}

func (rf *renderFlags) register(fs *flag.FlagSet) {
	def := fv.DefaultOptions()
	fs.StringVar(&rf.stretch, "stretch", def.Stretch.String(), "stretch: linear, sqrt, cuberoot, log, loglog, sqrtlog")
	fs.StringVar(&rf.colormap, "colormap", def.Colormap.String(), "colormap: gray, heat, blackbody, A, B")
	fs.Float64Var(&rf.cutoff, "cutoff", def.ScaleCutoff, "fraction of sorted values below the display maximum")
	fs.IntVar(&rf.frame, "frame", def.Frame, "frame index of a data cube")
	fs.BoolVar(&rf.debayer, "debayer", false, "interpolate a Bayer mosaic to luminance")
	fs.Float64Var(&rf.scale, "scale", 1, "output resize factor")
	fs.StringVar(&rf.format, "format", "", "output format: png, jpeg, tiff (default from -o extension)")
	fs.StringVar(&rf.output, "o", "", "output file")
	fs.BoolVar(&rf.colorbar, "colorbar", false, "append a colorbar and caption")
}

func (rf *renderFlags) options() (fv.Options, error) {
	opts := fv.DefaultOptions()
	var err error
	if opts.Stretch, err = fv.ParseStretch(rf.stretch); err != nil {
		return opts, err
	}
	if opts.Colormap, err = fv.ParseColormap(rf.colormap); err != nil {
		return opts, err
	}
	opts.ScaleCutoff = rf.cutoff
	opts.Frame = rf.frame
	opts.Debayer = rf.debayer
	return opts, opts.Validate()
}

func (rf *renderFlags) outputFormat() (fv.Format, error) {
	if rf.format != "" {
		return fv.ParseFormat(rf.format)
	}
	return fv.FormatForPath(rf.output), nil
}

type decodeFlags struct {
	physical    bool
	legacyFloat bool
}

func (df *decodeFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&df.physical, "physical", false, "apply BZERO + BSCALE*raw before rendering")
	fs.BoolVar(&df.legacyFloat, "legacy-float", false, "read floating-point pixels in host byte order")
}

func (df *decodeFlags) options() fv.DecodeOptions {
	return fv.DecodeOptions{Physical: df.physical, LegacyFloatOrder: df.legacyFloat}
}

func loadOne(ctx context.Context, stdout io.Writer, location string, opts fv.DecodeOptions) (*fv.Source, error) {
	fmt.Fprintf(stdout, "Loading: %s\n", location)
	start := time.Now()
	src, err := fv.NewLoader(fv.NewAutoSource(), opts).Load(ctx, location)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(stdout, "FITS loaded: %dx%dx%d, BITPIX %d (%.2fs)\n",
		src.Width, src.Height, src.Depth, src.Header.Bitpix(), time.Since(start).Seconds())
	return src, nil
}

func runInfo(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	var df decodeFlags
	df.register(fs)
	frame := fs.Int("frame", 0, "frame index for statistics")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: fitsview info [flags] <file|url>")
	}

	src, err := loadOne(ctx, stdout, fs.Arg(0), df.options())
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "=== Header ===")
	for _, c := range src.Header.Cards() {
		fmt.Fprintf(stdout, "  %-8s = %-24s (%s)\n", c.Key, c.Value, c.Value.Kind)
	}

	index := min(max(*frame, 0), src.Depth-1)
	samples, err := src.Frame(index)
	if err != nil {
		return err
	}
	sum, err := fv.Summarize(samples)
	if err != nil {
		return err
	}
	rng := fv.DisplayRange(samples, fv.DefaultScaleCutoff)

	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "=== Frame %d ===\n", index)
	fmt.Fprintf(stdout, "  Samples:       %d (%d NaN)\n", sum.Count, sum.NaNs)
	fmt.Fprintf(stdout, "  Min / Max:     %g / %g\n", sum.Min, sum.Max)
	fmt.Fprintf(stdout, "  Mean:          %g\n", sum.Mean)
	fmt.Fprintf(stdout, "  Median:        %g\n", sum.Median)
	fmt.Fprintf(stdout, "  Std dev:       %g\n", sum.StdDev)
	fmt.Fprintf(stdout, "  Display range: %g .. %g\n", rng.Floor, rng.Max())
	fmt.Fprintln(stdout, "==============================")
	return nil
}

func runRender(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	var rf renderFlags
	var df decodeFlags
	rf.register(fs)
	df.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: fitsview render [flags] <file|url>")
	}
	opts, err := rf.options()
	if err != nil {
		return err
	}
	format, err := rf.outputFormat()
	if err != nil {
		return err
	}
	if rf.output == "" {
		rf.output = outputName(fs.Arg(0), format)
	}

	src, err := loadOne(ctx, stdout, fs.Arg(0), df.options())
	if err != nil {
		return err
	}
	return renderTo(stdout, fv.NewRenderer(src), opts, &rf, format)
}

func runKeogram(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("keogram", flag.ContinueOnError)
	var rf renderFlags
	var df decodeFlags
	rf.register(fs)
	df.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return errors.New("usage: fitsview keogram [flags] <file|url>...")
	}
	if rf.output == "" {
		rf.output = "keogram.png"
	}

	fmt.Fprintf(stdout, "Loading %d images\n", fs.NArg())
	start := time.Now()
	sources, err := fv.LoadAll(ctx, fv.NewAutoSource(), df.options(), fs.Args())
	if err != nil {
		return err
	}
	keo, err := fv.Keogram(sources, rf.frame)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Keogram assembled: %dx%d (%.2fs)\n", keo.Width, keo.Height, time.Since(start).Seconds())

	if strings.HasSuffix(strings.ToLower(rf.output), ".fits") || strings.HasSuffix(strings.ToLower(rf.output), ".fit") {
		return writeFile(rf.output, func(w io.Writer) error { return fv.WriteFITS(w, keo) })
	}

	opts, err := rf.options()
	if err != nil {
		return err
	}
	// The keogram is a single plane.
	opts.Frame = 0
	format, err := rf.outputFormat()
	if err != nil {
		return err
	}
	return renderTo(stdout, fv.NewRenderer(keo), opts, &rf, format)
}

func runHistogram(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("histogram", flag.ContinueOnError)
	var df decodeFlags
	df.register(fs)
	frame := fs.Int("frame", 0, "frame index of a data cube")
	cutoff := fs.Float64("cutoff", fv.DefaultScaleCutoff, "fraction of sorted values below the display maximum")
	bins := fs.Int("bins", fv.DefaultHistogramBins, "number of histogram bins")
	output := fs.String("o", "histogram.png", "output PNG file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("usage: fitsview histogram [flags] <file|url>")
	}
	if !(*cutoff > 0 && *cutoff <= 1) {
		return fmt.Errorf("%w: cutoff %v outside (0, 1]", fv.ErrInvalidOption, *cutoff)
	}

	src, err := loadOne(ctx, stdout, fs.Arg(0), df.options())
	if err != nil {
		return err
	}
	samples, err := src.Frame(min(max(*frame, 0), src.Depth-1))
	if err != nil {
		return err
	}
	rng := fv.DisplayRange(samples, *cutoff)
	if err := writeFile(*output, func(w io.Writer) error {
		return fv.WriteHistogram(w, samples, rng, *bins)
	}); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Histogram written: %s\n", *output)
	return nil
}

func renderTo(stdout io.Writer, r *fv.Renderer, opts fv.Options, rf *renderFlags, format fv.Format) error {
	start := time.Now()
	img, rng, err := r.RenderWithRange(opts)
	if err != nil {
		return err
	}
	if rf.colorbar {
		img = fv.AnnotateColorbar(img, opts, rng)
	}
	if err := writeFile(rf.output, func(w io.Writer) error {
		return fv.Encode(w, img, format, rf.scale)
	}); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Rendered %s (%s, %s, range %g..%g) in %.2fs\n",
		rf.output, opts.Stretch, opts.Colormap, rng.Floor, rng.Max(), time.Since(start).Seconds())
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	log.Printf("wrote %s", path)
	return nil
}

// outputName derives the default output path from the input location.
func outputName(location string, format fv.Format) string {
	base := location
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	if base == "" {
		base = "image"
	}
	return base + "." + format.String()
}
