package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	fv "fitsview/pkg/fitsview"
)

// writeFITS writes a 16-bit width x 1 image with pixel values 0..width-1.
func writeFITS(t *testing.T, dir, name string, width int) string {
	t.Helper()
	var buf bytes.Buffer
	for _, c := range [][2]string{
		{"SIMPLE", "T"},
		{"BITPIX", "16"},
		{"NAXIS", "2"},
		{"NAXIS1", fmt.Sprint(width)},
		{"NAXIS2", "1"},
		{"OBJECT", "'test field'"},
	} {
		fmt.Fprintf(&buf, "%-8s= %-70s", c[0], c[1])
	}
	fmt.Fprintf(&buf, "%-80s", "END")
	buf.Write(bytes.Repeat([]byte(" "), fv.BlockSize-buf.Len()%fv.BlockSize))
	for i := 0; i < width; i++ {
		buf.Write(binary.BigEndian.AppendUint16(nil, uint16(i)))
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		location string
		format   fv.Format
		want     string
	}{
		{"/data/night/frame001.fits", fv.FormatPNG, "frame001.png"},
		{"https://example.org/sky/m31.fits.zst", fv.FormatJPEG, "m31.jpeg"},
		{`C:\obs\img.fit`, fv.FormatTIFF, "img.tiff"},
		{"dir/", fv.FormatPNG, "image.png"},
	}
	for _, tc := range tests {
		if got := outputName(tc.location, tc.format); got != tc.want {
			t.Errorf("outputName(%q) = %q, want %q", tc.location, got, tc.want)
		}
	}
}

func TestRunUnknownCommand(t *testing.T) {
	err := run(context.Background(), []string{"frobnicate"}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "frobnicate") {
		t.Errorf("err = %v", err)
	}
	if err := run(context.Background(), nil, &bytes.Buffer{}); err == nil {
		t.Error("no command accepted")
	}
}

func TestRunInfo(t *testing.T) {
	path := writeFITS(t, t.TempDir(), "frame.fits", 8)
	var out bytes.Buffer
	if err := run(context.Background(), []string{"info", path}, &out); err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"OBJECT", "test field", "Samples:       8 (0 NaN)", "Min / Max:     0 / 7"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("info output lacks %q:\n%s", want, out.String())
		}
	}
}

func TestRunRenderAndKeogram(t *testing.T) {
	dir := t.TempDir()
	a := writeFITS(t, dir, "a.fits", 16)
	b := writeFITS(t, dir, "b.fits", 16)

	rendered := filepath.Join(dir, "a.png")
	if err := run(context.Background(), []string{"render", "-colormap", "heat", "-colorbar", "-o", rendered, a}, &bytes.Buffer{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(rendered)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("render output is not a PNG")
	}

	keo := filepath.Join(dir, "keo.fits")
	if err := run(context.Background(), []string{"keogram", "-o", keo, a, b}, &bytes.Buffer{}); err != nil {
		t.Fatalf("keogram: %v", err)
	}
	data, err = os.ReadFile(keo)
	if err != nil {
		t.Fatal(err)
	}
	src, err := fv.Decode(data)
	if err != nil {
		t.Fatalf("Decode keogram: %v", err)
	}
	if src.Width != 2 || src.Height != 1 {
		t.Errorf("keogram is %dx%d, want 2x1", src.Width, src.Height)
	}
}

func TestRunRenderRejectsBadOptions(t *testing.T) {
	path := writeFITS(t, t.TempDir(), "frame.fits", 4)
	for _, args := range [][]string{
		{"render", "-stretch", "banana", path},
		{"render", "-cutoff", "0", path},
		{"render", "-format", "gif", path},
	} {
		if err := run(context.Background(), args, &bytes.Buffer{}); err == nil {
			t.Errorf("%v accepted", args)
		}
	}
}

func TestRunInfoClampsFrameAndReportsProgress(t *testing.T) {
	path := writeFITS(t, t.TempDir(), "frame.fits", 4)
	var out bytes.Buffer
	if err := run(context.Background(), []string{"info", "-frame", "5", path}, &out); err != nil {
		t.Fatalf("info: %v", err)
	}
	for _, want := range []string{"Loading: " + path, "FITS loaded: 4x1x1", "=== Frame 0 ==="} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("info output lacks %q:\n%s", want, out.String())
		}
	}
}
