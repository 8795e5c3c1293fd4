package fitsview

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"
)

// card formats one 80-byte header record.
func card(key, value string) string {
	return fmt.Sprintf("%-8s= %-70s", key, value)
}

func padTo(b []byte, block int, fill byte) []byte {
	for len(b)%block != 0 {
		b = append(b, fill)
	}
	return b
}

// buildFITS writes cards, an END record and data, each padded to a block.
func buildFITS(t *testing.T, cards []string, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, c := range cards {
		if len(c) != RecordSize {
			t.Fatalf("card %q is %d bytes", c, len(c))
		}
		buf.WriteString(c)
	}
	buf.WriteString(fmt.Sprintf("%-80s", "END"))
	out := padTo(buf.Bytes(), BlockSize, ' ')
	return padTo(append(out, data...), BlockSize, 0)
}

// fits16 builds a 16-bit image of the given shape with extra header cards.
func fits16(t *testing.T, width, height, depth int, values []uint16, extra ...string) []byte {
	t.Helper()
	naxis := 2
	if depth > 1 {
		naxis = 3
	}
	cards := []string{
		card("SIMPLE", "T"),
		card("BITPIX", "16"),
		card("NAXIS", fmt.Sprint(naxis)),
		card("NAXIS1", fmt.Sprint(width)),
		card("NAXIS2", fmt.Sprint(height)),
	}
	if depth > 1 {
		cards = append(cards, card("NAXIS3", fmt.Sprint(depth)))
	}
	cards = append(cards, extra...)

	data := make([]byte, 0, len(values)*2)
	for _, v := range values {
		data = binary.BigEndian.AppendUint16(data, v)
	}
	return buildFITS(t, cards, data)
}

func decode16(t *testing.T, width, height, depth int, values []uint16, extra ...string) *Source {
	t.Helper()
	src, err := Decode(fits16(t, width, height, depth, values, extra...))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return src
}

func ramp(n int) []uint16 {
	out := make([]uint16, n)
	for i := range out {
		out[i] = uint16(i)
	}
	return out
}

func floatsEqual(t *testing.T, got Samples, want []float64) {
	t.Helper()
	if got.Len() != len(want) {
		t.Fatalf("len = %d, want %d", got.Len(), len(want))
	}
	for i, w := range want {
		if got.At(i) != w {
			t.Fatalf("sample %d = %v, want %v (all: %v)", i, got.At(i), w, got.Float64s())
		}
	}
}
