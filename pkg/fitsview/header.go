package fitsview

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/qdm12/reprint"
)

const (
	// RecordSize is the length of one header card.
	RecordSize = 80
	// BlockSize is the FITS logical record length; header and data are padded to it.
	BlockSize = 2880
)

// ValueKind identifies the inferred type of a header value.
type ValueKind int

const (
	KindString ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindTime
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindTime:
		return "time"
	default:
		return "unknown"
	}
}

// Value is a typed header value. Only the field matching Kind is meaningful.
type Value struct {
	Kind  ValueKind
	Str   string
	Bool  bool
	Int   int64
	Float float64
	Time  time.Time
}

func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func BoolValue(b bool) Value { return Value{Kind: KindBool, Bool: b} }
func IntValue(i int64) Value { return Value{Kind: KindInt, Int: i} }
func FloatValue(f float64) Value { return Value{Kind: KindFloat, Float: f} }
func TimeValue(t time.Time) Value { return Value{Kind: KindTime, Time: t} }

// Number returns the value as float64 for numeric kinds.
func (v Value) Number() (float64, bool) {
	switch v.Kind {
	case KindInt:
		return float64(v.Int), true
	case KindFloat:
		return v.Float, true
	}
	return 0, false
}

// Interface returns the value as a plain Go value.
func (v Value) Interface() interface{} {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindInt:
		return v.Int
	case KindFloat:
		return v.Float
	case KindTime:
		return v.Time
	default:
		return v.Str
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindBool:
		if v.Bool {
			return "T"
		}
		return "F"
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindTime:
		return v.Time.Format(time.RFC3339Nano)
	default:
		return v.Str
	}
}

// Card is one key/value pair of a header.
type Card struct {
	Key   string
	Value Value
}

// Header is an ordered, immutable mapping of header keys to typed values.
// A repeated key keeps its first position and takes the last value.
type Header struct {
	cards []Card
	index map[string]int

	width  int
	height int
	depth  int
}

func newHeader() *Header {
	return &Header{index: make(map[string]int)}
}

func (h *Header) set(key string, v Value) {
	if i, ok := h.index[key]; ok {
		h.cards[i].Value = v
		return
	}
	h.index[key] = len(h.cards)
	h.cards = append(h.cards, Card{Key: key, Value: v})
}

// Len returns the number of distinct keys.
func (h *Header) Len() int { return len(h.cards) }

// Keys returns the keys in first-seen order.
func (h *Header) Keys() []string {
	keys := make([]string, len(h.cards))
	for i, c := range h.cards {
		keys[i] = c.Key
	}
	return keys
}

// Cards returns a copy of the header cards in order.
func (h *Header) Cards() []Card {
	out := make([]Card, len(h.cards))
	copy(out, h.cards)
	return out
}

// derive returns a deep copy of h for an image computed from it. The
// structural cards of h are dropped; structural leads the new header and the
// descriptive cards follow in their original order. h itself is untouched,
// although the copy's index is rebuilt in place.
func (h *Header) derive(structural ...Card) *Header {
	if h == nil {
		h = newHeader()
	}
	out := reprint.This(h).(*Header)
	inherited := out.cards
	out.cards = make([]Card, 0, len(structural)+len(inherited))
	clear(out.index)
	for _, c := range structural {
		out.set(c.Key, c.Value)
	}
	for _, c := range inherited {
		if !isStructuralKey(c.Key) {
			out.set(c.Key, c.Value)
		}
	}
	return out
}

func (h *Header) Get(key string) (Value, bool) {
	i, ok := h.index[strings.ToUpper(key)]
	if !ok {
		return Value{}, false
	}
	return h.cards[i].Value, true
}

func (h *Header) Has(key string) bool {
	_, ok := h.Get(key)
	return ok
}

// String returns the value of key formatted as text, or "" if absent.
func (h *Header) String(key string) string {
	v, ok := h.Get(key)
	if !ok {
		return ""
	}
	return v.String()
}

// Int returns integer values, and float values truncated toward zero.
func (h *Header) Int(key string) (int, bool) {
	v, ok := h.Get(key)
	if !ok {
		return 0, false
	}
	switch v.Kind {
	case KindInt:
		return int(v.Int), true
	case KindFloat:
		return int(v.Float), true
	}
	return 0, false
}

func (h *Header) Float(key string) (float64, bool) {
	v, ok := h.Get(key)
	if !ok {
		return 0, false
	}
	return v.Number()
}

func (h *Header) Bool(key string) (bool, bool) {
	v, ok := h.Get(key)
	if !ok || v.Kind != KindBool {
		return false, false
	}
	return v.Bool, true
}

func (h *Header) Time(key string) (time.Time, bool) {
	v, ok := h.Get(key)
	if !ok || v.Kind != KindTime {
		return time.Time{}, false
	}
	return v.Time, true
}

func (h *Header) Width() int { return h.width }
func (h *Header) Height() int { return h.height }
func (h *Header) Depth() int { return h.depth }

func (h *Header) Naxis() int {
	n, _ := h.Int("NAXIS")
	return n
}

func (h *Header) Bitpix() int {
	b, _ := h.Int("BITPIX")
	return b
}

func (h *Header) BScale() float64 {
	v, _ := h.Float("BSCALE")
	return v
}

func (h *Header) BZero() float64 {
	v, _ := h.Float("BZERO")
	return v
}

func (h *Header) Object() string { return h.String("OBJECT") }
func (h *Header) Telescope() string { return h.String("TELESCOP") }
func (h *Header) Instrument() string { return h.String("INSTRUME") }
func (h *Header) BayerPattern() string { return strings.TrimSpace(h.String("BAYERPAT")) }

func (h *Header) DateObs() (time.Time, bool) { return h.Time("DATE-OBS") }

func (h *Header) Exposure() (float64, bool) {
	if v, ok := h.Float("EXPTIME"); ok {
		return v, true
	}
	return h.Float("EXPOSURE")
}

// ParseHeader scans 80-byte records from the start of data until the END
// record and returns the header and the byte offset of the image data. The
// offset is the END record position rounded up to the next block boundary.
func ParseHeader(data []byte) (*Header, int, error) {
	h := newHeader()
	offset := 0
	found := false
	for offset+RecordSize <= len(data) {
		record := string(data[offset : offset+RecordSize])
		if isEndRecord(record) {
			found = true
			break
		}
		parseRecord(h, record)
		offset += RecordSize
	}
	if !found {
		return nil, 0, fmt.Errorf("%w: no END record in %d bytes", ErrMalformedHeader, len(data))
	}
	h.finish()

	offset += BlockSize - offset%BlockSize
	return h, offset, nil
}

// ParseHeaderText is the variant for sources that expose the file as text.
// The END record is consumed and the data offset skips any following spaces
// one character at a time instead of rounding to a block boundary.
func ParseHeaderText(text string) (*Header, int, error) {
	h := newHeader()
	offset := 0
	found := false
	for offset < len(text) && !found {
		end := offset + RecordSize
		if end > len(text) {
			end = len(text)
		}
		record := text[offset:end]
		parseRecord(h, record)
		if isEndRecord(record) {
			found = true
		}
		offset = end
	}
	if !found {
		return nil, 0, fmt.Errorf("%w: no END record in %d characters", ErrMalformedHeader, len(text))
	}
	h.finish()

	for offset < len(text) && text[offset] == ' ' {
		offset++
	}
	return h, offset, nil
}

// isEndRecord matches the END keyword only. A keyword such as ENDTIME is an
// ordinary card.
func isEndRecord(record string) bool {
	if !strings.HasPrefix(record, "END") {
		return false
	}
	kw := record
	if len(kw) > 8 {
		kw = kw[:8]
	}
	return strings.TrimRight(kw, " ") == "END"
}

func parseRecord(h *Header, record string) {
	sep := strings.IndexAny(record, "=/")
	// A '/' before any '=' opens a comment: the card has no value. This covers
	// COMMENT, HISTORY and blank-keyword cards whose text contains '='.
	if sep < 0 || record[sep] == '/' {
		return
	}
	key := strings.TrimSpace(record[:sep])
	// HIERARCH keys contain spaces and are not supported.
	if key == "" || strings.ContainsAny(key, " \t") {
		return
	}
	raw := strings.TrimSpace(record[sep+1:])
	if raw == "" {
		return
	}
	v, ok := parseValue(raw)
	if !ok {
		return
	}
	h.set(strings.ToUpper(key), v)
}

var datePattern = regexp.MustCompile(`\d+-\d+-\d+T.+`)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
}

func parseValue(raw string) (Value, bool) {
	if strings.HasPrefix(raw, "'") {
		s := strings.TrimSpace(unquote(raw))
		if datePattern.MatchString(s) {
			for _, layout := range dateLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					return TimeValue(t), true
				}
			}
		}
		return StringValue(s), true
	}

	if i := strings.IndexByte(raw, '/'); i >= 0 {
		raw = strings.TrimSpace(raw[:i])
	}
	if raw == "" {
		return Value{}, false
	}

	switch raw {
	case "T":
		return BoolValue(true), true
	case "F":
		return BoolValue(false), true
	}

	if strings.Contains(raw, ".") {
		// Fortran double exponents (1.0D+03) are legal in FITS.
		f, err := strconv.ParseFloat(strings.Replace(raw, "D", "E", 1), 64)
		if err != nil {
			return StringValue(raw), true
		}
		return FloatValue(f), true
	}

	i, err := strconv.ParseInt(raw, 10, 64)
	if err == nil {
		return IntValue(i), true
	}
	if f, ferr := strconv.ParseFloat(raw, 64); ferr == nil {
		return FloatValue(f), true
	}
	return StringValue(raw), true
}

// unquote returns the text between the opening quote and its closing quote,
// with doubled quotes folded into one.
func unquote(raw string) string {
	var b strings.Builder
	for i := 1; i < len(raw); i++ {
		c := raw[i]
		if c != '\'' {
			b.WriteByte(c)
			continue
		}
		if i+1 < len(raw) && raw[i+1] == '\'' {
			b.WriteByte('\'')
			i++
			continue
		}
		break
	}
	return b.String()
}

func (h *Header) finish() {
	if !h.Has("BSCALE") {
		h.set("BSCALE", IntValue(1))
	}
	if !h.Has("BZERO") {
		h.set("BZERO", IntValue(0))
	}

	naxis := h.Naxis()
	if naxis >= 2 {
		h.width, _ = h.Int("NAXIS1")
		h.height, _ = h.Int("NAXIS2")
	}
	h.depth = 1
	if naxis > 2 {
		if d, ok := h.Int("NAXIS3"); ok && d > 1 {
			h.depth = d
		}
	}
}
