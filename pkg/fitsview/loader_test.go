package fitsview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

// memorySource serves fixed byte slices. Locations listed in hold block
// until release is closed or the context ends.
type memorySource struct {
	files   map[string][]byte
	hold    map[string]bool
	release chan struct{}
	started chan string

	mu      sync.Mutex
	fetched []string
}

func (m *memorySource) Fetch(ctx context.Context, location string) ([]byte, error) {
	m.mu.Lock()
	m.fetched = append(m.fetched, location)
	m.mu.Unlock()
	if m.started != nil {
		m.started <- location
	}
	if m.hold[location] {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-m.release:
		}
	}
	data, ok := m.files[location]
	if !ok {
		return nil, fmt.Errorf("%w: %s not found", ErrFetch, location)
	}
	return data, nil
}

func TestLoaderSupersedesInFlightLoad(t *testing.T) {
	src := &memorySource{
		files: map[string][]byte{
			"slow.fits": fits16(t, 1, 1, 1, []uint16{1}),
			"fast.fits": fits16(t, 2, 1, 1, []uint16{2, 3}),
		},
		hold:    map[string]bool{"slow.fits": true},
		release: make(chan struct{}),
		started: make(chan string, 2),
	}
	l := NewLoader(src, DecodeOptions{})

	slowErr := make(chan error, 1)
	go func() {
		_, err := l.Load(context.Background(), "slow.fits")
		slowErr <- err
	}()
	if got := <-src.started; got != "slow.fits" {
		t.Fatalf("first fetch = %q", got)
	}

	fast, err := l.Load(context.Background(), "fast.fits")
	if err != nil {
		t.Fatalf("Load fast: %v", err)
	}
	if fast.Width != 2 {
		t.Errorf("fast width = %d", fast.Width)
	}

	select {
	case err := <-slowErr:
		if !errors.Is(err, ErrSuperseded) {
			t.Errorf("slow err = %v, want ErrSuperseded", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("superseded load did not return")
	}
	if l.Current() != fast {
		t.Error("Current is not the newest load")
	}
}

func TestLoaderErrors(t *testing.T) {
	src := &memorySource{files: map[string][]byte{"bad.fits": []byte("not a fits file")}}
	l := NewLoader(src, DecodeOptions{})

	if _, err := l.Load(context.Background(), "missing.fits"); !errors.Is(err, ErrFetch) {
		t.Errorf("missing err = %v, want ErrFetch", err)
	}
	if _, err := l.Load(context.Background(), "bad.fits"); !errors.Is(err, ErrMalformedHeader) {
		t.Errorf("bad err = %v, want ErrMalformedHeader", err)
	}
	if l.Current() != nil {
		t.Error("failed loads set Current")
	}
}

func TestLoadAllKeepsOrder(t *testing.T) {
	files := map[string][]byte{}
	var locations []string
	for i := 1; i <= 5; i++ {
		name := fmt.Sprintf("frame%d.fits", i)
		files[name] = fits16(t, i, 1, 1, ramp(i))
		locations = append(locations, name)
	}

	sources, err := LoadAll(context.Background(), &memorySource{files: files}, DecodeOptions{}, locations)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(sources) != len(locations) {
		t.Fatalf("got %d sources", len(sources))
	}
	for i, src := range sources {
		if src.Width != i+1 {
			t.Errorf("source %d has width %d", i, src.Width)
		}
	}
}

func TestLoadAllFailureCancelsRest(t *testing.T) {
	src := &memorySource{
		files:   map[string][]byte{"a.fits": fits16(t, 1, 1, 1, []uint16{1})},
		hold:    map[string]bool{"a.fits": true},
		release: make(chan struct{}),
	}
	defer close(src.release)

	done := make(chan struct{})
	var (
		sources []*Source
		err     error
	)
	go func() {
		defer close(done)
		sources, err = LoadAll(context.Background(), src, DecodeOptions{}, []string{"a.fits", "missing.fits"})
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("LoadAll did not cancel the held fetch")
	}
	if !errors.Is(err, ErrFetch) {
		t.Errorf("err = %v, want ErrFetch", err)
	}
	if sources != nil {
		t.Errorf("partial result returned: %v", sources)
	}
}
