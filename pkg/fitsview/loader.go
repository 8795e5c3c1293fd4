package fitsview

import (
	"context"
	"fmt"
	"sync"
)

// Loader fetches and decodes one image at a time. Starting a new Load
// cancels the one in flight, and a superseded load never returns its
// result: it fails with ErrSuperseded.
type Loader struct {
	src  ByteSource
	opts DecodeOptions

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	current *Source
}

func NewLoader(src ByteSource, opts DecodeOptions) *Loader {
	return &Loader{src: src, opts: opts}
}

// Current returns the most recent successfully loaded source, or nil.
func (l *Loader) Current() *Source {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

func (l *Loader) Load(ctx context.Context, location string) (*Source, error) {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	l.gen++
	gen := l.gen
	l.cancel = cancel
	l.mu.Unlock()
	defer cancel()

	data, err := l.src.Fetch(ctx, location)
	if l.superseded(gen) {
		return nil, fmt.Errorf("%w: %s", ErrSuperseded, location)
	}
	if err != nil {
		return nil, err
	}

	src, err := DecodeWithOptions(data, l.opts)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", location, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen != gen {
		return nil, fmt.Errorf("%w: %s", ErrSuperseded, location)
	}
	l.current = src
	return src, nil
}

func (l *Loader) superseded(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen != gen
}

// LoadAll fetches and decodes every location concurrently and returns the
// sources in input order. It waits for all of them: the first failure
// cancels the others and no partial result is returned.
func LoadAll(ctx context.Context, src ByteSource, opts DecodeOptions, locations []string) ([]*Source, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sources := make([]*Source, len(locations))
	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for i, loc := range locations {
		wg.Add(1)
		go func(i int, loc string) {
			defer wg.Done()
			data, err := src.Fetch(ctx, loc)
			if err == nil {
				sources[i], err = DecodeWithOptions(data, opts)
				if err != nil {
					err = fmt.Errorf("decoding %s: %w", loc, err)
				}
			}
			if err != nil {
				once.Do(func() {
					firstErr = err
					cancel()
				})
			}
		}(i, loc)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return sources, nil
}
