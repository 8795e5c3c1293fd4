package fitsview

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/valyala/fasthttp"
)

// ByteSource delivers the raw bytes of a FITS file.
type ByteSource interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// FileSource reads local files. Names ending in .zst are zstd-decompressed.
type FileSource struct{}

var zstdDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
	return zstd.NewReader(nil)
})

func (FileSource) Fetch(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".zst") {
		return data, nil
	}
	dec, err := zstdDecoder()
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decompressing %s: %w", ErrFetch, path, err)
	}
	return out, nil
}

// HTTPSource fetches files with GET requests.
type HTTPSource struct {
	Client *fasthttp.Client
}

const httpTimeout = 30 * time.Second

func NewHTTPSource() *HTTPSource {
	return &HTTPSource{Client: &fasthttp.Client{
		ReadTimeout:  httpTimeout,
		WriteTimeout: httpTimeout,
	}}
}

// client returns s.Client, falling back to one with the default timeouts.
func (s *HTTPSource) client() *fasthttp.Client {
	if s.Client != nil {
		return s.Client
	}
	return NewHTTPSource().Client
}

type fetchResult struct {
	body []byte
	err  error
}

// Fetch honours the context deadline and returns as soon as ctx is done;
// the abandoned request finishes in the background and is discarded.
func (s *HTTPSource) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	client := s.client()

	done := make(chan fetchResult, 1)
	go func() {
		req := fasthttp.AcquireRequest()
		resp := fasthttp.AcquireResponse()
		defer fasthttp.ReleaseRequest(req)
		defer fasthttp.ReleaseResponse(resp)

		req.SetRequestURI(url)
		req.Header.SetMethod(fasthttp.MethodGet)
		req.Header.Set("Accept", "application/octet-stream")

		var err error
		if deadline, ok := ctx.Deadline(); ok {
			err = client.DoDeadline(req, resp, deadline)
		} else {
			err = client.Do(req, resp)
		}
		if err != nil {
			done <- fetchResult{err: fmt.Errorf("%w: GET %s: %w", ErrFetch, url, err)}
			return
		}
		if code := resp.StatusCode(); code < 200 || code > 299 {
			done <- fetchResult{err: fmt.Errorf("%w: GET %s: HTTP %d", ErrFetch, url, code)}
			return
		}
		// resp is recycled on return, so its body must be copied out.
		done <- fetchResult{body: append([]byte(nil), resp.Body()...)}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.body, r.err
	}
}

// AutoSource sends http:// and https:// locations to HTTP and everything
// else to the file system.
type AutoSource struct {
	HTTP *HTTPSource
	File FileSource
}

func NewAutoSource() *AutoSource {
	return &AutoSource{HTTP: NewHTTPSource()}
}

func (s *AutoSource) Fetch(ctx context.Context, location string) ([]byte, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return s.HTTP.Fetch(ctx, location)
	}
	return s.File.Fetch(ctx, location)
}
