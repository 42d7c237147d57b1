// Package media fetches and decodes slide images.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mmcdole/folio/internal/catalog"
	"github.com/mmcdole/folio/internal/domain"
)

const (
	// MaxImageBytes caps a single download or file read
	MaxImageBytes = 32 << 20

	defaultTimeout = 15 * time.Second
	userAgent      = "folio/1.0"
)

// Cache is the subset of domain.ImageStore the fetcher writes through.
type Cache interface {
	GetImage(ref string) ([]byte, bool)
	SaveImage(ref string, data []byte) error
}

// Fetcher resolves image refs to bytes. Remote refs go over HTTP; anything
// else is read from disk. Concurrent fetches of one ref share a single load.
type Fetcher struct {
	client *http.Client
	cache  Cache
	logger *slog.Logger
	group  singleflight.Group
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.client = &http.Client{Timeout: d}
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher creates a fetcher. cache may be nil.
func NewFetcher(cache Cache, opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: defaultTimeout},
		cache:  cache,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the bytes behind ref, consulting the cache first.
func (f *Fetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if f.cache != nil {
		if data, ok := f.cache.GetImage(ref); ok {
			return data, nil
		}
	}

	// The shared load outlives any one caller; the client timeout bounds it
	flightCtx := context.WithoutCancel(ctx)
	ch := f.group.DoChan(ref, func() (any, error) {
		return f.load(flightCtx, ref)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// Cached reports whether ref is already in the cache.
func (f *Fetcher) Cached(ref string) bool {
	if f.cache == nil {
		return false
	}
	_, ok := f.cache.GetImage(ref)
	return ok
}

func (f *Fetcher) load(ctx context.Context, ref string) ([]byte, error) {
	// A flight that finished between our cache check and DoChan already saved it
	if f.cache != nil {
		if data, ok := f.cache.GetImage(ref); ok {
			return data, nil
		}
	}

	start := time.Now()

	var (
		data []byte
		err  error
	)
	if catalog.IsRemote(ref) {
		data, err = f.fetchRemote(ctx, ref)
	} else {
		data, err = readFile(ref)
	}
	if err != nil {
		f.logger.Debug("image fetch failed", "ref", ref, "error", err)
		return nil, err
	}

	f.logger.Debug("image fetched", "ref", ref, "bytes", len(data), "duration", time.Since(start))

	if f.cache != nil {
		if err := f.cache.SaveImage(ref, data); err != nil {
			f.logger.Warn("failed to cache image", "ref", ref, "error", err)
		}
	}
	return data, nil
}

func (f *Fetcher) fetchRemote(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", domain.ErrImageNotFound, ref)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", ref, resp.StatusCode)
	}

	return readLimited(resp.Body)
}

func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrImageNotFound, path)
		}
		return nil, err
	}
	defer file.Close()
	return readLimited(file)
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", MaxImageBytes)
	}
	return data, nil
}

var _ domain.ImageSource = (*Fetcher)(nil)
