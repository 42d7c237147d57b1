package service

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/folio/internal/domain"
)

const defaultWarmJobs = 4

// fetcher abstracts the cache-through image source (consumer-defined interface)
type fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
	Cached(ref string) bool
}

// WarmProgress reports one finished ref during a warm run
type WarmProgress struct {
	Ref    string
	Done   int
	Total  int
	Bytes  int
	Cached bool // already present before this run
	Err    error
}

// WarmReport summarizes a warm run
type WarmReport struct {
	Total   int
	Fetched int
	Cached  int
	Failed  map[string]error
	Bytes   int64
}

// CacheService manages the image cache
type CacheService struct {
	store   domain.ImageStore
	fetcher fetcher
	logger  *slog.Logger
}

// NewCacheService creates a cache service
func NewCacheService(store domain.ImageStore, fetcher fetcher, logger *slog.Logger) *CacheService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CacheService{
		store:   store,
		fetcher: fetcher,
		logger:  logger,
	}
}

// Stats returns the cached image count and total bytes
func (s *CacheService) Stats() (int, int64) {
	return s.store.Stats()
}

// Clear removes every cached image
func (s *CacheService) Clear() {
	count, size := s.store.Stats()
	s.store.InvalidateAll()
	s.logger.Info("cleared image cache", "count", count, "bytes", size)
}

// Warm fetches refs into the cache using up to jobs concurrent fetches.
// Individual failures are collected in the report; only cancellation aborts.
// onProgress may be nil and is never called concurrently.
func (s *CacheService) Warm(ctx context.Context, refs []string, jobs int, onProgress func(WarmProgress)) (WarmReport, error) {
	if jobs <= 0 {
		jobs = defaultWarmJobs
	}

	report := WarmReport{Total: len(refs), Failed: make(map[string]error)}
	var mu sync.Mutex

	finish := func(p WarmProgress) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case p.Err != nil:
			report.Failed[p.Ref] = p.Err
		case p.Cached:
			report.Cached++
		default:
			report.Fetched++
			report.Bytes += int64(p.Bytes)
		}
		p.Done = report.Cached + report.Fetched + len(report.Failed)
		p.Total = report.Total
		if onProgress != nil {
			onProgress(p)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for _, ref := range refs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if s.fetcher.Cached(ref) {
				finish(WarmProgress{Ref: ref, Cached: true})
				return nil
			}
			data, err := s.fetcher.Fetch(gctx, ref)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Warn("warm fetch failed", "ref", ref, "error", err)
			}
			finish(WarmProgress{Ref: ref, Bytes: len(data), Err: err})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	s.logger.Info("cache warm complete",
		"total", report.Total, "fetched", report.Fetched, "cached", report.Cached, "failed", len(report.Failed))
	return report, nil
}
