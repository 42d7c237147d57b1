package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mmcdole/folio/internal/adapter"
	"github.com/mmcdole/folio/internal/catalog"
	"github.com/mmcdole/folio/internal/media"
	"github.com/mmcdole/folio/internal/store"
)

// rootFlags are the persistent flags shared by every command
type rootFlags struct {
	configPath  string
	catalogPath string
}

// env holds what a command needs once config is loaded
type env struct {
	cfg     *adapter.Config
	logger  *slog.Logger
	store   *store.ImageStore
	fetcher *media.Fetcher
	closers []io.Closer
}

// setup loads config, opens the log file and the image cache
func setup(flags *rootFlags, stderr io.Writer) (*env, error) {
	cfg, err := adapter.LoadConfig(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flags.catalogPath != "" {
		cfg.Catalog.Path = flags.catalogPath
	}

	e := &env{cfg: cfg}

	logger, closer, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		e.closers = append(e.closers, closer)
	}
	slog.SetDefault(logger)
	e.logger = logger

	for _, w := range cfg.Validate() {
		logger.Warn("invalid config value", "warning", w)
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}

	imgStore, err := store.NewImageStore(cfg.CacheDir())
	if err != nil {
		// Usually another instance holding the lock
		logger.Warn("image cache unavailable, using memory only", "dir", cfg.CacheDir(), "error", err)
		imgStore = store.NewMemoryImageStore()
	}
	e.store = imgStore
	e.closers = append(e.closers, imgStore)

	e.fetcher = media.NewFetcher(imgStore,
		media.WithTimeout(cfg.Cache.FetchTimeout),
		media.WithLogger(logger),
	)
	return e, nil
}

func (e *env) loadCatalog() (*catalog.Catalog, error) {
	c, err := catalog.Load(e.cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return c, nil
}

// Close releases everything setup opened, newest first
func (e *env) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			e.logger.Warn("close failed", "error", err)
		}
	}
	e.closers = nil
}
