package service

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/folio/internal/domain"
)

// CatalogLoader loads (or reloads) the portfolio catalog
type CatalogLoader func() (domain.Catalog, error)

// GalleryService serves gallery items from the current catalog
type GalleryService struct {
	load   CatalogLoader
	logger *slog.Logger

	mu      sync.RWMutex
	catalog domain.Catalog
}

// NewGalleryService creates a gallery service over an already loaded catalog.
// load is used by Reload and may be nil.
func NewGalleryService(catalog domain.Catalog, load CatalogLoader, logger *slog.Logger) *GalleryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &GalleryService{
		load:    load,
		logger:  logger,
		catalog: catalog,
	}
}

// Items returns all gallery items in catalog order
func (s *GalleryService) Items() []domain.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.catalog == nil {
		return nil
	}
	return s.catalog.Items()
}

// Get returns one item by ID
func (s *GalleryService) Get(id string) (domain.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.catalog == nil {
		return domain.Item{}, fmt.Errorf("%w: %s", domain.ErrItemNotFound, id)
	}
	return s.catalog.Get(id)
}

// ImageRefs returns every image ref in the catalog
func (s *GalleryService) ImageRefs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.catalog == nil {
		return nil
	}
	return s.catalog.ImageRefs()
}

// Reload re-reads the catalog. On failure the previous catalog is kept.
func (s *GalleryService) Reload() ([]domain.Item, error) {
	if s.load == nil {
		return s.Items(), nil
	}

	catalog, err := s.load()
	if err != nil {
		s.logger.Error("failed to reload catalog", "error", err)
		return nil, err
	}

	s.mu.Lock()
	s.catalog = catalog
	s.mu.Unlock()

	items := catalog.Items()
	s.logger.Info("reloaded catalog", "count", len(items))
	return items, nil
}
