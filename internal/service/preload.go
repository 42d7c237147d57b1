package service

import (
	"context"
	"image"
	"log/slog"
	"time"

	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/media"
)

// PreloadService fetches and decodes slide images for the viewer
type PreloadService struct {
	source  domain.ImageSource
	timeout time.Duration
	logger  *slog.Logger
}

// NewPreloadService creates a preload service. A zero timeout means none.
func NewPreloadService(source domain.ImageSource, timeout time.Duration, logger *slog.Logger) *PreloadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PreloadService{
		source:  source,
		timeout: timeout,
		logger:  logger,
	}
}

// Load fetches and decodes one image
func (s *PreloadService) Load(ctx context.Context, ref string) (image.Image, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	img, err := media.LoadImage(ctx, s.source, ref)
	if err != nil {
		s.logger.Warn("slide image failed to load", "ref", ref, "error", err)
		return nil, err
	}

	b := img.Bounds()
	s.logger.Debug("slide image loaded", "ref", ref, "width", b.Dx(), "height", b.Dy())
	return img, nil
}
