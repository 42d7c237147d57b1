package service

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/folio/internal/domain"
)

// launcher abstracts external player launching (consumer-defined interface)
type launcher interface {
	Launch(url string) error
}

// PlaybackService opens video carousel entries in an external player
type PlaybackService struct {
	launcher launcher
	logger   *slog.Logger
}

// NewPlaybackService creates a new playback service
func NewPlaybackService(launcher launcher, logger *slog.Logger) *PlaybackService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlaybackService{
		launcher: launcher,
		logger:   logger,
	}
}

// Play launches a single video
func (s *PlaybackService) Play(video domain.Video) error {
	if video.ID == "" {
		return fmt.Errorf("video has no id")
	}
	url := video.WatchURL()
	s.logger.Info("launching playback", "title", video.DisplayTitle(), "videoID", video.ID)

	if err := s.launcher.Launch(url); err != nil {
		s.logger.Error("failed to launch player", "error", err, "videoID", video.ID)
		return fmt.Errorf("launch %s: %w", video.DisplayTitle(), err)
	}
	return nil
}

// PlayIndex launches the video at index within a video item
func (s *PlaybackService) PlayIndex(item domain.Item, index int) error {
	if index < 0 || index >= len(item.Videos) {
		return fmt.Errorf("%s: no video at index %d", item.ID, index)
	}
	return s.Play(item.Videos[index])
}
