package tui

import (
	"image"

	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/slider"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// CatalogLoadedMsg signals that the gallery items are available
type CatalogLoadedMsg struct {
	Items    []domain.Item
	Reloaded bool
}

// SlideLoadedMsg carries a finished slide image load. Image is nil when
// Result.Err is set.
type SlideLoadedMsg struct {
	Result slider.Result
	Image  image.Image
}

// FrameMsg drives the slide clock. Frames from another session or an
// older loop generation are dropped.
type FrameMsg struct {
	Session uint64
	Gen     int
}

// VideoLaunchedMsg signals that the external player was started
type VideoLaunchedMsg struct {
	Video domain.Video
}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}

// StatusMsg sets a temporary status message
type StatusMsg struct {
	Message string
	IsError bool
}
