package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/service"
	"github.com/mmcdole/folio/internal/slider"
)

// Command factories for async operations

// LoadCatalogCmd reads the current gallery items
func LoadCatalogCmd(svc *service.GalleryService) tea.Cmd {
	return func() tea.Msg {
		return CatalogLoadedMsg{Items: svc.Items()}
	}
}

// ReloadCatalogCmd re-reads the catalog file
func ReloadCatalogCmd(svc *service.GalleryService) tea.Cmd {
	return func() tea.Msg {
		items, err := svc.Reload()
		if err != nil {
			return ErrMsg{Err: err, Context: "reloading catalog"}
		}
		return CatalogLoadedMsg{Items: items, Reloaded: true}
	}
}

// LoadSlideCmd fetches and decodes one slide image. The result is always
// delivered, success or failure, so the controller can settle it.
func LoadSlideCmd(svc *service.PreloadService, req slider.Request) tea.Cmd {
	return func() tea.Msg {
		img, err := svc.Load(context.Background(), req.Ref)
		return SlideLoadedMsg{
			Result: slider.Result{Request: req, Err: err},
			Image:  img,
		}
	}
}

// PlayVideoCmd launches a video in the external player
func PlayVideoCmd(svc *service.PlaybackService, video domain.Video) tea.Cmd {
	return func() tea.Msg {
		if err := svc.Play(video); err != nil {
			return ErrMsg{Err: err, Context: "starting playback"}
		}
		return VideoLaunchedMsg{Video: video}
	}
}

// FrameCmd schedules the next slide clock frame
func FrameCmd(delay time.Duration, session uint64, gen int) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return FrameMsg{Session: session, Gen: gen}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
