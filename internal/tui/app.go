package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/folio/internal/service"
	"github.com/mmcdole/folio/internal/slider"
	"github.com/mmcdole/folio/internal/tui/components"
	"github.com/mmcdole/folio/internal/tui/render"
	"github.com/mmcdole/folio/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateViewing
	StateHelp
)

// DefaultFrameInterval is how often the slide clock is sampled
const DefaultFrameInterval = 100 * time.Millisecond

// Options configures the model
type Options struct {
	Slider        slider.Config
	FrameInterval time.Duration
	ShowInspector bool
	ImageWidth    int          // caps the slide width in cells; 0 fits the modal
	Clock         slider.Clock // nil uses the system clock
	Logger        *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State      ApplicationState
	Ready      bool
	helpReturn ApplicationState

	// Services
	GallerySvc  *service.GalleryService
	PreloadSvc  *service.PreloadService
	PlaybackSvc *service.PlaybackService

	// UI Components
	Gallery   *components.GalleryColumn
	Inspector components.Inspector
	SlideView components.SlideView
	VideoView components.VideoView

	// Slideshow
	slider        *slider.Controller // nil when it could not be constructed
	loads         *loadQueue
	modal         *modalSession
	renders       *render.Cache
	frameInterval time.Duration
	imageWidth    int

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg     string
	StatusIsErr   bool
	ShowInspector bool

	logger *slog.Logger
}

// NewModel creates a new application model
func NewModel(
	gallerySvc *service.GalleryService,
	preloadSvc *service.PreloadService,
	playbackSvc *service.PlaybackService,
	opts Options,
) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := opts.FrameInterval
	if interval <= 0 {
		interval = DefaultFrameInterval
	}

	loads := &loadQueue{}
	ctrl, err := slider.New(opts.Slider, opts.Clock, loads)
	if err != nil {
		// Items still open, just without a slideshow
		logger.Error("slide controller unavailable", "error", err)
	}

	return Model{
		State:         StateBrowsing,
		GallerySvc:    gallerySvc,
		PreloadSvc:    preloadSvc,
		PlaybackSvc:   playbackSvc,
		Gallery:       components.NewGalleryColumn("Portfolio"),
		Inspector:     components.NewInspector(),
		SlideView:     components.NewSlideView(),
		VideoView:     components.NewVideoView(),
		slider:        ctrl,
		loads:         loads,
		renders:       render.NewCache(render.DefaultCacheEntries, styles.SlateDark),
		frameInterval: interval,
		imageWidth:    opts.ImageWidth,
		ShowInspector: opts.ShowInspector,
		logger:        logger,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return LoadCatalogCmd(m.GallerySvc)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case CatalogLoadedMsg:
		m.Gallery.SetItems(msg.Items)
		m.updateInspector()
		if msg.Reloaded {
			m.StatusMsg = fmt.Sprintf("Catalog reloaded · %d items", len(msg.Items))
			m.StatusIsErr = false
			return m, ClearStatusCmd(3 * time.Second)
		}
		return m, nil

	case FrameMsg:
		return m, m.handleFrame(msg)

	case SlideLoadedMsg:
		return m, m.handleSlideLoaded(msg)

	case VideoLaunchedMsg:
		m.StatusMsg = "Launched: " + msg.Video.DisplayTitle()
		m.StatusIsErr = false
		return m, ClearStatusCmd(3 * time.Second)

	case ErrMsg:
		m.logger.Error("operation failed", "context", msg.Context, "error", msg.Err)
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(5 * time.Second)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(3 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	// Anything else (e.g. textinput blink) goes to the gallery
	var cmd tea.Cmd
	m.Gallery, cmd = m.Gallery.Update(msg)
	return m, cmd
}

// updateInspector points the inspector at the gallery selection
func (m *Model) updateInspector() {
	if m.modal != nil {
		return
	}
	if item, ok := m.Gallery.SelectedItem(); ok {
		m.Inspector.SetItem(&item)
		return
	}
	m.Inspector.SetItem(nil)
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	var content string
	if m.State == StateViewing && m.modal != nil {
		content = m.renderModal()
	} else {
		g := m.calculateGalleryLayout()
		content = m.Gallery.View()
		if g.inspectorWidth > 0 {
			content = lipgloss.JoinHorizontal(lipgloss.Top, content, m.Inspector.View())
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderFooter())
}

func (m Model) renderFooter() string {
	var left string
	if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	}

	// Center section: context-specific hints
	var hints []string
	hint := func(k, desc string) {
		hints = append(hints, styles.AccentStyle.Render(k)+styles.DimStyle.Render(" "+desc))
	}
	switch {
	case m.State == StateViewing && m.modal != nil && m.modal.carousel != nil:
		hint("p", "play")
		hint("h/l", "switch")
	case m.State == StateViewing:
		hint("space", "pause")
		hint("h/l", "slide")
	case m.Gallery.IsFilterTyping():
		hint("enter", "accept")
		hint("esc", "clear")
	default:
		hint("enter", "open")
		hint("/", "filter")
	}
	center := strings.Join(hints, "  ")

	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		// Not enough space - just left + right
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

func (m Model) renderHelp() string {
	help := `
GALLERY                         SLIDESHOW
  j/k        Up/down               h/l    Previous/next slide
  g/G        First/last item       1-9    Jump to slide
  Ctrl+u/d   Scroll half page      g/G    First/last slide
  /          Filter                Space  Pause/resume
  Enter      Open item             j/k    Scroll details
  r          Reload catalog        Esc    Close

MOUSE                           VIDEOS
  Hover      Pause slideshow       h/l    Switch video
  Drag       Swipe slides          p      Play in player
  Wheel      Scroll

OTHER
  i          Toggle details        ?      This help
  q          Quit

Press ? or Esc to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}
