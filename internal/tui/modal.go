package tui

import (
	"image"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/slider"
	"github.com/mmcdole/folio/internal/tui/components"
	"github.com/mmcdole/folio/internal/tui/styles"
)

// loadQueue is the controller's Loader. Requests queue up while the
// controller runs inside Update and are turned into commands afterwards.
type loadQueue struct {
	pending []slider.Request
}

func (q *loadQueue) Load(req slider.Request) {
	q.pending = append(q.pending, req)
}

func (q *loadQueue) drain() []slider.Request {
	reqs := q.pending
	q.pending = nil
	return reqs
}

// modalSession is one open item modal. Everything it acquires is released
// together by close.
type modalSession struct {
	item     domain.Item
	session  uint64 // controller session; 0 when there is no slideshow
	carousel *slider.Carousel[domain.Video]
	images   map[string]image.Image

	// frame loop
	gen     int
	ticking bool

	// pointer state over the image
	hovering bool
	dragging bool

	teardown []func()
}

func newModalSession(item domain.Item) *modalSession {
	return &modalSession{
		item:   item,
		images: make(map[string]image.Image),
	}
}

// acquire registers a release func to run on close
func (s *modalSession) acquire(release func()) {
	s.teardown = append(s.teardown, release)
}

// close releases everything in reverse order. Safe to call twice.
func (s *modalSession) close() {
	for i := len(s.teardown) - 1; i >= 0; i-- {
		s.teardown[i]()
	}
	s.teardown = nil
	s.images = nil
	s.hovering = false
	s.dragging = false
	s.ticking = false
}

func (s *modalSession) isSlideshow() bool {
	return s.session != 0
}

// openItem opens the modal for item and starts its slideshow or carousel
func (m *Model) openItem(item domain.Item) tea.Cmd {
	m.closeModal()

	s := newModalSession(item)
	switch item.Kind() {
	case domain.ItemKindVideo:
		s.carousel = slider.NewCarousel(item.Videos)
	default:
		if m.slider != nil {
			ctrl, loads, renders := m.slider, m.loads, m.renders
			refs := append([]string(nil), item.Images...)

			ctrl.Open(item.Images)
			s.session = ctrl.Session()
			s.acquire(func() { renders.Forget(refs...) })
			s.acquire(func() { loads.drain() })
			s.acquire(ctrl.Close)
		}
	}

	m.modal = s
	m.State = StateViewing
	m.Inspector.SetItem(&s.item)
	m.updateLayout()

	m.logger.Info("opened item", "id", item.ID, "kind", item.Kind().String(), "slides", item.SlideCount())
	return m.afterControl()
}

// closeModal tears down the open modal, if any
func (m *Model) closeModal() {
	if m.modal == nil {
		return
	}
	m.logger.Debug("closed item", "id", m.modal.item.ID)
	m.modal.close()
	m.modal = nil
	m.State = StateBrowsing
	m.updateInspector()
	m.updateLayout()
}

// afterControl turns whatever the controller just did into commands:
// queued image loads and, if needed, a new frame loop.
func (m *Model) afterControl() tea.Cmd {
	return tea.Batch(m.flushLoads(), m.syncFrameLoop())
}

func (m *Model) flushLoads() tea.Cmd {
	reqs := m.loads.drain()
	if len(reqs) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, len(reqs))
	for i, req := range reqs {
		m.logger.Debug("preloading slide", "ref", req.Ref, "index", req.Index, "session", req.Session)
		cmds[i] = LoadSlideCmd(m.PreloadSvc, req)
	}
	return tea.Batch(cmds...)
}

// syncFrameLoop starts a frame loop when the slideshow is playing and none
// is running. Each loop gets a new generation so at most one stays live.
func (m *Model) syncFrameLoop() tea.Cmd {
	s := m.modal
	if s == nil || !s.isSlideshow() || s.ticking {
		return nil
	}
	if m.slider.State() != slider.StatePlaying || m.slider.Len() == 0 {
		return nil
	}
	s.gen++
	s.ticking = true
	return FrameCmd(m.frameInterval, s.session, s.gen)
}

// handleFrame advances the clock. A frame for another session or loop
// generation is dropped; a paused slideshow lets its loop lapse.
func (m *Model) handleFrame(msg FrameMsg) tea.Cmd {
	s := m.modal
	if s == nil || msg.Session != s.session || msg.Gen != s.gen || msg.Session != m.slider.Session() {
		return nil
	}
	s.ticking = false
	if m.slider.Tick() {
		m.logger.Debug("auto-advanced", "index", m.slider.Index())
	}
	return m.afterControl()
}

// handleSlideLoaded settles a finished load and keeps its image for the
// session that requested it.
func (m *Model) handleSlideLoaded(msg SlideLoadedMsg) tea.Cmd {
	if !m.slider.Settle(msg.Result) {
		return nil
	}
	if msg.Result.Err == nil && msg.Image != nil && m.modal != nil && m.modal.session == msg.Result.Session {
		m.modal.images[msg.Result.Ref] = msg.Image
	}
	return m.flushLoads()
}

// updateHover tracks the pointer entering and leaving the image
func (m *Model) updateHover(inside bool) {
	s := m.modal
	switch {
	case inside && !s.hovering:
		s.hovering = true
		m.slider.HoverEnter()
	case !inside && s.hovering:
		s.hovering = false
		m.slider.HoverLeave()
	}
}

func modalFrameSize() (int, int) {
	return styles.ModalStyle.GetFrameSize()
}

// renderModal draws the open item over the whole content area
func (m Model) renderModal() string {
	s := m.modal
	l := m.calculateModalLayout()

	title := styles.ModalTitleStyle.Render(styles.Truncate(s.item.DisplayTitle(), max(l.inner.w-12, 1)))
	closeHint := styles.HelpKeyStyle.Render("esc") + styles.HelpDescStyle.Render(" close")
	gap := max(l.inner.w-lipgloss.Width(title)-lipgloss.Width(closeHint), 1)
	titleLine := title + strings.Repeat(" ", gap) + closeHint

	stage := m.renderStage(l)
	body := stage
	if l.details.w > 0 {
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(l.stage.w).Render(stage),
			" ",
			m.Inspector.View(),
		)
	}

	frameW, frameH := modalFrameSize()
	box := styles.ModalStyle.
		Width(l.box.w - frameW + styles.ModalStyle.GetHorizontalPadding()).
		Height(l.box.h - frameH + styles.ModalStyle.GetVerticalPadding()).
		Render(titleLine + "\n\n" + body)

	return lipgloss.Place(m.Width, max(m.Height-ChromeHeight, 1),
		lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderStage(l modalLayout) string {
	s := m.modal
	if s.carousel != nil {
		return m.VideoView.View(s.carousel, s.item.Meta)
	}
	if m.slider == nil {
		cols, rows := m.SlideView.ImageSize()
		return styles.PlaceholderStyle.
			Width(max(cols-2, 1)).
			Height(max(rows-2, 1)).
			Render("Slideshow unavailable")
	}

	var frame string
	if ref, ok := m.slider.Slide(m.slider.Index()); ok {
		if img := s.images[ref]; img != nil {
			frame = m.renders.Render(ref, img, l.image.w, l.image.h)
		}
	}
	return m.SlideView.View(components.NewSlideFrame(m.slider, frame))
}
