package tui

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/folio/internal/adapter"
	"github.com/mmcdole/folio/internal/catalog"
	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/service"
	"github.com/mmcdole/folio/internal/slider"
)

const testCatalog = `
items:
  - id: item-a
    title: Alpha Render
    subtitle: 3D Animation Project
    images: [a1.png, a2.png, missing.png]
    tools:
      - name: Blender
  - id: item-v
    title: Roblox Dances
    videos:
      - id: v1
        title: One
      - id: v2
        title: Two
`

type manualClock struct{ now time.Time }

func (c *manualClock) Now() time.Time          { return c.now }
func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type mapSource map[string][]byte

func (s mapSource) Fetch(_ context.Context, ref string) ([]byte, error) {
	data, ok := s[ref]
	if !ok {
		return nil, domain.ErrImageNotFound
	}
	return data, nil
}

type fakeLauncher struct{ urls []string }

func (f *fakeLauncher) Launch(url string) error {
	f.urls = append(f.urls, url)
	return nil
}

func encodePNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type harness struct {
	m        Model
	clock    *manualClock
	launcher *fakeLauncher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	c, err := catalog.Parse([]byte(testCatalog), "")
	require.NoError(t, err)

	logger := adapter.NullLogger()
	data := encodePNG(t)
	h := &harness{
		clock:    &manualClock{now: time.Unix(1_700_000_000, 0)},
		launcher: &fakeLauncher{},
	}
	h.m = NewModel(
		service.NewGalleryService(c, nil, logger),
		service.NewPreloadService(mapSource{"a1.png": data, "a2.png": data}, 0, logger),
		service.NewPlaybackService(h.launcher, logger),
		Options{
			Slider:        slider.Config{Duration: time.Second, PreloadAhead: 1, SwipeThreshold: 0.15},
			FrameInterval: time.Millisecond,
			ShowInspector: true,
			Clock:         h.clock,
			Logger:        logger,
		},
	)
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	h.send(h.m.Init()())
	return h
}

func (h *harness) send(msg tea.Msg) tea.Cmd {
	next, cmd := h.m.Update(msg)
	h.m = next.(Model)
	return cmd
}

func (h *harness) key(k string) tea.Cmd {
	switch k {
	case "enter":
		return h.send(tea.KeyMsg{Type: tea.KeyEnter})
	case "esc":
		return h.send(tea.KeyMsg{Type: tea.KeyEscape})
	case " ":
		return h.send(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	}
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
}

// pump runs cmd, feeding image loads back into the model until none are
// left, and returns every other message produced.
func (h *harness) pump(cmd tea.Cmd) []tea.Msg {
	var rest []tea.Msg
	queue := collect(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		if _, ok := msg.(SlideLoadedMsg); ok {
			queue = append(queue, collect(h.send(msg))...)
			continue
		}
		rest = append(rest, msg)
	}
	return rest
}

// collect executes cmd and flattens batches. Commands that do not finish
// quickly (status timers) are dropped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(200 * time.Millisecond):
		return nil
	}
}

func frames(msgs []tea.Msg) []FrameMsg {
	var out []FrameMsg
	for _, msg := range msgs {
		if f, ok := msg.(FrameMsg); ok {
			out = append(out, f)
		}
	}
	return out
}

// openAlpha opens the image item and settles its preloads
func (h *harness) openAlpha(t *testing.T) FrameMsg {
	t.Helper()
	rest := h.pump(h.key("enter"))
	require.Equal(t, StateViewing, h.m.State)
	fs := frames(rest)
	require.Len(t, fs, 1)
	return fs[0]
}

func TestOpenImageItem_PreloadsAndPlays(t *testing.T) {
	h := newHarness(t)
	frame := h.openAlpha(t)

	assert.Equal(t, slider.StatePlaying, h.m.slider.State())
	assert.Equal(t, h.m.slider.Session(), frame.Session)
	assert.Equal(t, 3, h.m.slider.Len())

	// Look-ahead walks the whole ring: two loads succeed, one fails
	assert.Equal(t, slider.StatusLoaded, h.m.slider.Status(0))
	assert.Equal(t, slider.StatusLoaded, h.m.slider.Status(1))
	assert.Equal(t, slider.StatusFailed, h.m.slider.Status(2))
	assert.Len(t, h.m.modal.images, 2)
	assert.Empty(t, h.m.loads.pending)
}

func TestFrameLoop_AdvancesOnceAndDropsStaleFrames(t *testing.T) {
	h := newHarness(t)
	frame := h.openAlpha(t)

	h.clock.Advance(500 * time.Millisecond)
	next := frames(h.pump(h.send(frame)))
	require.Len(t, next, 1)
	assert.Equal(t, 0, h.m.slider.Index())

	h.clock.Advance(600 * time.Millisecond)
	after := frames(h.pump(h.send(next[0])))
	require.Len(t, after, 1)
	assert.Equal(t, 1, h.m.slider.Index())

	// The old generation is ignored
	assert.Nil(t, h.send(frame))
	assert.Nil(t, h.send(next[0]))
	assert.Equal(t, 1, h.m.slider.Index())
}

func TestPause_LetsFrameLoopLapse(t *testing.T) {
	h := newHarness(t)
	frame := h.openAlpha(t)

	h.key(" ")
	assert.Equal(t, slider.StatePaused, h.m.slider.State())
	assert.Equal(t, "Paused", h.m.StatusMsg)

	h.clock.Advance(5 * time.Second)
	assert.Empty(t, frames(h.pump(h.send(frame))))
	assert.Equal(t, 0, h.m.slider.Index(), "no advance while paused")

	resumed := frames(h.pump(h.key(" ")))
	require.Len(t, resumed, 1)
	assert.Equal(t, slider.StatePlaying, h.m.slider.State())
	assert.Greater(t, resumed[0].Gen, frame.Gen)
}

func TestModalKeys_Navigate(t *testing.T) {
	h := newHarness(t)
	h.openAlpha(t)

	h.pump(h.key("l"))
	assert.Equal(t, 1, h.m.slider.Index())

	h.pump(h.key("3"))
	assert.Equal(t, 2, h.m.slider.Index())

	h.pump(h.key("9"))
	assert.Equal(t, 2, h.m.slider.Index(), "slot clamps to the last slide")

	h.pump(h.key("l"))
	assert.Equal(t, 0, h.m.slider.Index(), "wraps forward")

	h.pump(h.key("h"))
	assert.Equal(t, 2, h.m.slider.Index(), "wraps backward")

	h.pump(h.key("g"))
	assert.Equal(t, 0, h.m.slider.Index())
}

func TestEscape_ClosesModalAndIgnoresLateLoads(t *testing.T) {
	h := newHarness(t)
	frame := h.openAlpha(t)
	session := h.m.slider.Session()

	h.key("esc")
	assert.Equal(t, StateBrowsing, h.m.State)
	assert.Nil(t, h.m.modal)
	assert.Equal(t, slider.StateIdle, h.m.slider.State())

	late := SlideLoadedMsg{Result: slider.Result{Request: slider.Request{Session: session, Index: 0, Ref: "a1.png"}}}
	assert.Nil(t, h.send(late))
	assert.Nil(t, h.send(frame))
}

func TestReopen_StartsNewSession(t *testing.T) {
	h := newHarness(t)
	first := h.openAlpha(t)
	h.key("esc")
	second := h.openAlpha(t)

	assert.NotEqual(t, first.Session, second.Session)
	assert.Nil(t, h.send(first), "frame from the closed session")
}

func TestMouse_HoverPausesAndResumes(t *testing.T) {
	h := newHarness(t)
	frame := h.openAlpha(t)
	l := h.m.calculateModalLayout()
	cx, cy := l.image.x+l.image.w/2, l.image.y+l.image.h/2

	h.pump(h.send(tea.MouseMsg{X: cx, Y: cy, Action: tea.MouseActionMotion}))
	assert.Equal(t, slider.StatePaused, h.m.slider.State())
	assert.Equal(t, slider.HoldHover, h.m.slider.Holds())

	// The in-flight frame lands while paused and the loop lapses
	h.clock.Advance(2 * time.Second)
	assert.Empty(t, frames(h.pump(h.send(frame))))
	assert.Equal(t, 0, h.m.slider.Index())

	resumed := frames(h.pump(h.send(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})))
	assert.Equal(t, slider.StatePlaying, h.m.slider.State())
	assert.Len(t, resumed, 1)
}

func TestPause_StatusReflectsRemainingHover(t *testing.T) {
	h := newHarness(t)
	h.openAlpha(t)
	l := h.m.calculateModalLayout()
	h.pump(h.send(tea.MouseMsg{X: l.image.x + 1, Y: l.image.y + 1, Action: tea.MouseActionMotion}))

	h.pump(h.key(" "))
	assert.Equal(t, "Paused", h.m.StatusMsg)

	// Releasing the user pause leaves the hover holding playback
	h.pump(h.key(" "))
	assert.Equal(t, slider.HoldHover, h.m.slider.Holds())
	assert.Equal(t, slider.StatePaused, h.m.slider.State())
	assert.Equal(t, "Paused", h.m.StatusMsg)
}

func TestMouse_DragSwipes(t *testing.T) {
	h := newHarness(t)
	h.openAlpha(t)
	l := h.m.calculateModalLayout()
	y := l.image.y + 1
	start := l.image.x + l.image.w*3/4
	dx := l.image.w / 5 // 20% of the image width

	h.pump(h.send(tea.MouseMsg{X: start, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}))
	assert.NotZero(t, h.m.slider.Holds()&slider.HoldTouch)

	h.pump(h.send(tea.MouseMsg{X: start - dx/2, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}))
	h.pump(h.send(tea.MouseMsg{X: start - dx, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}))
	assert.Equal(t, 1, h.m.slider.Index(), "leftward swipe goes to the next slide")
	assert.Zero(t, h.m.slider.Holds()&slider.HoldTouch)
}

func TestMouse_ShortDragKeepsProgress(t *testing.T) {
	h := newHarness(t)
	h.openAlpha(t)
	l := h.m.calculateModalLayout()
	y := l.image.y + 1
	start := l.image.x + l.image.w/2

	h.clock.Advance(300 * time.Millisecond)
	h.pump(h.send(tea.MouseMsg{X: start, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}))
	h.clock.Advance(time.Second)
	h.pump(h.send(tea.MouseMsg{X: start + 2, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}))

	assert.Equal(t, 0, h.m.slider.Index())
	assert.Equal(t, 300*time.Millisecond, h.m.slider.Snapshot().Elapsed)

	// Still hovering over the image; leaving resumes
	h.pump(h.send(tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion}))
	assert.Equal(t, slider.StatePlaying, h.m.slider.State())
}

func leftClick(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func TestMouse_ClickProgressBarJumpsToSlide(t *testing.T) {
	h := newHarness(t)
	h.openAlpha(t)
	l := h.m.calculateModalLayout()
	require.Equal(t, l.image.y+l.image.h+1, l.progress.y)

	rows := strings.Split(h.m.View(), "\n")
	require.Greater(t, len(rows), l.progress.y)
	assert.Contains(t, rows[l.progress.y], "─", "bars are drawn on the progress row")

	segment := (l.progress.w - 2) / 3
	require.GreaterOrEqual(t, segment, 2)

	h.clock.Advance(400 * time.Millisecond)
	h.pump(h.send(leftClick(l.progress.x+2*(segment+1)+1, l.progress.y)))
	assert.Equal(t, 2, h.m.slider.Index())
	assert.Zero(t, h.m.slider.Snapshot().Elapsed)
	assert.Equal(t, slider.StatePlaying, h.m.slider.State())

	// The gap between bars is not a target
	h.pump(h.send(leftClick(l.progress.x+segment, l.progress.y)))
	assert.Equal(t, 2, h.m.slider.Index())

	h.pump(h.send(leftClick(l.progress.x, l.progress.y)))
	assert.Equal(t, 0, h.m.slider.Index())
}

// tabCell finds where label is drawn in the video view, relative to the stage
func tabCell(t *testing.T, h *harness, label string) (int, int) {
	t.Helper()
	view := h.m.VideoView.View(h.m.modal.carousel, h.m.modal.item.Meta)
	for row, line := range strings.Split(view, "\n") {
		if c := strings.Index(line, label); c >= 0 {
			return lipgloss.Width(line[:c]), row
		}
	}
	t.Fatalf("%q not drawn", label)
	return 0, 0
}

func TestMouse_ClickVideoTabSwitches(t *testing.T) {
	h := newHarness(t)
	h.key("j")
	h.pump(h.key("enter"))
	require.NotNil(t, h.m.modal.carousel)
	l := h.m.calculateModalLayout()

	x, y := tabCell(t, h, "2 Two")
	h.send(leftClick(l.stage.x+x, l.stage.y+y))
	assert.Equal(t, 1, h.m.modal.carousel.Index())

	x, y = tabCell(t, h, "1 One")
	h.send(leftClick(l.stage.x+x, l.stage.y+y))
	assert.Equal(t, 0, h.m.modal.carousel.Index())

	// Clicks off the tab row do nothing
	h.send(leftClick(l.stage.x+x, l.stage.y))
	assert.Equal(t, 0, h.m.modal.carousel.Index())
}

func TestVideoItem_CarouselAndPlay(t *testing.T) {
	h := newHarness(t)
	h.key("j")
	rest := h.pump(h.key("enter"))
	require.Equal(t, StateViewing, h.m.State)
	require.NotNil(t, h.m.modal.carousel)
	assert.Empty(t, frames(rest), "videos never auto-advance")
	assert.Equal(t, slider.StateIdle, h.m.slider.State())

	h.key("l")
	assert.Equal(t, 1, h.m.modal.carousel.Index())

	msgs := collect(h.key("p"))
	require.Len(t, msgs, 1)
	launched, ok := msgs[0].(VideoLaunchedMsg)
	require.True(t, ok)
	assert.Equal(t, "v2", launched.Video.ID)
	assert.Equal(t, []string{"https://www.youtube.com/watch?v=v2"}, h.launcher.urls)

	h.send(launched)
	assert.Equal(t, "Launched: Two", h.m.StatusMsg)
}

func TestGallery_ClickSelectsThenOpens(t *testing.T) {
	h := newHarness(t)

	// Second row: border, title, indicator, row 0, row 1
	h.send(tea.MouseMsg{X: 2, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	item, ok := h.m.Gallery.SelectedItem()
	require.True(t, ok)
	assert.Equal(t, "item-v", item.ID)
	assert.Equal(t, StateBrowsing, h.m.State)

	h.send(tea.MouseMsg{X: 2, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, StateViewing, h.m.State)
}

func TestReloadCatalog(t *testing.T) {
	h := newHarness(t)
	msgs := collect(h.key("r"))
	require.Len(t, msgs, 1)
	loaded, ok := msgs[0].(CatalogLoadedMsg)
	require.True(t, ok)
	assert.True(t, loaded.Reloaded)

	h.send(loaded)
	assert.Contains(t, h.m.StatusMsg, "2 items")
}

func TestErrMsg_SetsErrorStatus(t *testing.T) {
	h := newHarness(t)
	h.send(ErrMsg{Err: domain.ErrImageNotFound, Context: "loading"})
	assert.True(t, h.m.StatusIsErr)
	assert.Equal(t, "loading: "+domain.ErrImageNotFound.Error(), h.m.StatusMsg)

	h.send(ClearStatusMsg{})
	assert.Empty(t, h.m.StatusMsg)
}

func TestView(t *testing.T) {
	h := newHarness(t)
	assert.Contains(t, h.m.View(), "Alpha Render")
	assert.Contains(t, h.m.View(), "Blender")

	h.openAlpha(t)
	view := h.m.View()
	assert.Contains(t, view, "1 / 3")
	assert.Contains(t, view, "esc")

	h.key("3")
	assert.Contains(t, h.m.View(), "Image unavailable")

	h.key("?")
	assert.Equal(t, StateHelp, h.m.State)
	assert.Contains(t, h.m.View(), "SLIDESHOW")
	h.key("?")
	assert.Equal(t, StateViewing, h.m.State)
}

func TestMissingController_OpensWithoutSlideshow(t *testing.T) {
	h := newHarness(t)
	h.m.slider = nil

	rest := h.pump(h.key("enter"))
	assert.Equal(t, StateViewing, h.m.State)
	assert.Empty(t, rest)
	assert.Contains(t, h.m.View(), "Slideshow unavailable")

	h.key("l")
	h.key(" ")
	h.key("esc")
	assert.Equal(t, StateBrowsing, h.m.State)
}

func TestModalLayout_ImageWidthCapsStage(t *testing.T) {
	h := newHarness(t)
	full := h.m.calculateModalLayout()

	h.m.imageWidth = 30
	l := h.m.calculateModalLayout()
	assert.Equal(t, 30, l.stage.w)
	assert.Equal(t, 30, l.image.w)
	assert.Equal(t, l.inner.x+31, l.details.x)
	assert.Equal(t, full.details.w, l.details.w)

	h.m.imageWidth = 500
	assert.Equal(t, full.stage.w, h.m.calculateModalLayout().stage.w)
}
