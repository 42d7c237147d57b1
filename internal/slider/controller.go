// Package slider implements the modal slide controller: one slide shown at a
// time, auto-advance on a fixed interval, per-slide progress, pause holds,
// swipe navigation and look-ahead preloading.
//
// A Controller is not safe for concurrent use. It is driven from a single
// event loop; image loads complete elsewhere and are handed back via Settle.
package slider

import (
	"errors"
	"time"
)

// ErrNoLoader is returned by New when no image loader is supplied.
var ErrNoLoader = errors.New("slider: image loader is required")

// Default controller settings.
const (
	DefaultDuration       = 10 * time.Second
	DefaultPreloadAhead   = 1
	DefaultSwipeThreshold = 0.15
)

// Config holds the controller settings.
type Config struct {
	Duration       time.Duration // time each slide stays before auto-advance
	PreloadAhead   int           // slides to preload beyond the active one
	SwipeThreshold float64       // fraction of viewport width a swipe must exceed
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		Duration:       DefaultDuration,
		PreloadAhead:   DefaultPreloadAhead,
		SwipeThreshold: DefaultSwipeThreshold,
	}
}

func (c Config) normalized() Config {
	if c.Duration <= 0 {
		c.Duration = DefaultDuration
	}
	if c.PreloadAhead < 0 {
		c.PreloadAhead = 0
	}
	if c.SwipeThreshold <= 0 || c.SwipeThreshold >= 1 {
		c.SwipeThreshold = DefaultSwipeThreshold
	}
	return c
}

// Controller owns the playback and preload state for one modal.
type Controller struct {
	cfg    Config
	clock  Clock
	loader Loader

	session uint64
	state   State
	slides  []string
	index   int
	holds   Hold

	// elapsed = frozen + (now - startedAt) while playing, frozen while paused
	startedAt time.Time
	frozen    time.Duration

	preloaded preloadState
	touch     touchTracker
}

// New creates an idle controller. A nil clock uses the system clock.
func New(cfg Config, clock Clock, loader Loader) (*Controller, error) {
	if loader == nil {
		return nil, ErrNoLoader
	}
	if clock == nil {
		clock = SystemClock()
	}
	return &Controller{
		cfg:       cfg.normalized(),
		clock:     clock,
		loader:    loader,
		preloaded: preloadState{},
	}, nil
}

// Config returns the effective settings.
func (c *Controller) Config() Config {
	if c == nil {
		return DefaultConfig()
	}
	return c.cfg
}

// Open starts a new session over slides. Any previous session is discarded
// and results still in flight for it will be ignored by Settle.
func (c *Controller) Open(slides []string) {
	if c == nil {
		return
	}
	c.session++
	c.slides = append([]string(nil), slides...)
	c.index = 0
	c.holds = 0
	c.frozen = 0
	c.startedAt = c.clock.Now()
	c.preloaded = preloadState{}
	c.touch = touchTracker{}
	c.state = StatePlaying

	if len(c.slides) == 0 {
		return
	}
	c.preload(0)
	c.preloadAhead(0)
}

// Close ends the session and clears all state.
func (c *Controller) Close() {
	if c == nil || c.state == StateIdle {
		return
	}
	c.session++
	c.state = StateIdle
	c.slides = nil
	c.index = 0
	c.holds = 0
	c.frozen = 0
	c.preloaded = preloadState{}
	c.touch = touchTracker{}
}

// Next moves to the following slide, wrapping at the end.
func (c *Controller) Next() {
	if !c.navigable() {
		return
	}
	c.jump((c.index + 1) % len(c.slides))
}

// Prev moves to the previous slide, wrapping at the start.
func (c *Controller) Prev() {
	if !c.navigable() {
		return
	}
	n := len(c.slides)
	c.jump((c.index - 1 + n) % n)
}

// GoTo moves to slide i, clamped into range.
func (c *Controller) GoTo(i int) {
	if !c.navigable() {
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(c.slides) {
		i = len(c.slides) - 1
	}
	c.jump(i)
}

func (c *Controller) navigable() bool {
	return c != nil && c.state.IsActive() && len(c.slides) > 0
}

// jump activates slide i with zero progress. Pause state is kept.
func (c *Controller) jump(i int) {
	c.index = i
	c.resetElapsed()
	c.preload(i)
	c.preloadAhead(i)
}

func (c *Controller) resetElapsed() {
	c.frozen = 0
	c.startedAt = c.clock.Now()
}

// Pause holds playback on behalf of the user.
func (c *Controller) Pause() { c.Hold(HoldUser) }

// Resume releases the user hold.
func (c *Controller) Resume() { c.Release(HoldUser) }

// TogglePause flips the user hold.
func (c *Controller) TogglePause() {
	if c == nil {
		return
	}
	if c.holds&HoldUser != 0 {
		c.Release(HoldUser)
		return
	}
	c.Hold(HoldUser)
}

// Hold adds a pause reason. The first hold freezes elapsed time.
func (c *Controller) Hold(h Hold) {
	if c == nil || !c.state.IsActive() || c.holds&h != 0 {
		return
	}
	c.holds |= h
	if c.state == StatePlaying {
		c.frozen = c.elapsed()
		c.state = StatePaused
	}
}

// Release removes a pause reason. Playback continues from the frozen elapsed
// time once no holds remain.
func (c *Controller) Release(h Hold) {
	if c == nil || !c.state.IsActive() || c.holds&h == 0 {
		return
	}
	c.holds &^= h
	if c.holds == 0 && c.state == StatePaused {
		c.startedAt = c.clock.Now()
		c.state = StatePlaying
	}
}

// HoverEnter pauses while the pointer is over the slide region.
func (c *Controller) HoverEnter() { c.Hold(HoldHover) }

// HoverLeave releases the hover pause.
func (c *Controller) HoverLeave() { c.Release(HoldHover) }

// TouchStart begins a drag at x and pauses playback.
func (c *Controller) TouchStart(x float64) {
	if c == nil || !c.state.IsActive() {
		return
	}
	c.touch.begin(x)
	c.Hold(HoldTouch)
}

// TouchMove records the drag position.
func (c *Controller) TouchMove(x float64) {
	if c == nil {
		return
	}
	c.touch.move(x)
}

// TouchEnd finishes a drag. A horizontal displacement beyond the swipe
// threshold of viewportWidth navigates; anything shorter keeps the current
// progress. Playback resumes either way unless another hold remains.
func (c *Controller) TouchEnd(viewportWidth float64) Swipe {
	if c == nil || !c.touch.active {
		return SwipeNone
	}
	dx := c.touch.end()
	swipe := ClassifySwipe(dx, viewportWidth, c.cfg.SwipeThreshold)
	switch swipe {
	case SwipePrev:
		c.Prev()
	case SwipeNext:
		c.Next()
	}
	c.Release(HoldTouch)
	return swipe
}

// Tick samples the clock. It advances to the next slide when the active
// slide's time is up and reports whether it did so. At most one slide is
// advanced per call.
func (c *Controller) Tick() bool {
	if c == nil || c.state != StatePlaying || len(c.slides) == 0 {
		return false
	}
	if c.elapsed() < c.cfg.Duration {
		return false
	}
	c.jump((c.index + 1) % len(c.slides))
	return true
}

// Settle applies a finished load. Results for another session, or for a ref
// that is no longer pending, are ignored. It reports whether the result was
// applied. Success or failure, the look-ahead from res.Index is preloaded.
func (c *Controller) Settle(res Result) bool {
	if c == nil || !c.state.IsActive() || res.Session != c.session {
		return false
	}
	if c.preloaded.status(res.Ref) != StatusPending {
		return false
	}
	c.preloaded.settle(res.Ref, res.Err)
	if res.Index >= 0 && res.Index < len(c.slides) {
		c.preloadAhead(res.Index)
	}
	return true
}

func (c *Controller) preload(i int) {
	ref := c.slides[i]
	if !c.preloaded.begin(ref) {
		return
	}
	c.loader.Load(Request{Session: c.session, Index: i, Ref: ref})
}

func (c *Controller) preloadAhead(from int) {
	n := len(c.slides)
	for k := 1; k <= c.cfg.PreloadAhead && k < n; k++ {
		c.preload((from + k) % n)
	}
}

func (c *Controller) elapsed() time.Duration {
	e := c.frozen
	if c.state == StatePlaying {
		e += c.clock.Now().Sub(c.startedAt)
	}
	return clampDuration(e, 0, c.cfg.Duration)
}

// Session returns the current session id. It changes on every Open and Close.
func (c *Controller) Session() uint64 {
	if c == nil {
		return 0
	}
	return c.session
}

// State returns the playback state.
func (c *Controller) State() State {
	if c == nil {
		return StateIdle
	}
	return c.state
}

// Holds returns the active pause reasons.
func (c *Controller) Holds() Hold {
	if c == nil {
		return 0
	}
	return c.holds
}

// Index returns the active slide index.
func (c *Controller) Index() int {
	if c == nil {
		return 0
	}
	return c.index
}

// Len returns the number of slides in the session.
func (c *Controller) Len() int {
	if c == nil {
		return 0
	}
	return len(c.slides)
}

// Slide returns the ref at i.
func (c *Controller) Slide(i int) (string, bool) {
	if c == nil || i < 0 || i >= len(c.slides) {
		return "", false
	}
	return c.slides[i], true
}

// Status returns the preload status of slide i.
func (c *Controller) Status(i int) Status {
	ref, ok := c.Slide(i)
	if !ok {
		return StatusNone
	}
	return c.preloaded.status(ref)
}

// Progress returns the fill of slide i's indicator: 1 for passed slides, 0
// for upcoming ones, and the elapsed fraction for the active slide.
func (c *Controller) Progress(i int) float64 {
	if c == nil || i < 0 || i >= len(c.slides) {
		return 0
	}
	switch {
	case i < c.index:
		return 1
	case i > c.index:
		return 0
	}
	return clampFloat(float64(c.elapsed())/float64(c.cfg.Duration), 0, 1)
}

// Snapshot returns a copy of the playback state.
func (c *Controller) Snapshot() PlaybackState {
	if c == nil {
		return PlaybackState{Duration: DefaultDuration}
	}
	return PlaybackState{
		Session:      c.session,
		State:        c.state,
		CurrentIndex: c.index,
		TotalSlides:  len(c.slides),
		IsPaused:     c.state == StatePaused,
		Elapsed:      c.elapsed(),
		Duration:     c.cfg.Duration,
	}
}
