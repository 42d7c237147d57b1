package slider

import "time"

// State represents the controller's playback state.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a session is open (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// Hold is a reason for keeping playback paused. Playback resumes only once
// every hold has been released.
type Hold uint8

const (
	HoldUser  Hold = 1 << iota // Pause/Resume and the pause key
	HoldHover                  // pointer over the slide region
	HoldTouch                  // drag in progress
)

// PlaybackState is a read-only snapshot of the controller.
type PlaybackState struct {
	Session      uint64
	State        State
	CurrentIndex int
	TotalSlides  int
	IsPaused     bool
	Elapsed      time.Duration
	Duration     time.Duration
}

// Progress returns the active slide's completion in [0, 1].
func (p PlaybackState) Progress() float64 {
	if p.Duration <= 0 || p.TotalSlides == 0 {
		return 0
	}
	return clampFloat(float64(p.Elapsed)/float64(p.Duration), 0, 1)
}

// Remaining returns the time left before the next automatic advance.
func (p PlaybackState) Remaining() time.Duration {
	return p.Duration - p.Elapsed
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampDuration(d, lo, hi time.Duration) time.Duration {
	if d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
