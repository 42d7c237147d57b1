package slider

// Swipe is the navigation a finished drag maps to.
type Swipe int

const (
	SwipeNone Swipe = iota
	SwipePrev       // dragged right
	SwipeNext       // dragged left
)

// String returns the swipe name.
func (s Swipe) String() string {
	switch s {
	case SwipePrev:
		return "prev"
	case SwipeNext:
		return "next"
	default:
		return "none"
	}
}

// ClassifySwipe maps a net horizontal displacement dx to a navigation. The
// displacement must exceed threshold*width in either direction.
func ClassifySwipe(dx, width, threshold float64) Swipe {
	if width <= 0 {
		return SwipeNone
	}
	limit := threshold * width
	switch {
	case dx > limit:
		return SwipePrev
	case dx < -limit:
		return SwipeNext
	default:
		return SwipeNone
	}
}

type touchTracker struct {
	active bool
	startX float64
	lastX  float64
}

func (t *touchTracker) begin(x float64) {
	t.active = true
	t.startX = x
	t.lastX = x
}

func (t *touchTracker) move(x float64) {
	if t.active {
		t.lastX = x
	}
}

func (t *touchTracker) end() float64 {
	dx := t.lastX - t.startX
	*t = touchTracker{}
	return dx
}
