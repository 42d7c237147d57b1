package components

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/folio/internal/slider"
	"github.com/mmcdole/folio/internal/tui/styles"
)

// slideChromeLines is the space under the image: blank, progress bars, status
const slideChromeLines = 3

// SlideFrame is one frame of the slide viewer
type SlideFrame struct {
	Ref       string
	Image     string // rendered image; empty until loaded
	Status    slider.Status
	Index     int
	Total     int
	Progress  []float64 // per slide, 0..1
	State     slider.State
	Holds     slider.Hold
	Remaining time.Duration
}

// NewSlideFrame samples the controller for the active slide
func NewSlideFrame(c *slider.Controller, image string) SlideFrame {
	snap := c.Snapshot()
	f := SlideFrame{
		Image:     image,
		Index:     snap.CurrentIndex,
		Total:     snap.TotalSlides,
		State:     snap.State,
		Holds:     c.Holds(),
		Remaining: snap.Remaining(),
		Progress:  make([]float64, snap.TotalSlides),
	}
	f.Ref, _ = c.Slide(snap.CurrentIndex)
	f.Status = c.Status(snap.CurrentIndex)
	for i := range f.Progress {
		f.Progress[i] = c.Progress(i)
	}
	return f
}

// SlideView draws the active slide with per-slide progress bars
type SlideView struct {
	width  int
	height int
}

// NewSlideView creates a slide view
func NewSlideView() SlideView {
	return SlideView{}
}

// SetSize sets the full area including the progress and status lines
func (v *SlideView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// ImageSize returns the cell box available to the image
func (v SlideView) ImageSize() (int, int) {
	return max(v.width, 1), max(v.height-slideChromeLines, 1)
}

// ProgressRow is the line of the progress bars, counted from the top of the view
func (v SlideView) ProgressRow() int {
	_, rows := v.ImageSize()
	return rows + 1
}

// View renders one frame
func (v SlideView) View(f SlideFrame) string {
	cols, rows := v.ImageSize()

	var image string
	switch {
	case f.Total == 0:
		image = placeholder("No images", cols, rows)
	case f.Image != "":
		image = f.Image
	case f.Status == slider.StatusFailed:
		image = placeholder("Image unavailable\n"+path.Base(f.Ref), cols, rows)
	default:
		image = placeholder("Loading...", cols, rows)
	}

	return strings.Join([]string{
		image,
		"",
		renderSlideProgress(f.Progress, cols),
		renderSlideStatus(f, cols),
	}, "\n")
}

func placeholder(text string, cols, rows int) string {
	frameW, frameH := styles.PlaceholderStyle.GetFrameSize()
	return styles.PlaceholderStyle.
		Width(max(cols-frameW, 1)).
		Height(max(rows-frameH, 1)).
		Render(text)
}

// renderSlideProgress draws one bar per slide separated by a space. When
// the bars would be too narrow it falls back to a single bar for the
// active slide.
func renderSlideProgress(progress []float64, width int) string {
	n := len(progress)
	if n == 0 {
		return ""
	}

	segment := progressSegment(n, width)
	if segment < 2 {
		for _, p := range progress {
			if p > 0 && p < 1 {
				return styles.RenderProgressBar(p*100, width)
			}
		}
		return styles.RenderProgressBar(0, width)
	}

	bars := make([]string, n)
	for i, p := range progress {
		bars[i] = styles.RenderProgressBar(p*100, segment)
	}
	return strings.Join(bars, " ")
}

// progressSegment is the width of one bar when n bars share width
func progressSegment(n, width int) int {
	return (width - (n - 1)) / n
}

// ProgressSegmentAt maps column x of a progress row of the given width to
// the slide whose bar is drawn there. Gaps and the single collapsed bar
// map to nothing.
func ProgressSegmentAt(x, n, width int) (int, bool) {
	if n == 0 || x < 0 || x >= width {
		return 0, false
	}
	segment := progressSegment(n, width)
	if segment < 2 {
		return 0, false
	}
	i, offset := x/(segment+1), x%(segment+1)
	if i >= n || offset == segment {
		return 0, false
	}
	return i, true
}

func renderSlideStatus(f SlideFrame, width int) string {
	if f.Total == 0 {
		return ""
	}

	icon := "▶"
	if f.State == slider.StatePaused {
		icon = "⏸"
	}
	left := styles.AccentStyle.Render(icon) + " " +
		styles.TitleStyle.Render(fmt.Sprintf("%d / %d", f.Index+1, f.Total))

	var right string
	switch {
	case f.State == slider.StatePaused:
		right = styles.DimStyle.Render(holdLabel(f.Holds))
	case f.Remaining > 0:
		secs := int((f.Remaining + time.Second - 1) / time.Second)
		right = styles.DimStyle.Render(fmt.Sprintf("next in %ds", secs))
	}

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// holdLabel names the strongest reason playback is held
func holdLabel(h slider.Hold) string {
	switch {
	case h&slider.HoldTouch != 0:
		return "dragging"
	case h&slider.HoldUser != 0:
		return "paused"
	case h&slider.HoldHover != 0:
		return "paused while hovering"
	default:
		return "paused"
	}
}
