package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/slider"
	"github.com/mmcdole/folio/internal/tui/styles"
)

// videoChromeLines is the space under the player card: blank, tabs, hints
const videoChromeLines = 3

// VideoView draws a video item's carousel
type VideoView struct {
	width  int
	height int
}

// NewVideoView creates a video view
func NewVideoView() VideoView {
	return VideoView{}
}

func (v *VideoView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// View renders the current carousel entry and the tab row
func (v VideoView) View(carousel *slider.Carousel[domain.Video], meta domain.VideoMeta) string {
	width, cardHeight := v.dims()

	current, ok := carousel.Current()
	if !ok {
		return placeholder("No videos", width, cardHeight)
	}

	return strings.Join([]string{
		renderVideoCard(current, meta, width, cardHeight),
		"",
		layoutVideoTabs(carousel, width).String(),
		renderVideoHints(carousel, width),
	}, "\n")
}

// TabAt maps a cell of the view to the carousel entry whose tab or dot is
// drawn there.
func (v VideoView) TabAt(carousel *slider.Carousel[domain.Video], meta domain.VideoMeta, x, y int) (int, bool) {
	width, cardHeight := v.dims()
	current, ok := carousel.Current()
	if !ok {
		return 0, false
	}
	if y != lipgloss.Height(renderVideoCard(current, meta, width, cardHeight))+1 {
		return 0, false
	}
	return layoutVideoTabs(carousel, width).indexAt(x)
}

func (v VideoView) dims() (int, int) {
	return max(v.width, 10), max(v.height-videoChromeLines, 3)
}

func renderVideoCard(video domain.Video, meta domain.VideoMeta, width, height int) string {
	frameW, frameH := styles.PlaceholderStyle.GetFrameSize()
	cardWidth := max(width-frameW, 1)
	card := strings.Join([]string{
		styles.AccentStyle.Render("▶"),
		"",
		styles.TitleStyle.Render(styles.Truncate(video.DisplayTitle(), cardWidth)),
		styles.DimStyle.Render(styles.Truncate(video.WatchURL(), cardWidth)),
		styles.DimStyle.Render(meta.PlatformOrDefault() + " · " + meta.QualityOrDefault()),
	}, "\n")
	return styles.PlaceholderStyle.
		Width(cardWidth).
		Height(max(height-frameH, 1)).
		Render(card)
}

// videoTabRow is the line under the player card. parts holds one
// clickable entry per video and is empty when only the position fits.
type videoTabRow struct {
	parts  []string
	suffix string
}

// layoutVideoTabs lists every entry when they fit, then dots with the
// position, then the position alone.
func layoutVideoTabs(carousel *slider.Carousel[domain.Video], width int) videoTabRow {
	videos := carousel.Items()
	tabs := make([]string, len(videos))
	for i, video := range videos {
		label := fmt.Sprintf(" %d %s ", i+1, video.DisplayTitle())
		if i == carousel.Index() {
			tabs[i] = styles.ToolIconStyle.Render(strings.TrimSpace(label))
		} else {
			tabs[i] = styles.DimStyle.Render(label)
		}
	}
	row := videoTabRow{parts: tabs}
	if lipgloss.Width(row.String()) <= width {
		return row
	}

	position := styles.DimStyle.Render(fmt.Sprintf("%d / %d", carousel.Index()+1, carousel.Len()))
	row = videoTabRow{parts: renderDots(carousel.Len(), carousel.Index()), suffix: position}
	if lipgloss.Width(row.String()) <= width {
		return row
	}
	return videoTabRow{suffix: position}
}

func (r videoTabRow) String() string {
	row := strings.Join(r.parts, " ")
	switch {
	case r.suffix == "":
		return row
	case row == "":
		return r.suffix
	}
	return row + "  " + r.suffix
}

func (r videoTabRow) indexAt(x int) (int, bool) {
	pos := 0
	for i, part := range r.parts {
		w := lipgloss.Width(part)
		if x >= pos && x < pos+w {
			return i, true
		}
		pos += w + 1
	}
	return 0, false
}

func renderDots(n, active int) []string {
	dots := make([]string, n)
	for i := range dots {
		if i == active {
			dots[i] = styles.ActiveDotStyle.Render("●")
		} else {
			dots[i] = styles.InactiveDotStyle.Render("○")
		}
	}
	return dots
}

func renderVideoHints(carousel *slider.Carousel[domain.Video], width int) string {
	var parts []string
	if carousel.Len() > 1 {
		parts = append(parts, styles.HelpKeyStyle.Render("h/l")+styles.HelpDescStyle.Render(" switch"))
	}
	parts = append(parts, styles.HelpKeyStyle.Render("p")+styles.HelpDescStyle.Render(" play"))
	hints := strings.Join(parts, "   ")
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, hints)
}
