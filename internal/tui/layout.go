package tui

// Layout proportions
const (
	// Gallery: [List | Inspector]
	GalleryColumnPercent = 40
	MinColumnWidth       = 15

	// Modal details panel, as a share of the modal interior
	ModalDetailsPercent = 35
	MinDetailsWidth     = 24

	// Vertical layout: single footer line
	ChromeHeight = 1

	// Modal title line plus the blank line under it
	modalTitleLines = 2
)

// rect is a screen region in cells
type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

// galleryLayout holds calculated widths for the browsing view
type galleryLayout struct {
	listWidth      int
	inspectorWidth int // 0 if not shown
	height         int
}

func (m Model) calculateGalleryLayout() galleryLayout {
	layout := galleryLayout{height: max(m.Height-ChromeHeight, 1)}
	if m.ShowInspector {
		layout.listWidth = max(m.Width*GalleryColumnPercent/100, MinColumnWidth)
		layout.inspectorWidth = max(m.Width-layout.listWidth, 0)
	} else {
		layout.listWidth = m.Width
	}
	return layout
}

// modalLayout holds absolute regions of the item modal
type modalLayout struct {
	box      rect // outer box including border
	inner    rect // interior, inside border and padding
	stage    rect // slide or video area
	image    rect // image box within the stage
	progress rect // per-slide progress bars under the image
	details  rect // inspector; zero width when hidden
}

// calculateModalLayout mirrors how renderModal places the box: centered by
// lipgloss.Place in the area above the footer.
func (m Model) calculateModalLayout() modalLayout {
	areaH := max(m.Height-ChromeHeight, 1)
	boxW := max(m.Width-4, 1)
	boxH := max(areaH-2, 1)

	var l modalLayout
	l.box = rect{x: (m.Width - boxW) / 2, y: (areaH - boxH) / 2, w: boxW, h: boxH}

	frameW, frameH := modalFrameSize()
	l.inner = rect{
		x: l.box.x + frameW/2,
		y: l.box.y + frameH/2,
		w: max(boxW-frameW, 1),
		h: max(boxH-frameH, 1),
	}

	bodyY := l.inner.y + modalTitleLines
	bodyH := max(l.inner.h-modalTitleLines, 1)

	stageW, detailsW := l.inner.w, 0
	if m.ShowInspector {
		detailsW = max(l.inner.w*ModalDetailsPercent/100, MinDetailsWidth)
		if detailsW+MinColumnWidth+1 <= l.inner.w {
			stageW = l.inner.w - detailsW - 1
		} else {
			detailsW = 0
		}
	}
	// A configured image width caps the stage; details stay beside it
	if m.imageWidth > 0 && m.imageWidth < stageW {
		stageW = max(m.imageWidth, min(MinColumnWidth, stageW))
	}
	if detailsW > 0 {
		l.details = rect{x: l.inner.x + stageW + 1, y: bodyY, w: detailsW, h: bodyH}
	}
	l.stage = rect{x: l.inner.x, y: bodyY, w: stageW, h: bodyH}

	view := m.SlideView
	view.SetSize(l.stage.w, l.stage.h)
	cols, rows := view.ImageSize()
	l.image = rect{x: l.stage.x, y: l.stage.y, w: cols, h: rows}
	l.progress = rect{x: l.stage.x, y: l.stage.y + view.ProgressRow(), w: cols, h: 1}

	return l
}

// updateLayout updates component sizes based on window size and state
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	if m.State == StateViewing || (m.State == StateHelp && m.helpReturn == StateViewing) {
		l := m.calculateModalLayout()
		m.SlideView.SetSize(l.stage.w, l.stage.h)
		m.VideoView.SetSize(l.stage.w, l.stage.h)
		m.Inspector.SetSize(l.details.w, l.details.h)
		m.Inspector.SetFocused(false)
		return
	}

	g := m.calculateGalleryLayout()
	m.Gallery.SetSize(g.listWidth, g.height)
	m.Inspector.SetSize(g.inspectorWidth, g.height)
	m.Inspector.SetFocused(false)
}
