package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/folio/internal/slider"
	"github.com/mmcdole/folio/internal/tui/components"
)

// handleMouseMsg routes pointer input. Over the slide image, hovering
// pauses and a horizontal drag acts as a swipe. Progress bars and video
// tabs are clickable.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch m.State {
	case StateViewing:
		return m.handleModalMouse(msg)
	case StateBrowsing:
		return m.handleGalleryMouse(msg)
	}
	return m, nil
}

func (m Model) handleGalleryMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	g := m.calculateGalleryLayout()
	if msg.X >= g.listWidth {
		if msg.Action == tea.MouseActionPress {
			switch msg.Button {
			case tea.MouseButtonWheelUp:
				m.Inspector.ScrollBy(-1)
			case tea.MouseButtonWheelDown:
				m.Inspector.ScrollBy(1)
			}
		}
		return m, nil
	}

	if msg.Action != tea.MouseActionPress {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.Gallery.MoveCursor(-1)
	case tea.MouseButtonWheelDown:
		m.Gallery.MoveCursor(1)
	case tea.MouseButtonLeft:
		before := m.Gallery.SelectedIndex()
		if !m.Gallery.SelectAt(msg.Y) {
			return m, nil
		}
		// Clicking the selected row opens it
		if m.Gallery.SelectedIndex() == before {
			if item, ok := m.Gallery.SelectedItem(); ok {
				return m, m.openItem(item)
			}
		}
	}
	m.updateInspector()
	return m, nil
}

func (m Model) handleModalMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	s := m.modal
	if s == nil {
		return m, nil
	}
	l := m.calculateModalLayout()

	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		if l.details.contains(msg.X, msg.Y) {
			if msg.Button == tea.MouseButtonWheelUp {
				m.Inspector.ScrollBy(-1)
			} else {
				m.Inspector.ScrollBy(1)
			}
		}
		return m, nil
	}

	leftPress := msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft

	if s.carousel != nil {
		if leftPress {
			if i, ok := m.VideoView.TabAt(s.carousel, s.item.Meta, msg.X-l.stage.x, msg.Y-l.stage.y); ok {
				s.carousel.Switch(i)
			}
		}
		return m, nil
	}
	if !s.isSlideshow() {
		return m, nil
	}

	x := float64(msg.X)
	inside := l.image.contains(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if !leftPress {
			break
		}
		if inside {
			s.dragging = true
			m.slider.TouchStart(x)
		} else if l.progress.contains(msg.X, msg.Y) {
			// Clicking a slide's bar jumps to it
			if i, ok := components.ProgressSegmentAt(msg.X-l.progress.x, m.slider.Len(), l.progress.w); ok {
				m.slider.GoTo(i)
			}
		}
	case tea.MouseActionMotion:
		if s.dragging {
			m.slider.TouchMove(x)
		}
	case tea.MouseActionRelease:
		if s.dragging {
			s.dragging = false
			m.slider.TouchMove(x)
			if swipe := m.slider.TouchEnd(float64(l.image.w)); swipe != slider.SwipeNone {
				m.logger.Debug("swiped", "direction", swipe.String(), "index", m.slider.Index())
			}
		}
	}
	m.updateHover(inside)

	return m, m.afterControl()
}
