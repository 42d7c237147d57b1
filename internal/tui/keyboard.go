package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/folio/internal/slider"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.State {
	case StateHelp:
		if key.Matches(msg, Keys.Escape, Keys.Help, Keys.Quit) {
			m.State = m.helpReturn
			m.updateLayout()
		}
		return m, nil

	case StateViewing:
		return m.handleModalKey(msg)
	}

	// Filter input swallows everything while typing
	if m.Gallery.IsFilterTyping() {
		var cmd tea.Cmd
		m.Gallery, cmd = m.Gallery.Update(msg)
		m.updateInspector()
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.helpReturn = m.State
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if m.Gallery.IsFiltering() {
			m.Gallery.ClearFilter()
			m.updateInspector()
		}
		return m, nil

	case key.Matches(msg, Keys.Filter):
		m.Gallery.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if item, ok := m.Gallery.SelectedItem(); ok {
			return m, m.openItem(item)
		}
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		m.StatusMsg = "Reloading catalog..."
		m.StatusIsErr = false
		return m, ReloadCatalogCmd(m.GallerySvc)

	case key.Matches(msg, Keys.ToggleInspector):
		m.ShowInspector = !m.ShowInspector
		m.updateLayout()
		return m, nil
	}

	var cmd tea.Cmd
	m.Gallery, cmd = m.Gallery.Update(msg)
	m.updateInspector()
	return m, cmd
}

// handleModalKey handles keys while an item is open
func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.modal
	if s == nil {
		m.State = StateBrowsing
		return m, nil
	}

	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(msg, Keys.Escape, Keys.Quit):
		m.closeModal()
		return m, nil

	case key.Matches(msg, Keys.Help):
		m.helpReturn = m.State
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.ToggleInspector):
		m.ShowInspector = !m.ShowInspector
		m.updateLayout()
		return m, nil

	case key.Matches(msg, Keys.Prev):
		if s.carousel != nil {
			s.carousel.Prev()
		} else {
			m.slider.Prev()
		}

	case key.Matches(msg, Keys.Next):
		if s.carousel != nil {
			s.carousel.Next()
		} else {
			m.slider.Next()
		}

	case key.Matches(msg, Keys.First):
		if s.carousel != nil {
			s.carousel.Switch(0)
		} else {
			m.slider.GoTo(0)
		}

	case key.Matches(msg, Keys.Last):
		if s.carousel != nil {
			s.carousel.Switch(s.carousel.Len() - 1)
		} else {
			m.slider.GoTo(m.slider.Len() - 1)
		}

	case key.Matches(msg, Keys.GoToSlot):
		slot := int(msg.String()[0] - '1')
		if s.carousel != nil {
			s.carousel.Switch(slot)
		} else {
			m.slider.GoTo(slot)
		}

	case key.Matches(msg, Keys.Pause):
		m.slider.TogglePause()
		// Hover or touch may still hold playback after the user resumes
		if m.slider.State() == slider.StatePaused {
			m.StatusMsg = "Paused"
		} else {
			m.StatusMsg = "Resumed"
		}
		m.StatusIsErr = false
		return m, tea.Batch(m.afterControl(), ClearStatusCmd(2*time.Second))

	case key.Matches(msg, Keys.Play, Keys.Enter):
		if video, ok := s.carousel.Current(); ok {
			m.StatusMsg = "Launching " + video.DisplayTitle() + "..."
			m.StatusIsErr = false
			return m, PlayVideoCmd(m.PlaybackSvc, video)
		}
		return m, nil

	default:
		// Remaining keys scroll the details
		m.Inspector, _ = m.Inspector.Update(msg)
		return m, nil
	}

	return m, m.afterControl()
}
