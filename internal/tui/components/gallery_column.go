package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/search"
	"github.com/mmcdole/folio/internal/tui/styles"
)

// Layout constants for list columns
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2

	// Rows above the first item: top border, title, "↑ more"
	galleryRowsTop = 3
)

// GalleryColumn is a scrollable, filterable list of portfolio items
type GalleryColumn struct {
	items []domain.Item

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title string

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int         // indices into items
	matched      map[int][]int // item index -> matched rune positions in its title
}

// NewGalleryColumn creates an empty gallery column
func NewGalleryColumn(title string) *GalleryColumn {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return &GalleryColumn{
		title:       title,
		filterInput: ti,
		focused:     true,
	}
}

// SetItems replaces the items, keeping the selected item when it still exists
func (c *GalleryColumn) SetItems(items []domain.Item) {
	selectedID := ""
	if item, ok := c.SelectedItem(); ok {
		selectedID = item.ID
	}

	c.items = items
	c.cursor = 0
	c.offset = 0
	if c.filterQuery != "" {
		c.applyFilter()
	}
	if selectedID != "" {
		c.SelectByID(selectedID)
	}
}

// Update handles key input for navigation and filtering
func (c *GalleryColumn) Update(msg tea.Msg) (*GalleryColumn, tea.Cmd) {
	if !c.focused {
		return c, nil
	}

	// Filter input focused: keys go to the text input
	if c.filterActive && c.filterInput.Focused() {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, GalleryKeys.Escape):
				c.clearFilter()
				return c, nil
			case key.Matches(msg, GalleryKeys.Enter):
				// Accept filter, blur input to allow navigation
				c.filterInput.Blur()
				return c, nil
			case msg.Type == tea.KeyBackspace && c.filterInput.Value() == "":
				c.clearFilter()
				return c, nil
			}
		}

		var cmd tea.Cmd
		c.filterInput, cmd = c.filterInput.Update(msg)
		c.applyFilter()
		return c, cmd
	}

	// Filter active but blurred: navigating the results
	if c.filterActive {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, GalleryKeys.Escape):
				c.clearFilter()
				return c, nil
			case key.Matches(msg, GalleryKeys.Filter):
				c.filterInput.Focus()
				return c, nil
			}
		}
	}

	count := c.ItemCount()
	if count == 0 {
		return c, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, GalleryKeys.Down):
			c.MoveCursor(1)
		case key.Matches(msg, GalleryKeys.Up):
			c.MoveCursor(-1)
		case key.Matches(msg, GalleryKeys.Home):
			c.cursor = 0
			c.offset = 0
		case key.Matches(msg, GalleryKeys.End):
			c.cursor = count - 1
			c.ensureVisible()
		case key.Matches(msg, GalleryKeys.HalfDown):
			c.MoveCursor(c.maxVisible / 2)
		case key.Matches(msg, GalleryKeys.HalfUp):
			c.MoveCursor(-c.maxVisible / 2)
		case key.Matches(msg, GalleryKeys.PageDown):
			c.MoveCursor(c.maxVisible)
		case key.Matches(msg, GalleryKeys.PageUp):
			c.MoveCursor(-c.maxVisible)
		}
	}

	return c, nil
}

// View renders the column
func (c *GalleryColumn) View() string {
	style := styles.InactiveBorder
	if c.focused {
		style = styles.ActiveBorder
	}

	content := c.renderContent()

	// Subtract frame (border) size so total rendered size equals c.width x c.height
	frameW, frameH := style.GetFrameSize()

	return style.
		Width(c.width - frameW).
		Height(c.height - frameH).
		Render(content)
}

// SetSize updates the column dimensions
func (c *GalleryColumn) SetSize(width, height int) {
	c.width = width
	c.height = height
	c.recalcMaxVisible()
	c.ensureVisible()
}

func (c *GalleryColumn) SetFocused(focused bool) {
	c.focused = focused
}

// SelectedItem returns the item under the cursor
func (c *GalleryColumn) SelectedItem() (domain.Item, bool) {
	if c.cursor < 0 || c.cursor >= c.ItemCount() {
		return domain.Item{}, false
	}
	return c.items[c.mapIndex(c.cursor)], true
}

// SelectedIndex returns the cursor position within the visible (filtered) list
func (c *GalleryColumn) SelectedIndex() int {
	return c.cursor
}

// SelectByID moves the cursor to the item with id, if visible
func (c *GalleryColumn) SelectByID(id string) bool {
	for i := 0; i < c.ItemCount(); i++ {
		if c.items[c.mapIndex(i)].ID == id {
			c.cursor = i
			c.ensureVisible()
			return true
		}
	}
	return false
}

// ItemCount returns the number of visible items (after filtering)
func (c *GalleryColumn) ItemCount() int {
	if c.filteredIdx != nil {
		return len(c.filteredIdx)
	}
	return len(c.items)
}

// MoveCursor moves the cursor by delta, clamped to the list
func (c *GalleryColumn) MoveCursor(delta int) {
	count := c.ItemCount()
	if count == 0 {
		return
	}
	c.cursor = max(0, min(count-1, c.cursor+delta))
	c.ensureVisible()
}

// SelectAt selects the row drawn at line y of the column (0 = top border).
// It reports whether y landed on an item.
func (c *GalleryColumn) SelectAt(y int) bool {
	row := y - galleryRowsTop
	if row < 0 || row >= c.maxVisible {
		return false
	}
	idx := c.offset + row
	if idx >= c.ItemCount() {
		return false
	}
	c.cursor = idx
	return true
}

// ToggleFilter activates the filter input
func (c *GalleryColumn) ToggleFilter() {
	c.filterActive = true
	c.filterInput.Focus()
	c.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (c *GalleryColumn) IsFiltering() bool {
	return c.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (c *GalleryColumn) IsFilterTyping() bool {
	return c.filterActive && c.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all items
func (c *GalleryColumn) ClearFilter() {
	c.clearFilter()
}

// Internal methods

func (c *GalleryColumn) recalcMaxVisible() {
	// Interior height minus title line and scroll indicators
	interiorHeight := c.height - BorderHeight
	c.maxVisible = interiorHeight - ScrollIndicatorLines - 1
	if c.filterActive {
		c.maxVisible--
	}
	if c.maxVisible < 1 {
		c.maxVisible = 1
	}
}

func (c *GalleryColumn) ensureVisible() {
	if c.maxVisible <= 0 {
		return
	}
	if c.cursor < c.offset {
		c.offset = c.cursor
	}
	if c.cursor >= c.offset+c.maxVisible {
		c.offset = c.cursor - c.maxVisible + 1
	}
}

func (c *GalleryColumn) clearFilter() {
	c.filterActive = false
	c.filterQuery = ""
	c.filteredIdx = nil
	c.matched = nil
	c.filterInput.SetValue("")
	c.filterInput.Blur()
	c.recalcMaxVisible()
}

func (c *GalleryColumn) applyFilter() {
	query := c.filterInput.Value()
	c.filterQuery = query

	if strings.TrimSpace(query) == "" {
		c.filteredIdx = nil
		c.matched = nil
		return
	}

	results := search.Filter(query, c.items)

	c.filteredIdx = make([]int, len(results))
	c.matched = make(map[int][]int, len(results))
	for i, r := range results {
		c.filteredIdx[i] = r.Index
		c.matched[r.Index] = r.MatchedIndexes
	}

	// Reset cursor to first match
	c.cursor = 0
	c.offset = 0
}

func (c *GalleryColumn) mapIndex(i int) int {
	if c.filteredIdx != nil && i < len(c.filteredIdx) {
		return c.filteredIdx[i]
	}
	return i
}

// Rendering

func (c *GalleryColumn) renderContent() string {
	itemWidth := c.width - BorderWidth
	if itemWidth < 10 {
		itemWidth = 10
	}

	titleLine := styles.AccentStyle.Render(styles.Truncate(c.title, itemWidth))

	count := c.ItemCount()
	if count == 0 {
		emptyMsg := styles.DimStyle.Render("No items")
		if c.filterActive && c.filterQuery != "" {
			emptyMsg = styles.DimStyle.Render("No matches")
		}
		content := titleLine + "\n" + " " + "\n" + emptyMsg + "\n" + " "
		if c.filterActive {
			content += "\n" + c.renderFilterBar()
		}
		return content
	}

	end := min(c.offset+c.maxVisible, count)

	var lines []string
	for i := c.offset; i < end; i++ {
		idx := c.mapIndex(i)
		lines = append(lines, c.renderItem(c.items[idx], c.matched[idx], i == c.cursor, itemWidth))
	}

	// Always reserve the indicator lines so the layout does not shift
	header := " "
	if c.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer

	if c.filterActive {
		content += "\n" + c.renderFilterBar()
	}

	return content
}

func (c *GalleryColumn) renderItem(item domain.Item, matched []int, selected bool, width int) string {
	kind := styles.ImageKindChar
	if item.Kind() == domain.ItemKindVideo {
		kind = styles.VideoKindChar
	}
	accent := styles.Amber

	summary := item.Summary()
	// margins (2) + kind (1) + space (1) + gap before summary (2)
	titleWidth := width - 6 - lipgloss.Width(summary)
	if titleWidth < 8 {
		summary = ""
		titleWidth = width - 4
	}

	title := styles.Truncate(item.DisplayTitle(), titleWidth)

	parts := []styles.RowPart{
		{Text: kind, Foreground: &accent},
		{Text: " "},
	}
	parts = append(parts, highlightParts(title, matched)...)

	if summary != "" {
		gap := width - 2 - 2 - lipgloss.Width(title) - lipgloss.Width(summary)
		dim := styles.DimGray
		parts = append(parts,
			styles.RowPart{Text: strings.Repeat(" ", max(gap, 2))},
			styles.RowPart{Text: summary, Foreground: &dim},
		)
	}

	return styles.RenderListRow(parts, selected, width)
}

// highlightParts splits title into runs, styling matched rune positions.
func highlightParts(title string, matched []int) []styles.RowPart {
	if len(matched) == 0 {
		return []styles.RowPart{{Text: title}}
	}

	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}

	var parts []styles.RowPart
	var run strings.Builder
	runHit := false
	flush := func() {
		if run.Len() == 0 {
			return
		}
		part := styles.RowPart{Text: run.String()}
		if runHit {
			style := styles.MatchHighlightStyle
			part.Style = &style
		}
		parts = append(parts, part)
		run.Reset()
	}

	pos := 0
	for _, r := range title {
		if hit[pos] != runHit {
			flush()
			runHit = hit[pos]
		}
		run.WriteRune(r)
		pos++
	}
	flush()
	return parts
}

func (c *GalleryColumn) renderFilterBar() string {
	input := c.filterInput.View()

	countStr := ""
	if c.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", c.ItemCount(), len(c.items)))
	}

	return input + countStr
}
