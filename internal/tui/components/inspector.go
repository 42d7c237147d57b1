package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/folio/internal/domain"
	"github.com/mmcdole/folio/internal/tui/styles"
)

// Layout constants for inspector
const (
	InspectorBorderHeight     = 2
	InspectorScrollIndicators = 2
)

// inspectorContent holds the three-zone layout content
type inspectorContent struct {
	header string // fixed top
	body   string // scrollable middle
	footer string // fixed bottom
}

// Inspector displays the details of a portfolio item
type Inspector struct {
	item       *domain.Item
	title      string
	width      int
	height     int
	offset     int // scroll offset
	maxVisible int // max visible lines
	focused    bool
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{title: "Details"}
}

// SetItem sets the item to display; nil clears it
func (i *Inspector) SetItem(item *domain.Item) {
	if item != nil && i.item != nil && item.ID == i.item.ID {
		i.item = item
		return
	}
	i.item = item
	i.offset = 0
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
	// Reserve border, scroll indicators, title and the blank line under it
	i.maxVisible = height - InspectorBorderHeight - InspectorScrollIndicators - 2
	if i.maxVisible < 1 {
		i.maxVisible = 1
	}
}

// SetFocused highlights the border when details have keyboard focus
func (i *Inspector) SetFocused(focused bool) {
	i.focused = focused
}

// HasItem returns true if there is an item to display
func (i Inspector) HasItem() bool {
	return i.item != nil
}

// ScrollBy moves the body window by delta lines
func (i *Inspector) ScrollBy(delta int) {
	i.offset = max(0, i.offset+delta)
}

// Update scrolls the body
func (i Inspector) Update(msg tea.Msg) (Inspector, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return i, nil
	}
	switch {
	case key.Matches(keyMsg, InspectorKeys.Down):
		i.ScrollBy(1)
	case key.Matches(keyMsg, InspectorKeys.Up):
		i.ScrollBy(-1)
	case key.Matches(keyMsg, InspectorKeys.HalfDown):
		i.ScrollBy(i.maxVisible / 2)
	case key.Matches(keyMsg, InspectorKeys.HalfUp):
		i.ScrollBy(-i.maxVisible / 2)
	}
	return i, nil
}

// View renders the component
func (i Inspector) View() string {
	style := styles.InactiveBorder
	if i.focused {
		style = styles.ActiveBorder
	}

	// Border takes 2 chars, leave 1 char safety margin
	contentWidth := max(i.width-3, 10)
	content := i.renderInspector(contentWidth)

	titleLine := styles.AccentStyle.Render(styles.Truncate(i.title, contentWidth))

	// Three-zone layout: header is fixed, body scrolls, footer is fixed
	headerLines := splitLines(content.header)
	footerLines := splitLines(content.footer)
	bodyLines := splitLines(content.body)

	availableForBody := max(i.maxVisible-len(headerLines)-len(footerLines), 1)

	totalBodyLines := len(bodyLines)
	maxOffset := max(totalBodyLines-availableForBody, 0)
	offset := min(i.offset, maxOffset)

	end := min(offset+availableForBody, totalBodyLines)
	visibleBody := bodyLines[offset:end]

	up := " "
	if offset > 0 {
		up = styles.DimStyle.Render("↑ more")
	}
	down := " "
	if end < totalBodyLines {
		down = styles.DimStyle.Render("↓ more")
	}

	parts := []string{titleLine, ""}
	if len(headerLines) > 0 {
		parts = append(parts, headerLines...)
	}
	parts = append(parts, up)
	parts = append(parts, visibleBody...)
	for j := len(visibleBody); j < availableForBody; j++ {
		parts = append(parts, "")
	}
	parts = append(parts, down)
	if len(footerLines) > 0 {
		parts = append(parts, footerLines...)
	}

	frameW, frameH := style.GetFrameSize()

	return style.
		Width(i.width - frameW).
		Height(i.height - frameH).
		Render(strings.Join(parts, "\n"))
}

// renderInspector renders the item as three zones
func (i Inspector) renderInspector(width int) inspectorContent {
	if i.item == nil {
		return inspectorContent{body: styles.DimStyle.Render("No item selected")}
	}
	item := *i.item
	return inspectorContent{
		header: renderItemHeader(item, width),
		body:   renderItemBody(item, width),
		footer: renderItemFooter(item, width),
	}
}

func renderItemHeader(item domain.Item, width int) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(styles.Truncate(item.DisplayTitle(), width)))
	if item.Subtitle != "" {
		b.WriteString("\n")
		b.WriteString(styles.SubtitleStyle.Render(styles.Truncate(item.Subtitle, width)))
	}
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render(styles.Truncate(item.Summary(), width)))

	return b.String()
}

func renderItemBody(item domain.Item, width int) string {
	bodyWidth := min(width-2, 80)

	var sections []string

	if len(item.Description) > 0 {
		paras := make([]string, len(item.Description))
		for j, p := range item.Description {
			paras[j] = styles.SubtitleStyle.Render(wordWrap(p, bodyWidth))
		}
		sections = append(sections, strings.Join(paras, "\n\n"))
	}

	if len(item.Tools) > 0 {
		sections = append(sections, styles.SectionStyle.Render("Tools")+"\n"+renderToolsGrid(item.Tools, width))
	}

	if len(item.Specs) > 0 {
		sections = append(sections, styles.SectionStyle.Render("Specs")+"\n"+renderSpecsGrid(item.Specs, width))
	}

	if len(item.Tags) > 0 {
		sections = append(sections, renderTags(item.Tags, width))
	}

	return strings.Join(sections, "\n\n")
}

func renderItemFooter(item domain.Item, width int) string {
	if item.Kind() != domain.ItemKindVideo {
		return ""
	}

	separator := styles.DimStyle.Render(strings.Repeat("─", width))
	meta := fmt.Sprintf("%s · %s · %d videos",
		item.Meta.PlatformOrDefault(), item.Meta.QualityOrDefault(), len(item.Videos))
	return separator + "\n" + styles.DimStyle.Render(styles.Truncate(meta, width))
}

// renderToolsGrid lays tools out in equal-width cells, each with a letter badge
func renderToolsGrid(tools []domain.Tool, width int) string {
	nameWidth := 0
	for _, t := range tools {
		nameWidth = max(nameWidth, lipgloss.Width(t.Name))
	}
	// badge (3) + space + name + gap
	cellWidth := 3 + 1 + nameWidth + 2
	perRow := max(width/cellWidth, 1)

	var rows []string
	var row []string
	for j, t := range tools {
		name := styles.Truncate(t.Name, max(width-4, 1))
		cell := styles.ToolIconStyle.Render(t.FallbackLetter()) + " " + styles.SpecValueStyle.Render(name)
		if perRow > 1 {
			cell = lipgloss.NewStyle().Width(cellWidth).Render(cell)
		}
		row = append(row, cell)
		if len(row) == perRow || j == len(tools)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
			row = nil
		}
	}
	return strings.Join(rows, "\n")
}

// renderSpecsGrid renders label/value pairs with aligned labels
func renderSpecsGrid(specs []domain.Spec, width int) string {
	labelWidth := 0
	for _, s := range specs {
		labelWidth = max(labelWidth, lipgloss.Width(s.Label))
	}
	valueWidth := max(width-labelWidth-2, 4)

	lines := make([]string, len(specs))
	for j, s := range specs {
		label := s.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(s.Label))
		lines[j] = styles.SpecLabelStyle.Render(label) + "  " +
			styles.SpecValueStyle.Render(styles.Truncate(s.Value, valueWidth))
	}
	return strings.Join(lines, "\n")
}

// renderTags wraps tag chips onto as many lines as needed
func renderTags(tags []string, width int) string {
	var lines []string
	var line []string
	lineWidth := 0
	for _, tag := range tags {
		chip := styles.TagStyle.Render("#" + tag)
		w := lipgloss.Width(chip)
		if lineWidth > 0 && lineWidth+1+w > width {
			lines = append(lines, strings.Join(line, " "))
			line = nil
			lineWidth = 0
		}
		if lineWidth > 0 {
			lineWidth++
		}
		line = append(line, chip)
		lineWidth += w
	}
	if len(line) > 0 {
		lines = append(lines, strings.Join(line, " "))
	}
	return strings.Join(lines, "\n")
}

func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineLen := 0

	for _, word := range strings.Fields(text) {
		wordLen := lipgloss.Width(word)

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
