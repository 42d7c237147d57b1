package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/folio/internal/domain"
)

func testItems() []domain.Item {
	return []domain.Item{
		{ID: "a", Title: "Alpha Render", Images: []string{"a1.png"}},
		{ID: "b", Title: "Beta Sculpt", Year: 2024, Images: []string{"b1.png", "b2.png"}},
		{ID: "v", Title: "Roblox Dances", Videos: []domain.Video{{ID: "v1"}}},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestGallery() *GalleryColumn {
	c := NewGalleryColumn("Portfolio")
	c.SetSize(40, 20)
	c.SetItems(testItems())
	return c
}

func selectedID(t *testing.T, c *GalleryColumn) string {
	t.Helper()
	item, ok := c.SelectedItem()
	require.True(t, ok)
	return item.ID
}

func TestGalleryColumn_Navigation(t *testing.T) {
	c := newTestGallery()
	assert.Equal(t, "a", selectedID(t, c))

	c.Update(runes("j"))
	assert.Equal(t, "b", selectedID(t, c))

	c.Update(runes("G"))
	assert.Equal(t, "v", selectedID(t, c))

	c.MoveCursor(10)
	assert.Equal(t, 2, c.SelectedIndex(), "clamped at the end")

	c.Update(runes("g"))
	assert.Equal(t, 0, c.SelectedIndex())

	c.MoveCursor(-5)
	assert.Equal(t, 0, c.SelectedIndex(), "clamped at the start")
}

func TestGalleryColumn_UnfocusedIgnoresKeys(t *testing.T) {
	c := newTestGallery()
	c.SetFocused(false)
	c.Update(runes("j"))
	assert.Equal(t, 0, c.SelectedIndex())
}

func TestGalleryColumn_SetItemsKeepsSelection(t *testing.T) {
	c := newTestGallery()
	require.True(t, c.SelectByID("b"))

	items := testItems()
	c.SetItems([]domain.Item{items[2], items[1], items[0]})
	assert.Equal(t, "b", selectedID(t, c))
	assert.Equal(t, 1, c.SelectedIndex())

	c.SetItems(items[2:])
	assert.Equal(t, "v", selectedID(t, c), "falls back to the first row")

	assert.False(t, c.SelectByID("missing"))
}

func TestGalleryColumn_Filter(t *testing.T) {
	c := newTestGallery()
	c.ToggleFilter()
	require.True(t, c.IsFilterTyping())

	c.Update(runes("rob"))
	assert.Equal(t, 1, c.ItemCount())
	assert.Equal(t, "v", selectedID(t, c))
	assert.Equal(t, []int{0, 1, 2}, c.matched[2])
	assert.Contains(t, c.View(), "[1/3]")

	// Enter accepts and keeps the results
	c.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, c.IsFilterTyping())
	assert.True(t, c.IsFiltering())
	assert.Equal(t, 1, c.ItemCount())

	// "/" resumes typing, esc clears
	c.Update(runes("/"))
	assert.True(t, c.IsFilterTyping())
	c.Update(tea.KeyMsg{Type: tea.KeyEscape})
	assert.False(t, c.IsFiltering())
	assert.Equal(t, 3, c.ItemCount())
}

func TestGalleryColumn_FilterNoMatches(t *testing.T) {
	c := newTestGallery()
	c.ToggleFilter()
	c.Update(runes("zzz"))
	assert.Zero(t, c.ItemCount())
	_, ok := c.SelectedItem()
	assert.False(t, ok)
	assert.Contains(t, c.View(), "No matches")

	c.ClearFilter()
	assert.Equal(t, 3, c.ItemCount())
}

func TestGalleryColumn_BackspaceOnEmptyFilterClears(t *testing.T) {
	c := newTestGallery()
	c.ToggleFilter()
	c.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.False(t, c.IsFiltering())
}

func TestGalleryColumn_SelectAt(t *testing.T) {
	c := newTestGallery()

	assert.False(t, c.SelectAt(2), "title line")
	assert.True(t, c.SelectAt(5))
	assert.Equal(t, "v", selectedID(t, c))
	assert.True(t, c.SelectAt(3))
	assert.Equal(t, "a", selectedID(t, c))
	assert.False(t, c.SelectAt(6), "past the last item")
}

func TestGalleryColumn_ScrollIndicators(t *testing.T) {
	c := NewGalleryColumn("Portfolio")
	c.SetSize(40, 7) // room for two rows
	c.SetItems(testItems())

	assert.Contains(t, c.View(), "↓ more")
	assert.NotContains(t, c.View(), "↑ more")

	c.Update(runes("G"))
	assert.Contains(t, c.View(), "↑ more")
	assert.NotContains(t, c.View(), "↓ more")
}

func TestGalleryColumn_ViewRows(t *testing.T) {
	c := newTestGallery()
	view := c.View()
	assert.Contains(t, view, "Portfolio")
	assert.Contains(t, view, "Alpha Render")
	assert.Contains(t, view, "2024 · 2 images")
	assert.Contains(t, view, "1 video")

	empty := NewGalleryColumn("Portfolio")
	empty.SetSize(40, 10)
	assert.Contains(t, empty.View(), "No items")
}

func TestHighlightParts(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		matched []int
		want    []string
		hits    []bool
	}{
		{"no matches", "Roblox", nil, []string{"Roblox"}, []bool{false}},
		{"prefix", "Roblox", []int{0, 1, 2}, []string{"Rob", "lox"}, []bool{true, false}},
		{"scattered", "Roblox", []int{1, 4}, []string{"R", "o", "bl", "o", "x"}, []bool{false, true, false, true, false}},
		{"multibyte", "Café Noir", []int{3}, []string{"Caf", "é", " Noir"}, []bool{false, true, false}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := highlightParts(tt.title, tt.matched)
			require.Len(t, parts, len(tt.want))
			for i, p := range parts {
				assert.Equal(t, tt.want[i], p.Text)
				assert.Equal(t, tt.hits[i], p.Style != nil)
			}
		})
	}
}
