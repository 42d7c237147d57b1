// Package search filters gallery items for the "/" filter.
package search

import (
	"strings"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/folio/internal/domain"
)

// Result is one item that matched a query
type Result struct {
	Index          int   // index into the searched items
	Score          int   // higher is better; facet-only matches score 0
	MatchedIndexes []int // rune positions matched in the display title
}

// TitleMatched reports whether the match came from the title
func (r Result) TitleMatched() bool {
	return len(r.MatchedIndexes) > 0
}

// titleSource adapts items to fuzzy.Source
type titleSource []domain.Item

func (s titleSource) String(i int) string { return s[i].DisplayTitle() }
func (s titleSource) Len() int            { return len(s) }

// Filter returns the items matching query, best first. Titles match fuzzily
// and case-insensitively. An item whose title does not match is still
// returned, after all title matches, when one of its tags or tool names
// starts with the query.
func Filter(query string, items []domain.Item) []Result {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	var results []Result
	seen := make(map[int]bool)
	for _, m := range fuzzy.FindFrom(query, titleSource(items)) {
		results = append(results, Result{
			Index:          m.Index,
			Score:          m.Score,
			MatchedIndexes: runePositions(m.Str, m.MatchedIndexes),
		})
		seen[m.Index] = true
	}

	lower := strings.ToLower(query)
	for i, item := range items {
		if !seen[i] && matchesFacet(lower, item) {
			results = append(results, Result{Index: i})
		}
	}
	return results
}

func matchesFacet(query string, item domain.Item) bool {
	for _, tag := range item.Tags {
		if strings.HasPrefix(tag, query) {
			return true
		}
	}
	for _, tool := range item.Tools {
		if strings.HasPrefix(strings.ToLower(tool.Name), query) {
			return true
		}
	}
	return false
}

// runePositions converts byte offsets into s to rune positions
func runePositions(s string, offsets []int) []int {
	if len(offsets) == 0 {
		return nil
	}
	want := make(map[int]bool, len(offsets))
	for _, o := range offsets {
		want[o] = true
	}

	positions := make([]int, 0, len(offsets))
	pos := 0
	for i := 0; i < len(s); {
		if want[i] {
			positions = append(positions, pos)
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
		pos++
	}
	return positions
}
