package render

import (
	"image"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// DefaultCacheEntries bounds how many rendered frames a Cache keeps.
const DefaultCacheEntries = 64

type cacheKey struct {
	ref        string
	cols, rows int
}

// Cache keeps rendered half-block frames per (ref, size). A nil *Cache
// renders every call.
type Cache struct {
	mu      sync.Mutex
	entries map[cacheKey]string
	order   []cacheKey
	limit   int
	bg      lipgloss.Color
}

// NewCache creates a cache holding up to limit frames rendered over bg.
func NewCache(limit int, bg lipgloss.Color) *Cache {
	if limit <= 0 {
		limit = DefaultCacheEntries
	}
	return &Cache{
		entries: make(map[cacheKey]string),
		limit:   limit,
		bg:      bg,
	}
}

// Render returns the frame for ref at cols x rows, rendering img on a miss.
func (c *Cache) Render(ref string, img image.Image, cols, rows int) string {
	if c == nil {
		return HalfBlock(img, cols, rows, "")
	}

	key := cacheKey{ref: ref, cols: cols, rows: rows}
	c.mu.Lock()
	if frame, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return frame
	}
	bg := c.bg
	c.mu.Unlock()

	frame := HalfBlock(img, cols, rows, bg)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		c.entries[key] = frame
		c.order = append(c.order, key)
		for len(c.order) > c.limit {
			delete(c.entries, c.order[0])
			c.order = c.order[1:]
		}
	}
	return frame
}

// Forget drops every frame rendered for the given refs.
func (c *Cache) Forget(refs ...string) {
	if c == nil || len(refs) == 0 {
		return
	}
	drop := make(map[string]bool, len(refs))
	for _, r := range refs {
		drop[r] = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.order[:0]
	for _, k := range c.order {
		if drop[k.ref] {
			delete(c.entries, k)
			continue
		}
		kept = append(kept, k)
	}
	c.order = kept
}

// Len returns the number of cached frames.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
