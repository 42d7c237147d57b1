package slider

// Carousel selects one entry at a time from a fixed list. Unlike Controller
// it never advances on its own.
type Carousel[T any] struct {
	items []T
	index int
}

// NewCarousel creates a carousel positioned at the first entry.
func NewCarousel[T any](items []T) *Carousel[T] {
	return &Carousel[T]{items: append([]T(nil), items...)}
}

// Len returns the number of entries.
func (c *Carousel[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Index returns the selected position.
func (c *Carousel[T]) Index() int {
	if c == nil {
		return 0
	}
	return c.index
}

// Current returns the selected entry.
func (c *Carousel[T]) Current() (T, bool) {
	var zero T
	if c.Len() == 0 {
		return zero, false
	}
	return c.items[c.index], true
}

// Items returns a copy of the entries.
func (c *Carousel[T]) Items() []T {
	if c == nil {
		return nil
	}
	return append([]T(nil), c.items...)
}

// Switch selects entry i. Out-of-range indexes and the current index are
// ignored; it reports whether the selection changed.
func (c *Carousel[T]) Switch(i int) bool {
	if c == nil || i < 0 || i >= len(c.items) || i == c.index {
		return false
	}
	c.index = i
	return true
}

// Next selects the following entry, wrapping at the end.
func (c *Carousel[T]) Next() bool {
	n := c.Len()
	if n < 2 {
		return false
	}
	return c.Switch((c.index + 1) % n)
}

// Prev selects the previous entry, wrapping at the start.
func (c *Carousel[T]) Prev() bool {
	n := c.Len()
	if n < 2 {
		return false
	}
	return c.Switch((c.index - 1 + n) % n)
}
