package domain

import "context"

// ImageSource returns the raw bytes behind an image ref.
// Refs are either http(s) URLs or filesystem paths.
type ImageSource interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Catalog provides read access to the portfolio items.
type Catalog interface {
	// Items returns all items in declaration order
	Items() []Item

	// Get returns the item with the given ID or ErrItemNotFound
	Get(id string) (Item, error)

	// ImageRefs returns every image ref across all items, de-duplicated
	ImageRefs() []string
}
