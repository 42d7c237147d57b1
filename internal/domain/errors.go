package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrItemNotFound indicates the requested gallery item does not exist
	ErrItemNotFound = errors.New("gallery item not found")

	// ErrInvalidCatalog indicates the portfolio file failed validation
	ErrInvalidCatalog = errors.New("invalid catalog")

	// ErrImageNotFound indicates an image ref could not be located at its source
	ErrImageNotFound = errors.New("image not found")

	// ErrUnsupportedImage indicates the image bytes could not be decoded
	ErrUnsupportedImage = errors.New("unsupported image format")
)
