package domain

// ImageStore caches fetched image bytes keyed by ref.
// A memory-only store is valid when no cache directory is configured.
type ImageStore interface {
	GetImage(ref string) ([]byte, bool)
	SaveImage(ref string, data []byte) error
	InvalidateImage(ref string)
	InvalidateAll()

	// Stats reports the number of cached images and their total size in bytes
	Stats() (count int, size int64)

	Close() error
}
