package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder for slides
	_ "image/jpeg" // JPEG decoder for slides
	_ "image/png"  // PNG decoder for slides

	_ "golang.org/x/image/webp" // WebP decoder for slides

	"github.com/mmcdole/folio/internal/domain"
)

// Decode decodes image bytes in any registered format.
func Decode(data []byte) (image.Image, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrUnsupportedImage, err)
	}
	return img, format, nil
}

// LoadImage fetches ref from src and decodes it.
func LoadImage(ctx context.Context, src domain.ImageSource, ref string) (image.Image, error) {
	data, err := src.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	img, _, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}
	return img, nil
}
