package raw

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"

	_ "golang.org/x/image/tiff" // Register TIFF format decoder
)

// ImageDecoder decodes already-developed rasters (PNG, JPEG, GIF, TIFF) with the
// standard image registry. It is used for re-editing exported files and in tests.
type ImageDecoder struct{}

// Decode implements Decoder.
func (ImageDecoder) Decode(_ context.Context, path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open image: %w", ErrDecode, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %w", ErrDecode, err)
	}
	return img, nil
}
