//go:build imagick

package raw

import (
	"context"
	"fmt"
	"image"
	"sync"

	"gopkg.in/gographics/imagick.v3/imagick"
)

var imagickOnce sync.Once

func init() {
	Register("imagick", func(Options) (Decoder, error) {
		imagickOnce.Do(imagick.Initialize)
		return ImagickDecoder{}, nil
	})
}

// ImagickDecoder develops RAW files through ImageMagick's delegates.
//
// Only available when built with -tags imagick (requires cgo and MagickWand).
type ImagickDecoder struct{}

// Decode implements Decoder.
func (ImagickDecoder) Decode(ctx context.Context, path string) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mw := imagick.NewMagickWand()
	defer mw.Destroy()

	if err := mw.ReadImage(path); err != nil {
		return nil, fmt.Errorf("%w: imagick read %s: %w", ErrDecode, path, err)
	}

	w, h := mw.GetImageWidth(), mw.GetImageHeight()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%w: imagick read %s: empty image", ErrDecode, path)
	}

	pixels, err := mw.ExportImagePixels(0, 0, w, h, "RGBA", imagick.PIXEL_CHAR)
	if err != nil {
		return nil, fmt.Errorf("%w: imagick export pixels: %w", ErrDecode, err)
	}
	data, ok := pixels.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: imagick export pixels: unexpected type %T", ErrDecode, pixels)
	}

	img := image.NewNRGBA(image.Rect(0, 0, int(w), int(h)))
	copy(img.Pix, data)
	return img, nil
}
