package raw

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/anthonynsimon/bild/imgio"
)

// DefaultJPEGQuality is the JPEG quality used when none is configured.
const DefaultJPEGQuality = 95

// Encoder writes an 8-bit raster to a file.
type Encoder interface {
	Encode(path string, img image.Image) error
}

// JPEGEncoder writes baseline JPEG files.
type JPEGEncoder struct {
	// Quality ranges 1-100; out-of-range values use DefaultJPEGQuality.
	Quality int
}

// Encode implements Encoder. The target directory must already exist.
func (e JPEGEncoder) Encode(path string, img image.Image) error {
	dir := filepath.Dir(path)
	if stat, err := os.Stat(dir); err != nil {
		return fmt.Errorf("output directory %s: %w", dir, err)
	} else if !stat.IsDir() {
		return fmt.Errorf("output directory %s is not a directory", dir)
	}

	quality := e.Quality
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	if err := imgio.Save(path, img, imgio.JPEGEncoder(quality)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
