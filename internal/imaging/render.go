package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// Region represents a rectangular region within an image.
//
// (X1, Y1) is the top-left corner (inclusive) and (X2, Y2) the bottom-right
// corner (exclusive).
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Validate checks the region against a width × height buffer.
func (r Region) Validate(width, height int) error {
	if r.X1 < 0 || r.Y1 < 0 || r.X2 > width || r.Y2 > height {
		return fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (0,0)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, width, height)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
	}
	return nil
}

// MaxRenderScale is the largest accepted RenderOptions.Scale.
const MaxRenderScale = 4.0

// RenderOptions selects what part of a buffer to render and how.
type RenderOptions struct {
	// Region limits the render to part of the buffer; nil renders everything.
	Region *Region

	// Scale resizes the result with a Lanczos filter; 0 means 1. Values must
	// lie in (0, MaxRenderScale].
	Scale float64

	// Grid draws a coordinate grid over the result when non-nil.
	Grid *GridOptions
}

// RenderResult contains a rendered buffer encoded as base64 PNG.
type RenderResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	GridSpacing int    `json:"grid_spacing,omitempty"`
}

// Render quantizes a buffer to 8 bits and encodes it as base64 PNG.
func Render(buf *ImageBuffer, opts RenderOptions) (*RenderResult, error) {
	if buf.Empty() {
		return nil, ErrEmptyRaster
	}

	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	if !(scale > 0 && scale <= MaxRenderScale) {
		return nil, fmt.Errorf("scale %v outside (0,%v]", opts.Scale, MaxRenderScale)
	}

	img := buf.ToNRGBA()
	area := image.Rect(0, 0, buf.Width, buf.Height)
	if opts.Region != nil {
		r := *opts.Region
		if err := r.Validate(buf.Width, buf.Height); err != nil {
			return nil, err
		}
		area = image.Rect(r.X1, r.Y1, r.X2, r.Y2)
		img = imaging.Crop(img, area)
	}

	if scale != 1.0 {
		newWidth := int(float64(img.Bounds().Dx()) * scale)
		newHeight := int(float64(img.Bounds().Dy()) * scale)
		if newWidth < 1 {
			newWidth = 1
		}
		if newHeight < 1 {
			newHeight = 1
		}
		img = imaging.Resize(img, newWidth, newHeight, imaging.Lanczos)
	}

	result := &RenderResult{
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
		MimeType: "image/png",
	}
	if opts.Grid != nil && opts.Grid.Spacing > 0 {
		drawGrid(img, *opts.Grid, area, scale)
		result.GridSpacing = opts.Grid.Spacing
	}

	var out bytes.Buffer
	if err := png.Encode(&out, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	result.ImageBase64 = base64.StdEncoding.EncodeToString(out.Bytes())
	return result, nil
}
