package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Channels is the number of interleaved samples per pixel (R, G, B).
const Channels = 3

var (
	// ErrEmptyRaster is returned when a raster has no pixels.
	ErrEmptyRaster = errors.New("raster is empty")

	// ErrChannels is returned when a raster carries fewer than three color channels.
	ErrChannels = errors.New("raster has fewer than 3 channels")
)

// ImageBuffer is a 3-channel raster of normalized float32 samples in [0,1].
type ImageBuffer struct {
	// Width is the raster width in pixels.
	Width int

	// Height is the raster height in pixels.
	Height int

	// Stride is the number of samples per row (Channels × Width).
	Stride int

	// Pix holds Height rows of Stride samples, interleaved R,G,B.
	Pix []float32
}

// NewImageBuffer allocates a zeroed (black) buffer of the given dimensions.
func NewImageBuffer(width, height int) *ImageBuffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	stride := width * Channels
	return &ImageBuffer{
		Width:  width,
		Height: height,
		Stride: stride,
		Pix:    make([]float32, stride*height),
	}
}

// Empty reports whether the buffer has no pixels.
func (b *ImageBuffer) Empty() bool {
	return b == nil || b.Width == 0 || b.Height == 0
}

// Clone returns a deep copy of the buffer.
func (b *ImageBuffer) Clone() *ImageBuffer {
	out := &ImageBuffer{
		Width:  b.Width,
		Height: b.Height,
		Stride: b.Stride,
		Pix:    make([]float32, len(b.Pix)),
	}
	copy(out.Pix, b.Pix)
	return out
}

// InBounds reports whether (x, y) addresses a pixel of the buffer.
func (b *ImageBuffer) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Width && y < b.Height
}

// At returns the samples of pixel (x, y). The caller must check InBounds.
func (b *ImageBuffer) At(x, y int) (r, g, bl float32) {
	i := y*b.Stride + x*Channels
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2]
}

// Set stores the samples of pixel (x, y), clamped to [0,1].
func (b *ImageBuffer) Set(x, y int, r, g, bl float32) {
	i := y*b.Stride + x*Channels
	b.Pix[i] = clamp32(r)
	b.Pix[i+1] = clamp32(g)
	b.Pix[i+2] = clamp32(bl)
}

// Fill sets every pixel to the same color.
func (b *ImageBuffer) Fill(r, g, bl float32) {
	r, g, bl = clamp32(r), clamp32(g), clamp32(bl)
	for i := 0; i+2 < len(b.Pix); i += Channels {
		b.Pix[i] = r
		b.Pix[i+1] = g
		b.Pix[i+2] = bl
	}
}

// Row returns the samples of row y.
func (b *ImageBuffer) Row(y int) []float32 {
	start := y * b.Stride
	return b.Pix[start : start+b.Width*Channels]
}

// FromImage normalizes an 8-bit raster into a float buffer by dividing each
// channel by 255. Alpha is discarded.
//
// Grayscale color models are rejected with ErrChannels; rasters with no pixels
// are rejected with ErrEmptyRaster.
func FromImage(img image.Image) (*ImageBuffer, error) {
	if img == nil {
		return nil, ErrEmptyRaster
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, ErrEmptyRaster
	}
	switch img.ColorModel() {
	case color.GrayModel, color.Gray16Model, color.AlphaModel, color.Alpha16Model:
		return nil, fmt.Errorf("%w: color model %T", ErrChannels, img)
	}

	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) {
		nrgba = imaging.Clone(img)
	}
	return fromNRGBA(nrgba), nil
}

func fromNRGBA(src *image.NRGBA) *ImageBuffer {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	out := NewImageBuffer(w, h)
	for y := 0; y < h; y++ {
		in := src.Pix[y*src.Stride : y*src.Stride+w*4]
		row := out.Row(y)
		for x := 0; x < w; x++ {
			row[x*Channels] = float32(in[x*4]) / 255
			row[x*Channels+1] = float32(in[x*4+1]) / 255
			row[x*Channels+2] = float32(in[x*4+2]) / 255
		}
	}
	return out
}

// ToNRGBA quantizes the buffer to an opaque 8-bit image. Each sample becomes
// round(v*255), clamped to [0,255].
func (b *ImageBuffer) ToNRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		row := b.Row(y)
		out := img.Pix[y*img.Stride : y*img.Stride+b.Width*4]
		for x := 0; x < b.Width; x++ {
			out[x*4] = Quantize(row[x*Channels])
			out[x*4+1] = Quantize(row[x*Channels+1])
			out[x*4+2] = Quantize(row[x*Channels+2])
			out[x*4+3] = 0xff
		}
	}
	return img
}

// Quantize converts a normalized sample to 8 bits.
func Quantize(v float32) uint8 {
	f := math.Round(float64(v) * 255)
	if f <= 0 || math.IsNaN(f) {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return uint8(f)
}

// Clamp01 limits v to [0,1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v >= 0 {
		return v
	}
	return 0
}

func clamp32(v float32) float32 {
	return float32(Clamp01(float64(v)))
}
