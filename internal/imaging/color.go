package imaging

import (
	"fmt"
	"math"
)

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSVColor represents a color in HSV (Hue, Saturation, Value) color space.
//
// This is the space the adjustment engine edits saturation in:
//   - Hue is the color type in degrees (0=red, 120=green, 240=blue)
//   - Saturation is color intensity, 0 (gray) to 1 (vivid)
//   - Value is the largest RGB component, 0 (black) to 1
type HSVColor struct {
	H float64 `json:"h"` // Hue: 0-360 degrees
	S float64 `json:"s"` // Saturation: 0-1
	V float64 `json:"v"` // Value: 0-1
}

// ColorResult contains a sampled color in multiple representations.
type ColorResult struct {
	Hex string    `json:"hex"` // Hex format "#RRGGBB"
	RGB RGBColor  `json:"rgb"` // 8-bit components, as exported
	HSV HSVColor  `json:"hsv"` // HSV representation of the float samples
	Raw []float32 `json:"raw"` // Normalized float samples R,G,B
}

// SampleColor reads the color of pixel (x, y).
//
// Returns an error if the coordinates fall outside the buffer. The 8-bit values
// use the same quantization as export, so RGB matches what a JPEG would contain.
func SampleColor(buf *ImageBuffer, x, y int) (*ColorResult, error) {
	if buf.Empty() || !buf.InBounds(x, y) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	r, g, b := buf.At(x, y)
	r8, g8, b8 := Quantize(r), Quantize(g), Quantize(b)
	h, s, v := RGBToHSV(float64(r), float64(g), float64(b))

	return &ColorResult{
		Hex: fmt.Sprintf("#%02X%02X%02X", r8, g8, b8),
		RGB: RGBColor{R: r8, G: g8, B: b8},
		HSV: HSVColor{H: round3(h), S: round3(s), V: round3(v)},
		Raw: []float32{r, g, b},
	}, nil
}

// LabeledPoint represents a pixel coordinate with an optional descriptive label.
type LabeledPoint struct {
	X     int    // X coordinate (0-based)
	Y     int    // Y coordinate (0-based)
	Label string // Optional descriptive label for this point
}

// LabeledColorResult combines a color sample with its location and optional label.
type LabeledColorResult struct {
	Label string      `json:"label,omitempty"`
	X     int         `json:"x"`
	Y     int         `json:"y"`
	Color ColorResult `json:"color"`
}

// MultiColorResult contains color samples from multiple points, in input order.
type MultiColorResult struct {
	Samples []LabeledColorResult `json:"samples"`
}

// SampleColorsMulti samples several points in one call. If any point is out of
// bounds, no partial results are returned.
func SampleColorsMulti(buf *ImageBuffer, points []LabeledPoint) (*MultiColorResult, error) {
	results := make([]LabeledColorResult, 0, len(points))

	for _, p := range points {
		c, err := SampleColor(buf, p.X, p.Y)
		if err != nil {
			return nil, fmt.Errorf("failed to sample point (%d,%d): %w", p.X, p.Y, err)
		}
		results = append(results, LabeledColorResult{
			Label: p.Label,
			X:     p.X,
			Y:     p.Y,
			Color: *c,
		})
	}

	return &MultiColorResult{Samples: results}, nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
