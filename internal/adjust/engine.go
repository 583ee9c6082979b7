// Package adjust implements the tonal and color adjustments applied to an
// image buffer: exposure, then saturation, then vibrance.
package adjust

import (
	"math"

	"github.com/anthonynsimon/bild/parallel"

	"github.com/ironsheep/raw-editor-mcp/internal/imaging"
)

// Apply returns a new buffer holding buf adjusted by p. The input is not modified.
//
// Per pixel, in this order:
//
//  1. Exposure: every sample is multiplied by 2^Exposure and clamped to [0,1].
//  2. The clamped RGB is converted to HSV.
//  3. Saturation: s' = clamp(s + s*Saturation).
//  4. Vibrance: s'' = clamp(s' + s'*Vibrance*(1-s')).
//  5. HSV is converted back to RGB and clamped to [0,1].
//
// Vibrance reads the post-saturation value, so the order of steps 3 and 4 changes
// the result. Rows are processed in parallel; each output pixel depends only on
// the matching input pixel.
func Apply(buf *imaging.ImageBuffer, p Parameters) *imaging.ImageBuffer {
	out := imaging.NewImageBuffer(buf.Width, buf.Height)
	if buf.Empty() {
		return out
	}

	gain := math.Pow(2, p.Exposure)
	colorPass := p.Saturation != 0 || p.Vibrance != 0
	shape := func(s float64) float64 {
		return Vibrate(Saturate(s, p.Saturation), p.Vibrance)
	}

	parallel.Line(buf.Height, func(start, end int) {
		for y := start; y < end; y++ {
			src := buf.Row(y)
			dst := out.Row(y)
			for i := 0; i+2 < len(src); i += imaging.Channels {
				r := imaging.Clamp01(float64(src[i]) * gain)
				g := imaging.Clamp01(float64(src[i+1]) * gain)
				b := imaging.Clamp01(float64(src[i+2]) * gain)
				if colorPass {
					r, g, b = imaging.ModulateSaturation(r, g, b, shape)
				}
				dst[i] = float32(r)
				dst[i+1] = float32(g)
				dst[i+2] = float32(b)
			}
		}
	})

	return out
}

// Saturate scales saturation s proportionally by amount: s + s*amount, clamped.
func Saturate(s, amount float64) float64 {
	return imaging.Clamp01(s + s*amount)
}

// Vibrate applies the vibrance curve s + s*amount*(1-s), clamped. The boost
// vanishes at s=0 and s=1.
func Vibrate(s, amount float64) float64 {
	return imaging.Clamp01(s + s*amount*(1-s))
}
