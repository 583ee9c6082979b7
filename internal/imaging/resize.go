package imaging

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/parallel"
)

// DefaultPreviewScale is the fraction of the full-resolution size used for previews.
const DefaultPreviewScale = 0.25

// PreviewSize returns scale × (width, height), rounded down to whole pixels.
// Each dimension is at least one pixel.
func PreviewSize(width, height int, scale float64) (int, int) {
	pw := int(float64(width) * scale)
	ph := int(float64(height) * scale)
	if pw < 1 {
		pw = 1
	}
	if ph < 1 {
		ph = 1
	}
	return pw, ph
}

// ValidateScale checks that a preview scale lies in (0,1].
func ValidateScale(scale float64) error {
	if !(scale > 0 && scale <= 1) {
		return fmt.Errorf("preview scale %v outside (0,1]", scale)
	}
	return nil
}

// Downsample shrinks a buffer to scale × its size by area averaging: each
// output pixel is the mean of the source area it covers, with partially
// covered source pixels weighted by their overlap. A scale of 1 returns a copy.
func Downsample(buf *ImageBuffer, scale float64) (*ImageBuffer, error) {
	if err := ValidateScale(scale); err != nil {
		return nil, err
	}
	if buf.Empty() {
		return nil, ErrEmptyRaster
	}
	if scale == 1 {
		return buf.Clone(), nil
	}
	pw, ph := PreviewSize(buf.Width, buf.Height, scale)
	xw := areaWeights(buf.Width, pw)
	yw := areaWeights(buf.Height, ph)

	// Horizontal pass: buf.Height rows of pw pixels.
	tmp := NewImageBuffer(pw, buf.Height)
	parallel.Line(buf.Height, func(start, end int) {
		for y := start; y < end; y++ {
			src, dst := buf.Row(y), tmp.Row(y)
			for ox, taps := range xw {
				var r, g, b float64
				for _, tp := range taps {
					i := tp.index * Channels
					r += float64(src[i]) * tp.weight
					g += float64(src[i+1]) * tp.weight
					b += float64(src[i+2]) * tp.weight
				}
				dst[ox*Channels] = float32(r)
				dst[ox*Channels+1] = float32(g)
				dst[ox*Channels+2] = float32(b)
			}
		}
	})

	out := NewImageBuffer(pw, ph)
	parallel.Line(ph, func(start, end int) {
		for oy := start; oy < end; oy++ {
			dst := out.Row(oy)
			for _, tp := range yw[oy] {
				src := tmp.Row(tp.index)
				for i := range dst {
					dst[i] += float32(float64(src[i]) * tp.weight)
				}
			}
			for i, v := range dst {
				dst[i] = clamp32(v)
			}
		}
	})
	return out, nil
}

type tap struct {
	index  int
	weight float64
}

// areaWeights returns, for each of m output pixels, the source pixels of an
// n-pixel axis it covers and their normalized overlap weights.
func areaWeights(n, m int) [][]tap {
	f := float64(n) / float64(m)
	out := make([][]tap, m)
	for o := range out {
		lo, hi := float64(o)*f, float64(o+1)*f
		if hi > float64(n) {
			hi = float64(n)
		}
		for j := int(lo); j < n && float64(j) < hi; j++ {
			w := math.Min(float64(j+1), hi) - math.Max(float64(j), lo)
			if w > 0 {
				out[o] = append(out[o], tap{index: j, weight: w / (hi - lo)})
			}
		}
	}
	return out
}
