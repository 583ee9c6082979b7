package imaging

// StatsResult summarizes the tonal distribution of a buffer region.
type StatsResult struct {
	Region         Region   `json:"region"`
	TotalPixels    int      `json:"total_pixels"`
	MeanRGB        RGBColor `json:"mean_rgb"`
	MeanLuminance  float64  `json:"mean_luminance"`
	MeanSaturation float64  `json:"mean_saturation"`
	ClippedHighs   float64  `json:"clipped_highlights"` // fraction with any channel at 255
	ClippedShadows float64  `json:"clipped_shadows"`    // fraction with every channel at 0
	Histogram      []int    `json:"luminance_histogram"`
}

// HistogramBuckets is the number of luminance histogram bins.
const HistogramBuckets = 16

// RegionStats measures mean color, mean HSV saturation, clipping, and a
// luminance histogram over region, or over the whole buffer when region is nil.
//
// Luminance uses Rec. 709 weights on the stored samples. A sample counts as
// clipped when it quantizes to 255 (highlights) or 0 (shadows).
func RegionStats(buf *ImageBuffer, region *Region) (*StatsResult, error) {
	if buf.Empty() {
		return nil, ErrEmptyRaster
	}
	r := Region{X1: 0, Y1: 0, X2: buf.Width, Y2: buf.Height}
	if region != nil {
		if err := region.Validate(buf.Width, buf.Height); err != nil {
			return nil, err
		}
		r = *region
	}

	var sumR, sumG, sumB, sumL, sumS float64
	var highs, shadows int
	hist := make([]int, HistogramBuckets)

	for y := r.Y1; y < r.Y2; y++ {
		row := buf.Row(y)
		for x := r.X1; x < r.X2; x++ {
			i := x * Channels
			rv, gv, bv := float64(row[i]), float64(row[i+1]), float64(row[i+2])
			sumR += rv
			sumG += gv
			sumB += bv

			l := Clamp01(0.2126*rv + 0.7152*gv + 0.0722*bv)
			sumL += l
			bucket := int(l * HistogramBuckets)
			if bucket >= HistogramBuckets {
				bucket = HistogramBuckets - 1
			}
			hist[bucket]++

			_, s, _ := RGBToHSV(rv, gv, bv)
			sumS += s

			q0, q1, q2 := Quantize(row[i]), Quantize(row[i+1]), Quantize(row[i+2])
			if q0 == 255 || q1 == 255 || q2 == 255 {
				highs++
			}
			if q0 == 0 && q1 == 0 && q2 == 0 {
				shadows++
			}
		}
	}

	n := float64((r.X2 - r.X1) * (r.Y2 - r.Y1))
	return &StatsResult{
		Region:      r,
		TotalPixels: int(n),
		MeanRGB: RGBColor{
			R: Quantize(float32(sumR / n)),
			G: Quantize(float32(sumG / n)),
			B: Quantize(float32(sumB / n)),
		},
		MeanLuminance:  round3(sumL / n),
		MeanSaturation: round3(sumS / n),
		ClippedHighs:   round3(float64(highs) / n),
		ClippedShadows: round3(float64(shadows) / n),
		Histogram:      hist,
	}, nil
}
