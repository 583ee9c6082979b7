package imaging

import colorful "github.com/lucasb-eyer/go-colorful"

// RGBToHSV converts normalized RGB to HSV with hue in degrees [0,360) and
// saturation and value in [0,1]. Value is max(r,g,b) and saturation is
// (max-min)/max, or 0 for black.
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	return colorful.Color{R: r, G: g, B: b}.Hsv()
}

// HSVToRGB is the inverse of RGBToHSV.
func HSVToRGB(h, s, v float64) (r, g, b float64) {
	c := colorful.Hsv(h, s, v)
	return c.R, c.G, c.B
}

// ModulateSaturation round-trips one pixel through HSV, replacing its
// saturation with fn(s) while keeping hue and value. The result is clamped to [0,1].
func ModulateSaturation(r, g, b float64, fn func(s float64) float64) (float64, float64, float64) {
	h, s, v := RGBToHSV(r, g, b)
	r, g, b = HSVToRGB(h, fn(s), v)
	return Clamp01(r), Clamp01(g), Clamp01(b)
}
