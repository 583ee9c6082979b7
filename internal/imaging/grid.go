package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
)

// GridOptions configures a coordinate grid drawn over a rendered buffer.
//
// Spacing is measured in buffer pixels, so grid lines and labels name buffer
// coordinates even when the render is cropped or scaled.
type GridOptions struct {
	Spacing int    `json:"spacing"`
	Labels  bool   `json:"labels"`
	Color   string `json:"color"` // "#RRGGBB" or "#RRGGBBAA"; default semi-transparent red
}

var defaultGridColor = color.NRGBA{255, 0, 0, 128}

// drawGrid overlays grid lines on img in place. area is the buffer region
// img was rendered from and scale the render scale factor. Lines are placed on
// buffer coordinates inside area, so the work is bounded by the region size.
func drawGrid(img *image.NRGBA, g GridOptions, area image.Rectangle, scale float64) {
	if g.Spacing <= 0 {
		return
	}
	gridColor, err := parseHexColor(g.Color)
	if err != nil {
		gridColor = defaultGridColor
	}
	src := &image.Uniform{C: gridColor}
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	// Buffer coordinate to output pixel.
	toOut := func(v, o int) int {
		return int(math.Round(float64(v-o) * scale))
	}
	first := func(o int) int {
		return (o/g.Spacing + 1) * g.Spacing
	}

	var xs, ys []int
	last := -1
	for sx := first(area.Min.X); sx < area.Max.X; sx += g.Spacing {
		x := toOut(sx, area.Min.X)
		if x >= width {
			break
		}
		if x == last {
			continue
		}
		last = x
		draw.Draw(img, image.Rect(x, 0, x+1, height), src, image.Point{}, draw.Over)
		xs = append(xs, sx)
	}
	last = -1
	for sy := first(area.Min.Y); sy < area.Max.Y; sy += g.Spacing {
		y := toOut(sy, area.Min.Y)
		if y >= height {
			break
		}
		if y == last {
			continue
		}
		last = y
		draw.Draw(img, image.Rect(0, y, width, y+1), src, image.Point{}, draw.Over)
		ys = append(ys, sy)
	}

	if !g.Labels {
		return
	}
	fg := color.NRGBA{255, 255, 255, 255}
	bg := color.NRGBA{0, 0, 0, 180}
	for _, sy := range ys {
		for _, sx := range xs {
			label := fmt.Sprintf("%d,%d", sx, sy)
			drawLabel(img, toOut(sx, area.Min.X)+2, toOut(sy, area.Min.Y)+2, label, fg, bg)
		}
	}
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

// glyphs is a 3x5 pixel font for digits and comma.
var glyphs = map[rune][]string{
	'0': {"111", "101", "101", "101", "111"},
	'1': {"010", "110", "010", "010", "111"},
	'2': {"111", "001", "111", "100", "111"},
	'3': {"111", "001", "111", "001", "111"},
	'4': {"101", "101", "111", "001", "001"},
	'5': {"111", "100", "111", "001", "111"},
	'6': {"111", "100", "111", "101", "111"},
	'7': {"111", "001", "001", "001", "001"},
	'8': {"111", "101", "111", "101", "111"},
	'9': {"111", "101", "111", "001", "111"},
	',': {"000", "000", "000", "010", "010"},
}

// drawLabel draws a text label with a translucent background box.
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.NRGBA) {
	const charWidth, labelHeight = 4, 7

	box := image.Rect(x-1, y-1, x+len(text)*charWidth, y+labelHeight).Intersect(img.Bounds())
	draw.Draw(img, box, &image.Uniform{C: bg}, image.Point{}, draw.Over)

	cx := x
	for _, ch := range text {
		glyph, ok := glyphs[ch]
		if !ok {
			cx += charWidth
			continue
		}
		for row, line := range glyph {
			for col, pixel := range line {
				p := image.Pt(cx+col, y+row)
				if pixel == '1' && p.In(img.Bounds()) {
					img.SetNRGBA(p.X, p.Y, fg)
				}
			}
		}
		cx += charWidth
	}
}
