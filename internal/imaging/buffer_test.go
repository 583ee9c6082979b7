package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestNewImageBuffer(t *testing.T) {
	buf := NewImageBuffer(4, 3)
	if buf.Width != 4 || buf.Height != 3 {
		t.Fatalf("dimensions: got %dx%d, want 4x3", buf.Width, buf.Height)
	}
	if buf.Stride != 12 {
		t.Errorf("Stride: got %d, want 12", buf.Stride)
	}
	if len(buf.Pix) != 36 {
		t.Errorf("len(Pix): got %d, want 36", len(buf.Pix))
	}
	if buf.Empty() {
		t.Error("4x3 buffer reported empty")
	}
	if !NewImageBuffer(0, 10).Empty() {
		t.Error("0x10 buffer should be empty")
	}
}

func TestFromImage_Normalizes(t *testing.T) {
	img := createInMemoryImage(10, 10, color.RGBA{255, 51, 0, 255})

	buf, err := FromImage(img)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}

	r, g, b := buf.At(5, 5)
	if r != 1 || g != 0.2 || b != 0 {
		t.Errorf("samples: got (%v,%v,%v), want (1,0.2,0)", r, g, b)
	}
}

func TestFromImage_Pattern(t *testing.T) {
	buf, err := FromImage(createPatternImage(20, 20))
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}

	tests := []struct {
		name    string
		x, y    int
		r, g, b float32
	}{
		{"red", 2, 2, 1, 0, 0},
		{"green", 15, 2, 0, 1, 0},
		{"blue", 2, 15, 0, 0, 1},
		{"white", 15, 15, 1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := buf.At(tt.x, tt.y)
			if r != tt.r || g != tt.g || b != tt.b {
				t.Errorf("got (%v,%v,%v), want (%v,%v,%v)", r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestFromImage_OffsetBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(5, 5, 15, 10))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	buf, err := FromImage(img)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}
	if buf.Width != 10 || buf.Height != 5 {
		t.Errorf("dimensions: got %dx%d, want 10x5", buf.Width, buf.Height)
	}
}

func TestFromImage_Rejects(t *testing.T) {
	tests := []struct {
		name string
		img  image.Image
		want error
	}{
		{"nil", nil, ErrEmptyRaster},
		{"zero width", image.NewRGBA(image.Rect(0, 0, 0, 10)), ErrEmptyRaster},
		{"gray", image.NewGray(image.Rect(0, 0, 4, 4)), ErrChannels},
		{"gray16", image.NewGray16(image.Rect(0, 0, 4, 4)), ErrChannels},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromImage(tt.img)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestToNRGBA_RoundTrip(t *testing.T) {
	src := createPatternImage(8, 8)
	buf, err := FromImage(src)
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}

	out := buf.ToNRGBA()
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			want := src.RGBAAt(x, y)
			got := out.NRGBAAt(x, y)
			if got.R != want.R || got.G != want.G || got.B != want.B || got.A != 255 {
				t.Fatalf("pixel (%d,%d): got %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{0, 0},
		{1, 255},
		{0.5, 128},
		{-0.3, 0},
		{1.7, 255},
		{0.2, 51},
	}
	for _, tt := range tests {
		if got := Quantize(tt.in); got != tt.want {
			t.Errorf("Quantize(%v): got %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSetClampsAndClone(t *testing.T) {
	buf := NewImageBuffer(2, 2)
	buf.Set(1, 1, 1.5, -0.5, 0.25)
	r, g, b := buf.At(1, 1)
	if r != 1 || g != 0 || b != 0.25 {
		t.Errorf("Set did not clamp: got (%v,%v,%v)", r, g, b)
	}

	c := buf.Clone()
	c.Fill(0.5, 0.5, 0.5)
	if r, _, _ := buf.At(1, 1); r != 1 {
		t.Error("Clone shares storage with its source")
	}
}
