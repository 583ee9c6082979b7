package imaging

import (
	"testing"
)

func newFilledBuffer(width, height int, r, g, b float32) *ImageBuffer {
	buf := NewImageBuffer(width, height)
	buf.Fill(r, g, b)
	return buf
}

func TestSampleColor(t *testing.T) {
	buf := newFilledBuffer(100, 100, 1, 128.0/255, 64.0/255)

	result, err := SampleColor(buf, 50, 50)
	if err != nil {
		t.Fatalf("SampleColor failed: %v", err)
	}

	if result.Hex != "#FF8040" {
		t.Errorf("Hex: got %s, want #FF8040", result.Hex)
	}
	if result.RGB.R != 255 || result.RGB.G != 128 || result.RGB.B != 64 {
		t.Errorf("RGB: got (%d,%d,%d), want (255,128,64)", result.RGB.R, result.RGB.G, result.RGB.B)
	}
	if result.HSV.V != 1 {
		t.Errorf("HSV.V: got %v, want 1", result.HSV.V)
	}
	if len(result.Raw) != 3 {
		t.Errorf("Raw: got %d samples, want 3", len(result.Raw))
	}
}

func TestSampleColor_KnownColors(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float32
		wantHex string
		wantHue float64
	}{
		{"pure red", 1, 0, 0, "#FF0000", 0},
		{"pure green", 0, 1, 0, "#00FF00", 120},
		{"pure blue", 0, 0, 1, "#0000FF", 240},
		{"white", 1, 1, 1, "#FFFFFF", 0},
		{"black", 0, 0, 0, "#000000", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := newFilledBuffer(10, 10, tt.r, tt.g, tt.b)
			result, err := SampleColor(buf, 5, 5)
			if err != nil {
				t.Fatalf("SampleColor failed: %v", err)
			}
			if result.Hex != tt.wantHex {
				t.Errorf("Hex: got %s, want %s", result.Hex, tt.wantHex)
			}
			if result.HSV.H != tt.wantHue {
				t.Errorf("Hue: got %v, want %v", result.HSV.H, tt.wantHue)
			}
		})
	}
}

func TestSampleColor_OutOfBounds(t *testing.T) {
	buf := newFilledBuffer(100, 100, 1, 0, 0)

	tests := []struct {
		name string
		x, y int
	}{
		{"negative x", -1, 50},
		{"negative y", 50, -1},
		{"x too large", 100, 50},
		{"y too large", 50, 100},
		{"both too large", 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SampleColor(buf, tt.x, tt.y)
			if err == nil {
				t.Error("SampleColor should fail for out-of-bounds coordinates")
			}
		})
	}
}

func TestSampleColorsMulti(t *testing.T) {
	buf, err := FromImage(createPatternImage(100, 100))
	if err != nil {
		t.Fatalf("FromImage failed: %v", err)
	}

	points := []LabeledPoint{
		{X: 25, Y: 25, Label: "red"},
		{X: 75, Y: 25, Label: "green"},
		{X: 25, Y: 75, Label: "blue"},
		{X: 75, Y: 75, Label: "white"},
	}

	result, err := SampleColorsMulti(buf, points)
	if err != nil {
		t.Fatalf("SampleColorsMulti failed: %v", err)
	}
	if len(result.Samples) != 4 {
		t.Fatalf("expected 4 samples, got %d", len(result.Samples))
	}

	expectedHex := []string{"#FF0000", "#00FF00", "#0000FF", "#FFFFFF"}
	for i, sample := range result.Samples {
		if sample.Label != points[i].Label {
			t.Errorf("sample %d label: got %s, want %s", i, sample.Label, points[i].Label)
		}
		if sample.Color.Hex != expectedHex[i] {
			t.Errorf("sample %d (%s) hex: got %s, want %s",
				i, sample.Label, sample.Color.Hex, expectedHex[i])
		}
	}
}

func TestSampleColorsMulti_OutOfBounds(t *testing.T) {
	buf := newFilledBuffer(100, 100, 1, 0, 0)

	points := []LabeledPoint{
		{X: 50, Y: 50, Label: "valid"},
		{X: 200, Y: 50, Label: "invalid"},
	}

	if _, err := SampleColorsMulti(buf, points); err == nil {
		t.Error("SampleColorsMulti should fail when any point is out of bounds")
	}
}
