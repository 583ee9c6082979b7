package imaging

import (
	"math"
	"math/rand"
	"testing"
)

func TestRGBToHSV_KnownColors(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		h, s, v float64
	}{
		{"red", 1, 0, 0, 0, 1, 1},
		{"green", 0, 1, 0, 120, 1, 1},
		{"blue", 0, 0, 1, 240, 1, 1},
		{"black", 0, 0, 0, 0, 0, 0},
		{"white", 1, 1, 1, 0, 0, 1},
		{"half red", 0.5, 0.25, 0.25, 0, 0.5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := RGBToHSV(tt.r, tt.g, tt.b)
			if math.Abs(h-tt.h) > 1e-9 || math.Abs(s-tt.s) > 1e-9 || math.Abs(v-tt.v) > 1e-9 {
				t.Errorf("got (%v,%v,%v), want (%v,%v,%v)", h, s, v, tt.h, tt.s, tt.v)
			}
		})
	}
}

func TestHSV_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		r, g, b := rng.Float64(), rng.Float64(), rng.Float64()
		r2, g2, b2 := HSVToRGB(RGBToHSV(r, g, b))
		if math.Abs(r-r2) > 1e-9 || math.Abs(g-g2) > 1e-9 || math.Abs(b-b2) > 1e-9 {
			t.Fatalf("round trip (%v,%v,%v) -> (%v,%v,%v)", r, g, b, r2, g2, b2)
		}
	}
}

func TestModulateSaturation_Desaturate(t *testing.T) {
	r, g, b := ModulateSaturation(0.9, 0.3, 0.1, func(float64) float64 { return 0 })
	if r != g || g != b {
		t.Errorf("expected gray, got (%v,%v,%v)", r, g, b)
	}
	if r != 0.9 {
		t.Errorf("value not preserved: got %v, want 0.9", r)
	}
}
