package color

import (
	stdcolor "image/color"
	"math"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestTransferFunctions(t *testing.T) {
	tests := []struct {
		srgb, linear float64
	}{
		{0, 0},
		{1, 1},
		{0.04045, 0.04045 / 12.92},
		{0.5, 0.21404114},
	}
	for _, tt := range tests {
		if got := SRGBToLinear(tt.srgb); math.Abs(got-tt.linear) > 1e-6 {
			t.Errorf("SRGBToLinear(%v) = %v, want %v", tt.srgb, got, tt.linear)
		}
		if got := LinearToSRGB(tt.linear); math.Abs(got-tt.srgb) > 1e-6 {
			t.Errorf("LinearToSRGB(%v) = %v, want %v", tt.linear, got, tt.srgb)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for i := 0; i <= 255; i++ {
		in := stdcolor.RGBA{R: uint8(i), G: uint8(255 - i), B: uint8(i / 2), A: uint8(i)}
		got := ToRGBA(Encode(Linearize(FromRGBA(in))))
		if got != in {
			t.Fatalf("round trip %v = %v", in, got)
		}
	}
}

func TestLinearizeKeepsAlpha(t *testing.T) {
	c := Linearize(gputypes.Color{R: 0.5, G: 0.5, B: 0.5, A: 0.5})
	if c.A != 0.5 {
		t.Errorf("alpha = %v, want 0.5", c.A)
	}
	if c.R >= 0.5 {
		t.Errorf("linear mid-grey = %v, want darker than 0.5", c.R)
	}
}

func TestToRGBAClamps(t *testing.T) {
	got := ToRGBA(gputypes.Color{R: -1, G: 2, B: 0.5, A: 1})
	want := stdcolor.RGBA{R: 0, G: 255, B: 128, A: 255}
	if got != want {
		t.Errorf("ToRGBA = %v, want %v", got, want)
	}
}
