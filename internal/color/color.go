// Package color converts colours between 8-bit sRGB and the float components
// the GPU clears and blends with.
package color

import (
	stdcolor "image/color"
	"math"

	"github.com/gogpu/gputypes"
)

// SRGBToLinear applies the sRGB EOTF to a component in [0, 1].
func SRGBToLinear(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

// LinearToSRGB applies the sRGB OETF to a component in [0, 1].
func LinearToSRGB(l float64) float64 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1.0/2.4) - 0.055
}

// Linearize converts the RGB components of c from sRGB to linear.
// Alpha is always linear.
func Linearize(c gputypes.Color) gputypes.Color {
	return gputypes.Color{
		R: SRGBToLinear(c.R),
		G: SRGBToLinear(c.G),
		B: SRGBToLinear(c.B),
		A: c.A,
	}
}

// Encode converts the RGB components of c from linear to sRGB.
func Encode(c gputypes.Color) gputypes.Color {
	return gputypes.Color{
		R: LinearToSRGB(c.R),
		G: LinearToSRGB(c.G),
		B: LinearToSRGB(c.B),
		A: c.A,
	}
}

// FromRGBA maps non-premultiplied 8-bit components to [0, 1].
func FromRGBA(c stdcolor.RGBA) gputypes.Color {
	return gputypes.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

// ToRGBA maps components to 8 bits, clamping to [0, 1] and rounding.
func ToRGBA(c gputypes.Color) stdcolor.RGBA {
	return stdcolor.RGBA{
		R: clampAndRound(c.R),
		G: clampAndRound(c.G),
		B: clampAndRound(c.B),
		A: clampAndRound(c.A),
	}
}

func clampAndRound(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
