// Package colourspace converts RGB samples into the encodings used for colour
// comparison and measures distances between them.
//
// All conversions produce 8-bit style encodings (the same integer precision as the
// input samples) so that distance thresholds expressed in "units" stay meaningful
// across spaces.
package colourspace

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Sample is a colour in its original storage encoding: R, G, B in 0-255.
type Sample [3]int

// Vector is a colour in a comparison space. It has three components, or two when
// the luminance component has been dropped.
type Vector []float64

// MaxChannel is the largest valid channel value of a Sample.
const MaxChannel = 255

// Valid reports the index of the first channel outside 0-255, or -1.
func (s Sample) Valid() int {
	for i, v := range s {
		if v < 0 || v > MaxChannel {
			return i
		}
	}
	return -1
}

// RGBA returns the sample as an opaque color.RGBA. Channels are assumed valid.
func (s Sample) RGBA() color.RGBA {
	return color.RGBA{R: uint8(s[0]), G: uint8(s[1]), B: uint8(s[2]), A: 255}
}

// FromColor converts any color.Color into a Sample, discarding alpha.
func FromColor(c color.Color) Sample {
	r, g, b, _ := c.RGBA()
	return Sample{int(r >> 8), int(g >> 8), int(b >> 8)}
}

// Space identifies a comparison colour space.
type Space string

const (
	// RGB leaves samples untouched.
	RGB Space = "rgb"

	// Lab is CIE L*a*b* (D65) encoded as L*255/100, a+128, b+128.
	Lab Space = "lab"

	// Luv is CIE L*u*v* (D65) encoded as L*255/100, 255/354*(u+134), 255/262*(v+140).
	Luv Space = "luv"

	// HSV is encoded as H/2 (0-180), S*255, V*255.
	HSV Space = "hsv"

	// YCrCb is BT.601 full-range luma followed by the red and blue difference channels.
	YCrCb Space = "ycrcb"
)

// ValidSpaces returns every supported comparison space.
func ValidSpaces() []Space {
	return []Space{RGB, Lab, Luv, HSV, YCrCb}
}

// ParseSpace resolves a space identifier, case-insensitively.
func ParseSpace(s string) (Space, error) {
	want := Space(strings.ToLower(strings.TrimSpace(s)))
	for _, sp := range ValidSpaces() {
		if sp == want {
			return sp, nil
		}
	}
	return "", fmt.Errorf("unknown colour space: %q (valid: %v)", s, ValidSpaces())
}

// Convert maps an RGB sample into the given space. Every component is rounded to an
// integer, as the input is. Unknown spaces fall back to the identity.
func Convert(s Sample, space Space) Vector {
	switch space {
	case Lab:
		l, a, b := toColorful(s).Lab()
		return quantise(l*255, a*100+128, b*100+128)
	case Luv:
		l, u, v := toColorful(s).Luv()
		return quantise(l*255, 255.0/354.0*(u*100+134), 255.0/262.0*(v*100+140))
	case HSV:
		h, sat, v := toColorful(s).Hsv()
		return quantise(h/2, sat*255, v*255)
	case YCrCb:
		y, cb, cr := color.RGBToYCbCr(uint8(s[0]), uint8(s[1]), uint8(s[2]))
		return Vector{float64(y), float64(cr), float64(cb)}
	default:
		return Vector{float64(s[0]), float64(s[1]), float64(s[2])}
	}
}

// Project converts s and optionally drops the first (luminance) component.
func Project(s Sample, space Space, ignoreLuminance bool) Vector {
	v := Convert(s, space)
	if ignoreLuminance {
		return v[1:]
	}
	return v
}

func toColorful(s Sample) colorful.Color {
	return colorful.Color{
		R: float64(s[0]) / MaxChannel,
		G: float64(s[1]) / MaxChannel,
		B: float64(s[2]) / MaxChannel,
	}
}

// quantise rounds and saturates each component into 0-255.
func quantise(c ...float64) Vector {
	out := make(Vector, len(c))
	for i, v := range c {
		out[i] = math.Max(0, math.Min(MaxChannel, math.Round(v)))
	}
	return out
}
