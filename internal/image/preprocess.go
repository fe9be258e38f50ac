package image

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/jmylchreest/dynpal/internal/colourspace"
)

// DefaultWidth is the width images are resized to before sampling.
const DefaultWidth = 300

// DefaultDarkenRatio scales the HSV value channel when Darken is set.
const DefaultDarkenRatio = 0.75

// PreprocessOptions selects the filters applied before sampling. Zero values
// disable a step. Steps run in field order.
type PreprocessOptions struct {
	// Width resizes to this many pixels wide, keeping the aspect ratio.
	Width int

	// Simplify is the radius of a morphological close followed by an open, which
	// flattens small colour details into their surroundings.
	Simplify float64

	// Blur is the sigma of a gaussian blur.
	Blur float64

	// MedianBlur is the radius of a median filter.
	MedianBlur float64

	// MeanBlur is the radius of a box filter.
	MeanBlur float64

	// Darken multiplies the HSV value of every pixel by DefaultDarkenRatio.
	Darken bool

	// NormaliseContrast equalises the luma histogram.
	NormaliseContrast bool

	// HueQuantize bins hue and saturation into this many levels.
	HueQuantize int

	// Quantize bins every RGB channel into this many levels.
	Quantize int
}

// DefaultPreprocessOptions resizes to DefaultWidth and does nothing else.
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{Width: DefaultWidth}
}

// Validate rejects negative sizes and bin counts.
func (o PreprocessOptions) Validate() error {
	if o.Width < 0 {
		return fmt.Errorf("width must not be negative, got %d", o.Width)
	}
	for name, v := range map[string]float64{"simplify": o.Simplify, "blur": o.Blur, "median blur": o.MedianBlur, "mean blur": o.MeanBlur} {
		if v < 0 {
			return fmt.Errorf("%s radius must not be negative, got %g", name, v)
		}
	}
	if o.HueQuantize < 0 || o.HueQuantize > 180 {
		return fmt.Errorf("hue quantize bins must be 0-180, got %d", o.HueQuantize)
	}
	if o.Quantize < 0 || o.Quantize > 255 {
		return fmt.Errorf("quantize bins must be 0-255, got %d", o.Quantize)
	}
	return nil
}

// Preprocess applies the enabled steps of opts to img.
func Preprocess(img image.Image, opts PreprocessOptions) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid preprocess options: %w", err)
	}

	out := img
	if opts.Width > 0 && out.Bounds().Dx() != opts.Width {
		out = imaging.Resize(out, opts.Width, 0, imaging.Lanczos)
	}
	if opts.Simplify > 0 {
		out = simplify(out, opts.Simplify)
	}
	if opts.Blur > 0 {
		out = imaging.Blur(out, opts.Blur)
	}
	if opts.MedianBlur > 0 {
		out = effect.Median(out, opts.MedianBlur)
	}
	if opts.MeanBlur > 0 {
		out = blur.Box(out, opts.MeanBlur)
	}
	if opts.Darken {
		out = darken(out, DefaultDarkenRatio)
	}
	if opts.NormaliseContrast {
		out = equaliseLuma(out)
	}
	if opts.HueQuantize > 0 {
		out = hueQuantize(out, opts.HueQuantize)
	}
	if opts.Quantize > 0 {
		out = quantize(out, opts.Quantize)
	}
	return out, nil
}

// simplify closes then opens the image so flat colour regions absorb fine detail.
func simplify(img image.Image, radius float64) image.Image {
	var out image.Image = effect.Dilate(img, radius)
	out = effect.Erode(out, radius)
	out = effect.Erode(out, radius)
	return effect.Dilate(out, radius)
}

// mapPixels returns a copy of img with fn applied to every pixel's RGB value.
func mapPixels(img image.Image, fn func(colourspace.Sample) colourspace.Sample) *image.NRGBA {
	out := imaging.Clone(img)
	b := out.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := out.NRGBAAt(x, y)
			s := fn(colourspace.Sample{int(px.R), int(px.G), int(px.B)})
			out.SetNRGBA(x, y, color.NRGBA{R: uint8(s[0]), G: uint8(s[1]), B: uint8(s[2]), A: px.A})
		}
	}
	return out
}

func toHSV(s colourspace.Sample) (h, sat, v float64) {
	c := colorful.Color{R: float64(s[0]) / 255, G: float64(s[1]) / 255, B: float64(s[2]) / 255}
	return c.Hsv()
}

func fromHSV(h, sat, v float64) colourspace.Sample {
	r, g, b := colorful.Hsv(h, sat, v).Clamped().RGB255()
	return colourspace.Sample{int(r), int(g), int(b)}
}

func darken(img image.Image, ratio float64) image.Image {
	return mapPixels(img, func(s colourspace.Sample) colourspace.Sample {
		h, sat, v := toHSV(s)
		return fromHSV(h, sat, v*ratio)
	})
}

// bin snaps v (0-limit) to the nearest of n evenly spaced levels.
func bin(v float64, n int, limit float64) float64 {
	step := limit / float64(n)
	return math.Round(v/step) * step
}

func quantize(img image.Image, n int) image.Image {
	return mapPixels(img, func(s colourspace.Sample) colourspace.Sample {
		for i, c := range s {
			s[i] = int(bin(float64(c), n, 255))
		}
		return s
	})
}

// hueQuantize bins hue (on a 0-180 scale) and saturation (0-255), leaving value.
func hueQuantize(img image.Image, n int) image.Image {
	return mapPixels(img, func(s colourspace.Sample) colourspace.Sample {
		h, sat, v := toHSV(s)
		h = math.Mod(bin(h/2, n, 180)*2, 360)
		sat = bin(sat*255, n, 255) / 255
		return fromHSV(h, math.Min(sat, 1), v)
	})
}

// equaliseLuma spreads the luma histogram over 0-255 and keeps chroma.
func equaliseLuma(img image.Image) image.Image {
	var hist [256]int
	total := 0
	src := imaging.Clone(img)
	b := src.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := src.NRGBAAt(x, y)
			l, _, _ := color.RGBToYCbCr(px.R, px.G, px.B)
			hist[l]++
			total++
		}
	}

	cdfMin, cum := 0, 0
	var lut [256]uint8
	for i, n := range hist {
		cum += n
		if cdfMin == 0 {
			cdfMin = cum
		}
		if total == cdfMin {
			lut[i] = uint8(i)
			continue
		}
		lut[i] = uint8(math.Round(float64(cum-cdfMin) * 255 / float64(total-cdfMin)))
	}

	return mapPixels(src, func(s colourspace.Sample) colourspace.Sample {
		l, cb, cr := color.RGBToYCbCr(uint8(s[0]), uint8(s[1]), uint8(s[2]))
		r, g, bl := color.YCbCrToRGB(lut[l], cb, cr)
		return colourspace.Sample{int(r), int(g), int(bl)}
	})
}
