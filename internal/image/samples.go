package image

import (
	"image"

	"github.com/jmylchreest/dynpal/internal/colourspace"
)

// Samples flattens img into RGB samples in row-major order. Alpha is ignored.
func Samples(img image.Image) []colourspace.Sample {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	out := make([]colourspace.Sample, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out = append(out, colourspace.FromColor(img.At(x, y)))
		}
	}
	return out
}
