// Package swatch renders cluster membership as a PNG of colour tiles.
package swatch

import (
	"cmp"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"slices"

	"github.com/disintegration/imaging"

	"github.com/jmylchreest/dynpal/internal/colourspace"
	"github.com/jmylchreest/dynpal/internal/dkmeans"
)

const (
	// DefaultDim is the default tile edge in pixels.
	DefaultDim = 25

	// DefaultPerRow is the default maximum number of tiles per row.
	DefaultPerRow = 25

	// Gap is the vertical space between cluster blocks.
	Gap = 15
)

// Options controls swatch layout.
type Options struct {
	Dim    int
	PerRow int
	// Sorted orders each cluster's members by channel value instead of arrival.
	Sorted bool
}

// DefaultOptions returns the default layout.
func DefaultOptions() Options {
	return Options{Dim: DefaultDim, PerRow: DefaultPerRow}
}

// Render draws one block per cluster, largest first, followed by a block of
// cluster centres. It returns nil when there are no clusters.
func Render(clusters []dkmeans.Cluster, opts Options) *image.NRGBA {
	if len(clusters) == 0 {
		return nil
	}
	if opts.Dim < 1 {
		opts.Dim = DefaultDim
	}
	if opts.PerRow < 1 {
		opts.PerRow = DefaultPerRow
	}

	blocks := make([][]color.NRGBA, 0, len(clusters)+1)
	for _, cl := range bySize(clusters) {
		members := slices.Clone(cl.Members)
		if opts.Sorted {
			slices.SortFunc(members, compareSamples)
		}
		tiles := make([]color.NRGBA, len(members))
		for i, s := range members {
			tiles[i] = nrgba(float64(s[0]), float64(s[1]), float64(s[2]))
		}
		blocks = append(blocks, tiles)
	}

	centres := make([]color.NRGBA, len(clusters))
	for i, cl := range clusters {
		centres[i] = nrgba(cl.Centre[0], cl.Centre[1], cl.Centre[2])
	}
	blocks = append(blocks, centres)

	perRow := opts.PerRow
	biggest := 0
	for _, b := range blocks {
		biggest = max(biggest, len(b))
	}
	perRow = min(perRow, biggest)

	height := -Gap
	for _, b := range blocks {
		height += rows(len(b), perRow)*opts.Dim + Gap
	}

	dst := imaging.New(perRow*opts.Dim, height, color.Black)
	y := 0
	for _, b := range blocks {
		for i, c := range b {
			x := (i % perRow) * opts.Dim
			ty := y + (i/perRow)*opts.Dim
			rect := image.Rect(x, ty, x+opts.Dim, ty+opts.Dim)
			draw.Draw(dst, rect, image.NewUniform(c), image.Point{}, draw.Src)
		}
		y += rows(len(b), perRow)*opts.Dim + Gap
	}
	return dst
}

// Save writes img to path; the format follows the file extension.
func Save(path string, img image.Image) error {
	if img == nil {
		return fmt.Errorf("no swatch to save")
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save swatch: %w", err)
	}
	return nil
}

func bySize(clusters []dkmeans.Cluster) []dkmeans.Cluster {
	out := slices.Clone(clusters)
	slices.SortStableFunc(out, func(a, b dkmeans.Cluster) int {
		return cmp.Compare(len(b.Members), len(a.Members))
	})
	return out
}

func compareSamples(a, b colourspace.Sample) int {
	for i := range a {
		if c := cmp.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func rows(n, perRow int) int {
	return (n + perRow - 1) / perRow
}

func nrgba(r, g, b float64) color.NRGBA {
	return color.NRGBA{R: clamp(r), G: clamp(g), B: clamp(b), A: 255}
}

func clamp(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
