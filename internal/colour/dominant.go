package colour

import (
	"fmt"
	"image"
	"image/color"

	"github.com/EdlinOrg/prominentcolor"
	"github.com/cenkalti/dominantcolor"
	"github.com/hashicorp/go-hclog"
)

// DominantExtractor ranks colours by weight using cenkalti/dominantcolor.
type DominantExtractor struct {
	count  int
	logger hclog.Logger
}

// Extract returns up to count colours, heaviest first.
func (e *DominantExtractor) Extract(img image.Image) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("no pixels found in image")
	}

	found := dominantcolor.FindWeight(img, e.count)
	if len(found) == 0 {
		return nil, fmt.Errorf("no dominant colours found")
	}

	colors := make([]color.Color, len(found))
	weights := make([]float64, len(found))
	for i, c := range found {
		colors[i] = color.RGBA{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B, A: 255}
		weights[i] = c.Weight
	}
	e.logger.Debug("dominant colours found", "count", len(colors))
	return NewPaletteWithWeights(colors, weights), nil
}

// ProminentExtractor uses EdlinOrg/prominentcolor without cropping or
// background masking.
type ProminentExtractor struct {
	count  int
	logger hclog.Logger
}

// Extract returns up to count colours ordered by pixel count.
func (e *ProminentExtractor) Extract(img image.Image) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("no pixels found in image")
	}

	items, err := prominentcolor.KmeansWithAll(e.count, img, prominentcolor.ArgumentNoCropping,
		uint(prominentcolor.DefaultSize), []prominentcolor.ColorBackgroundMask{})
	if err != nil {
		return nil, fmt.Errorf("prominent colour extraction failed: %w", err)
	}

	total := 0
	for _, item := range items {
		total += item.Cnt
	}
	colors := make([]color.Color, len(items))
	weights := make([]float64, len(items))
	for i, item := range items {
		colors[i] = color.RGBA{R: uint8(item.Color.R), G: uint8(item.Color.G), B: uint8(item.Color.B), A: 255}
		if total > 0 {
			weights[i] = float64(item.Cnt) / float64(total)
		}
	}
	e.logger.Debug("prominent colours found", "count", len(colors))
	return NewPaletteWithWeights(colors, weights), nil
}
