// Package colour provides colour extraction and palette generation functionality.
package colour

import (
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/hashicorp/go-hclog"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	imgutil "github.com/jmylchreest/dynpal/internal/image"
)

// KMeansExtractor implements colour extraction using fixed-k k-means clustering.
type KMeansExtractor struct {
	count  int
	stride int
	logger hclog.Logger
}

// NewKMeansExtractor creates a KMeansExtractor producing count colours from
// every stride-th pixel.
func NewKMeansExtractor(count, stride int, logger hclog.Logger) (*KMeansExtractor, error) {
	if count < 1 {
		return nil, fmt.Errorf("color count must be at least 1, got %d", count)
	}
	if count > MaxColours {
		return nil, fmt.Errorf("color count too large: %d (maximum: %d)", count, MaxColours)
	}
	if stride < 1 {
		return nil, fmt.Errorf("sample stride must be at least 1, got %d", stride)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &KMeansExtractor{count: count, stride: stride, logger: logger}, nil
}

// Extract extracts colours from an image using k-means clustering.
// Colours are ordered by cluster population, largest first.
func (e *KMeansExtractor) Extract(img image.Image) (*Palette, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}

	samples := imgutil.Samples(img)
	if len(samples) == 0 {
		return nil, fmt.Errorf("no pixels found in image")
	}

	dataset := make(clusters.Observations, 0, len(samples)/e.stride+1)
	unique := make([]color.Color, 0)
	seen := make(map[RGB]bool)
	for i := 0; i < len(samples); i += e.stride {
		s := samples[i]
		dataset = append(dataset, clusters.Coordinates{float64(s[0]), float64(s[1]), float64(s[2])})
		rgb := RGB{R: uint8(s[0]), G: uint8(s[1]), B: uint8(s[2])}
		if !seen[rgb] {
			seen[rgb] = true
			unique = append(unique, color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255})
		}
	}

	// Fewer distinct colours than requested: k-means would leave clusters empty.
	if e.count >= len(unique) {
		e.logger.Debug("fewer unique colours than requested", "unique", len(unique), "requested", e.count)
		return NewPalette(unique), nil
	}

	km := kmeans.New()
	cc, err := km.Partition(dataset, e.count)
	if err != nil {
		return nil, fmt.Errorf("k-means failed: %w", err)
	}

	slices.SortStableFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	colors := make([]color.Color, 0, len(cc))
	weights := make([]float64, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		colors = append(colors, color.RGBA{
			R: channel(c.Center[0]),
			G: channel(c.Center[1]),
			B: channel(c.Center[2]),
			A: 255,
		})
		weights = append(weights, float64(len(c.Observations))/float64(len(dataset)))
	}

	e.logger.Debug("clustering complete", "samples", len(dataset), "clusters", len(colors))
	return NewPaletteWithWeights(colors, weights), nil
}
