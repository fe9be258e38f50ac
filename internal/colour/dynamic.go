package colour

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/dynpal/internal/dkmeans"
	imgutil "github.com/jmylchreest/dynpal/internal/image"
)

// DynamicExtractor discovers the palette size with dynamic k-means.
type DynamicExtractor struct {
	cfg    dkmeans.Config
	stride int
	logger hclog.Logger
}

// NewDynamicExtractor creates a DynamicExtractor with the given clusterer config
// and sampling stride.
func NewDynamicExtractor(cfg dkmeans.Config, stride int, logger hclog.Logger) (*DynamicExtractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if stride < 1 {
		return nil, fmt.Errorf("sample stride must be at least 1, got %d", stride)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &DynamicExtractor{cfg: cfg, stride: stride, logger: logger}, nil
}

// Extract returns one colour per cluster in creation order, weighted by the
// share of sampled pixels in each cluster.
func (e *DynamicExtractor) Extract(img image.Image) (*Palette, error) {
	clusters, err := e.Clusters(img)
	if err != nil {
		return nil, err
	}
	return PaletteFromClusters(clusters), nil
}

// Clusters runs the clusterer over img and returns the raw clusters.
func (e *DynamicExtractor) Clusters(img image.Image) ([]dkmeans.Cluster, error) {
	if img == nil {
		return nil, fmt.Errorf("image cannot be nil")
	}
	samples := imgutil.Samples(img)
	if len(samples) == 0 {
		return nil, fmt.Errorf("no pixels found in image")
	}

	e.logger.Debug("clustering", "pixels", len(samples), "stride", e.stride, "space", e.cfg.Space)
	clusters, err := dkmeans.Extract(samples, e.stride, e.cfg, dkmeans.WithLogger(e.logger))
	if err != nil {
		return nil, fmt.Errorf("dynamic k-means failed: %w", err)
	}
	return clusters, nil
}

// PaletteFromClusters rounds each cluster centre to 8-bit RGB.
func PaletteFromClusters(clusters []dkmeans.Cluster) *Palette {
	colors := make([]color.Color, len(clusters))
	weights := make([]float64, len(clusters))
	total := 0
	for _, cl := range clusters {
		total += len(cl.Members)
	}
	for i, cl := range clusters {
		colors[i] = color.RGBA{
			R: channel(cl.Centre[0]),
			G: channel(cl.Centre[1]),
			B: channel(cl.Centre[2]),
			A: 255,
		}
		if total > 0 {
			weights[i] = float64(len(cl.Members)) / float64(total)
		}
	}
	return NewPaletteWithWeights(colors, weights)
}

func channel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}
