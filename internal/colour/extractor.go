package colour

import (
	"fmt"
	"image"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/dynpal/internal/dkmeans"
)

// Extractor defines the interface for colour extraction algorithms.
type Extractor interface {
	// Extract extracts a colour palette from an image.
	Extract(img image.Image) (*Palette, error)
}

// Algorithm represents the colour extraction algorithm type.
type Algorithm string

const (
	// AlgorithmDynamic grows clusters on demand, so the palette size is discovered.
	AlgorithmDynamic Algorithm = "dynamic"

	// AlgorithmKMeans uses fixed-k k-means clustering.
	AlgorithmKMeans Algorithm = "kmeans"

	// AlgorithmDominant ranks colours by weighted k-means over a reduced image.
	AlgorithmDominant Algorithm = "dominant"

	// AlgorithmProminent uses k-means++ over a resized image, reporting pixel counts.
	AlgorithmProminent Algorithm = "prominent"
)

// DefaultStride samples one pixel in this many before clustering.
const DefaultStride = 1000

// MaxColours bounds the palette size of the fixed-k algorithms.
const MaxColours = 256

// ValidAlgorithms returns a list of valid algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{
		AlgorithmDynamic,
		AlgorithmKMeans,
		AlgorithmDominant,
		AlgorithmProminent,
	}
}

// IsValidAlgorithm checks if the given algorithm name is valid.
func IsValidAlgorithm(alg Algorithm) bool {
	for _, valid := range ValidAlgorithms() {
		if alg == valid {
			return true
		}
	}
	return false
}

// FixedCount reports whether the algorithm needs a colour count up front.
func (a Algorithm) FixedCount() bool {
	return a != AlgorithmDynamic
}

// ExtractorConfig holds configuration for colour extraction.
type ExtractorConfig struct {
	Algorithm Algorithm

	// ColorCount is the palette size for fixed-count algorithms. Ignored by dynamic.
	ColorCount int

	// Stride is the pixel sampling interval for dynamic and kmeans.
	Stride int

	// Dynamic configures the dynamic clusterer.
	Dynamic dkmeans.Config

	// Logger receives progress messages. Nil disables logging.
	Logger hclog.Logger
}

// DefaultExtractorConfig returns the default extractor configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Algorithm:  AlgorithmDynamic,
		ColorCount: 8,
		Stride:     DefaultStride,
		Dynamic:    dkmeans.DefaultConfig(),
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	if !IsValidAlgorithm(c.Algorithm) {
		return fmt.Errorf("invalid algorithm: %s (valid algorithms: %v)", c.Algorithm, ValidAlgorithms())
	}
	if c.Stride < 1 {
		return fmt.Errorf("sample stride must be at least 1, got %d", c.Stride)
	}
	if c.Algorithm.FixedCount() {
		if c.ColorCount < 1 {
			return fmt.Errorf("color count must be at least 1, got %d", c.ColorCount)
		}
		if c.ColorCount > MaxColours {
			return fmt.Errorf("color count too large: %d (maximum: %d)", c.ColorCount, MaxColours)
		}
		return nil
	}
	return c.Dynamic.Validate()
}

func (c ExtractorConfig) logger() hclog.Logger {
	if c.Logger == nil {
		return hclog.NewNullLogger()
	}
	return c.Logger
}

// NewExtractor creates a new Extractor for the configured algorithm.
func NewExtractor(cfg ExtractorConfig) (Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.logger().Named(string(cfg.Algorithm))
	switch cfg.Algorithm {
	case AlgorithmDynamic:
		return &DynamicExtractor{cfg: cfg.Dynamic, stride: cfg.Stride, logger: logger}, nil
	case AlgorithmKMeans:
		return &KMeansExtractor{count: cfg.ColorCount, stride: cfg.Stride, logger: logger}, nil
	case AlgorithmDominant:
		return &DominantExtractor{count: cfg.ColorCount, logger: logger}, nil
	case AlgorithmProminent:
		return &ProminentExtractor{count: cfg.ColorCount, logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown algorithm: %s (valid algorithms: %v)", cfg.Algorithm, ValidAlgorithms())
	}
}
