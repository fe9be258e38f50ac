package dkmeans

import (
	"fmt"
	"strconv"

	"github.com/jmylchreest/dynpal/internal/colourspace"
)

// Config holds the clusterer parameters.
type Config struct {
	// Space is the colour space distances are measured in.
	Space colourspace.Space

	// IgnoreLuminance drops the first comparison component before matching.
	IgnoreLuminance bool

	// SeedThreshold is the match distance used until a second cluster exists.
	SeedThreshold float64

	// ThresholdRatio scales the average creation distance into the live threshold.
	ThresholdRatio float64

	// RecenterInterval is how many samples pass between centroid recomputations.
	RecenterInterval int

	// Measure collapses members into centroids and reported centres.
	Measure Measure
}

// DefaultConfig returns the default clusterer configuration.
func DefaultConfig() Config {
	return Config{
		Space:            colourspace.Lab,
		IgnoreLuminance:  false,
		SeedThreshold:    75,
		ThresholdRatio:   0.95,
		RecenterInterval: 1,
		Measure:          Median,
	}
}

// Validate checks every field and returns a *ConfigError for the first bad one.
func (c Config) Validate() error {
	if _, err := colourspace.ParseSpace(string(c.Space)); err != nil {
		return &ConfigError{Field: "space", Value: c.Space, Reason: err.Error()}
	}
	if c.SeedThreshold < 0 {
		return &ConfigError{Field: "seed threshold", Value: c.SeedThreshold, Reason: "must not be negative"}
	}
	if c.ThresholdRatio <= 0 {
		return &ConfigError{Field: "threshold ratio", Value: c.ThresholdRatio, Reason: "must be positive"}
	}
	if c.RecenterInterval <= 0 {
		return &ConfigError{Field: "recenter interval", Value: c.RecenterInterval, Reason: "must be positive"}
	}
	if _, err := ParseMeasure(string(c.Measure)); err != nil {
		return err
	}
	return nil
}

// Keys accepted by ConfigFromMap.
const (
	KeySpace            = "space"
	KeyIgnoreLuminance  = "ignore_luminance"
	KeySeedThreshold    = "seed_threshold"
	KeyThresholdRatio   = "threshold_ratio"
	KeyRecenterInterval = "recenter_interval"
	KeyMeasure          = "measure"
)

// ConfigFromMap builds a validated Config from string options, starting from
// DefaultConfig. Unknown keys are rejected rather than ignored.
func ConfigFromMap(opts map[string]string) (Config, error) {
	cfg := DefaultConfig()
	for key, raw := range opts {
		var err error
		switch key {
		case KeySpace:
			cfg.Space = colourspace.Space(raw)
		case KeyIgnoreLuminance:
			cfg.IgnoreLuminance, err = strconv.ParseBool(raw)
		case KeySeedThreshold:
			cfg.SeedThreshold, err = strconv.ParseFloat(raw, 64)
		case KeyThresholdRatio:
			cfg.ThresholdRatio, err = strconv.ParseFloat(raw, 64)
		case KeyRecenterInterval:
			cfg.RecenterInterval, err = strconv.Atoi(raw)
		case KeyMeasure:
			cfg.Measure = Measure(raw)
		default:
			return Config{}, &ConfigError{Field: "option", Value: key, Reason: "unknown key"}
		}
		if err != nil {
			return Config{}, &ConfigError{Field: key, Value: raw, Reason: fmt.Sprintf("parse: %v", err)}
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	// Normalise case so later comparisons are exact.
	cfg.Space, _ = colourspace.ParseSpace(string(cfg.Space))
	cfg.Measure, _ = ParseMeasure(string(cfg.Measure))
	return cfg, nil
}
