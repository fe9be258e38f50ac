package dkmeans

import (
	"github.com/jmylchreest/dynpal/internal/colourspace"
)

// Extract feeds every stride-th sample, starting with the first, into a fresh
// Clusterer and returns its clusters.
func Extract(samples []colourspace.Sample, stride int, cfg Config, opts ...Option) ([]Cluster, error) {
	if stride < 1 {
		return nil, &ConfigError{Field: "stride", Value: stride, Reason: "must be at least 1"}
	}

	c, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(samples); i += stride {
		if err := c.Add(samples[i]); err != nil {
			return nil, err
		}
	}
	c.logger.Debug("clustering complete", "samples", c.Seen(), "clusters", c.Len(), "threshold", c.Threshold())
	return c.Clusters(), nil
}
