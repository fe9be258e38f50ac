// Package dkmeans implements dynamic k-means: an incremental clustering that assigns
// colours one at a time and opens a new cluster whenever a colour is further than an
// adaptive threshold from every existing centroid.
//
// The result depends on input order. A Clusterer is owned by a single goroutine;
// concurrent calls to Add are not supported.
package dkmeans

import (
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/dynpal/internal/colourspace"
)

// Cluster is a group of samples sharing a nearest centroid.
type Cluster struct {
	// Index is the cluster's position in creation order.
	Index int

	// Members are the original samples in arrival order. Never empty.
	Members []colourspace.Sample

	// Centre is the measure applied to Members in the original encoding.
	// It is only filled in by Clusterer.Clusters.
	Centre [3]float64

	// centroid lives in the comparison space and is only used for matching.
	centroid colourspace.Vector
}

// Option configures a Clusterer.
type Option func(*Clusterer)

// WithLogger sets the logger used for cluster creation and threshold events.
func WithLogger(logger hclog.Logger) Option {
	return func(c *Clusterer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Clusterer holds the state of one dynamic k-means run.
type Clusterer struct {
	cfg    Config
	logger hclog.Logger

	clusters    []*Cluster
	threshold   float64
	distanceSum float64
	total       int
}

// New validates cfg and returns an empty Clusterer.
func New(cfg Config, opts ...Option) (*Clusterer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Space, _ = colourspace.ParseSpace(string(cfg.Space))
	cfg.Measure, _ = ParseMeasure(string(cfg.Measure))

	c := &Clusterer{
		cfg:       cfg,
		logger:    hclog.NewNullLogger(),
		threshold: cfg.SeedThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Add assigns s to the nearest cluster within the threshold, or starts a new
// cluster with it. An invalid sample is rejected before any state changes.
func (c *Clusterer) Add(s colourspace.Sample) error {
	if ch := s.Valid(); ch >= 0 {
		return &InputError{Sample: s, Channel: ch}
	}

	v := c.project(s)
	if len(c.clusters) == 0 {
		c.open(s, v)
	} else {
		centroids := make([]colourspace.Vector, len(c.clusters))
		for i, cl := range c.clusters {
			centroids[i] = cl.centroid
		}
		// Nearest scans in creation order, so ties go to the oldest cluster.
		idx, d := colourspace.Nearest(v, centroids)
		if d <= c.threshold {
			c.clusters[idx].Members = append(c.clusters[idx].Members, s)
		} else {
			c.open(s, v)
			c.distanceSum += d
			c.threshold = c.distanceSum / float64(len(c.clusters)) * c.cfg.ThresholdRatio
			if c.logger.IsTrace() {
				c.logger.Trace("opened cluster", "index", len(c.clusters)-1, "distance", d, "threshold", c.threshold)
			}
		}
	}

	c.total++
	if c.total%c.cfg.RecenterInterval == 0 {
		c.recenter()
	}
	return nil
}

// Clusters returns every cluster in creation order with Centre computed from the
// original-space members. The matching centroids are left alone; they are computed
// in the comparison space and may disagree with Centre.
func (c *Clusterer) Clusters() []Cluster {
	out := make([]Cluster, len(c.clusters))
	for i, cl := range c.clusters {
		rows := make([][]float64, len(cl.Members))
		for j, m := range cl.Members {
			rows[j] = []float64{float64(m[0]), float64(m[1]), float64(m[2])}
		}
		centre := c.cfg.Measure.apply(rows)
		out[i] = Cluster{
			Index:    cl.Index,
			Members:  append([]colourspace.Sample(nil), cl.Members...),
			Centre:   [3]float64{centre[0], centre[1], centre[2]},
			centroid: append(colourspace.Vector(nil), cl.centroid...),
		}
	}
	return out
}

// Len returns the number of clusters created so far.
func (c *Clusterer) Len() int { return len(c.clusters) }

// Threshold returns the current match distance.
func (c *Clusterer) Threshold() float64 { return c.threshold }

// Seen returns how many samples have been added.
func (c *Clusterer) Seen() int { return c.total }

// Config returns the configuration the clusterer runs with.
func (c *Clusterer) Config() Config { return c.cfg }

func (c *Clusterer) project(s colourspace.Sample) colourspace.Vector {
	return colourspace.Project(s, c.cfg.Space, c.cfg.IgnoreLuminance)
}

func (c *Clusterer) open(s colourspace.Sample, v colourspace.Vector) {
	c.clusters = append(c.clusters, &Cluster{
		Index:    len(c.clusters),
		Members:  []colourspace.Sample{s},
		centroid: v,
	})
}

// recenter recomputes every centroid from its members. This costs O(total members)
// and runs every RecenterInterval samples, which bounds throughput for large runs.
func (c *Clusterer) recenter() {
	for _, cl := range c.clusters {
		rows := make([][]float64, len(cl.Members))
		for j, m := range cl.Members {
			rows[j] = c.project(m)
		}
		cl.centroid = c.cfg.Measure.apply(rows)
	}
}
