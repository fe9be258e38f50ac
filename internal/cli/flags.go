package cli

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/dynpal/internal/colour"
	"github.com/jmylchreest/dynpal/internal/colourspace"
	"github.com/jmylchreest/dynpal/internal/dkmeans"
	imgutil "github.com/jmylchreest/dynpal/internal/image"
	httputil "github.com/jmylchreest/dynpal/internal/util/http"
)

// sourceFlags controls how URL inputs are fetched.
type sourceFlags struct {
	timeout  time.Duration
	cacheDir string
}

func (f *sourceFlags) bind(fs *pflag.FlagSet) {
	fs.DurationVar(&f.timeout, "timeout", httputil.DefaultTimeout, "timeout for downloading URL inputs")
	fs.StringVar(&f.cacheDir, "cache-dir", "", "keep downloaded images in this directory and reuse them")
}

func (f *sourceFlags) loader() *imgutil.SmartLoader {
	l := imgutil.NewSmartLoader(httputil.FetchOptions{Timeout: f.timeout})
	if f.cacheDir != "" {
		l = l.WithCache(f.cacheDir)
	}
	return l
}

// clusterFlags configures the dynamic clusterer and the sampling stride.
type clusterFlags struct {
	space            string
	ignoreLuminance  bool
	seedThreshold    float64
	thresholdRatio   float64
	recenterInterval int
	measure          string
	stride           int
}

func (f *clusterFlags) bind(fs *pflag.FlagSet) {
	def := dkmeans.DefaultConfig()
	fs.StringVar(&f.space, "space", string(def.Space), fmt.Sprintf("comparison colour space %v", colourspace.ValidSpaces()))
	fs.BoolVar(&f.ignoreLuminance, "ignore-luminance", def.IgnoreLuminance, "drop the luminance channel when comparing colours")
	fs.Float64Var(&f.seedThreshold, "seed-threshold", def.SeedThreshold, "initial distance threshold for opening a new cluster")
	fs.Float64Var(&f.thresholdRatio, "threshold-ratio", def.ThresholdRatio, "multiplier applied to the mean creation distance")
	fs.IntVar(&f.recenterInterval, "recenter-interval", def.RecenterInterval, "recompute centroids every N samples")
	fs.StringVar(&f.measure, "measure", string(def.Measure), fmt.Sprintf("central tendency for centroids %v", dkmeans.ValidMeasures()))
	fs.IntVar(&f.stride, "sample", colour.DefaultStride, "use every Nth pixel")
}

func (f *clusterFlags) config() (dkmeans.Config, error) {
	space, err := colourspace.ParseSpace(f.space)
	if err != nil {
		return dkmeans.Config{}, err
	}
	measure, err := dkmeans.ParseMeasure(f.measure)
	if err != nil {
		return dkmeans.Config{}, err
	}
	cfg := dkmeans.Config{
		Space:            space,
		IgnoreLuminance:  f.ignoreLuminance,
		SeedThreshold:    f.seedThreshold,
		ThresholdRatio:   f.thresholdRatio,
		RecenterInterval: f.recenterInterval,
		Measure:          measure,
	}
	if err := cfg.Validate(); err != nil {
		return dkmeans.Config{}, err
	}
	return cfg, nil
}

// preprocessFlags selects the filters applied before sampling.
type preprocessFlags struct {
	opts imgutil.PreprocessOptions
}

func (f *preprocessFlags) bind(fs *pflag.FlagSet) {
	fs.IntVar(&f.opts.Width, "width", imgutil.DefaultWidth, "resize to this width before sampling (0 keeps the original size)")
	fs.Float64Var(&f.opts.Simplify, "simplify", 0, "radius of a morphological close and open")
	fs.Float64Var(&f.opts.Blur, "blur", 0, "gaussian blur sigma")
	fs.Float64Var(&f.opts.MedianBlur, "median-blur", 0, "median filter radius")
	fs.Float64Var(&f.opts.MeanBlur, "mean-blur", 0, "box filter radius")
	fs.BoolVar(&f.opts.Darken, "darken", false, "scale HSV value by 0.75")
	fs.BoolVar(&f.opts.NormaliseContrast, "normalise-contrast", false, "equalise the luma histogram")
	fs.IntVar(&f.opts.HueQuantize, "hue-quantize", 0, "bin hue and saturation into N levels")
	fs.IntVar(&f.opts.Quantize, "quantize", 0, "bin each RGB channel into N levels")
}

func (f *preprocessFlags) options() (imgutil.PreprocessOptions, error) {
	if err := f.opts.Validate(); err != nil {
		return imgutil.PreprocessOptions{}, err
	}
	return f.opts, nil
}
