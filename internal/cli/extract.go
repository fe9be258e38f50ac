package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/dynpal/internal/colour"
	"github.com/jmylchreest/dynpal/internal/dkmeans"
	imgutil "github.com/jmylchreest/dynpal/internal/image"
	"github.com/jmylchreest/dynpal/internal/swatch"
)

// extractOptions holds the flags of the extract command.
type extractOptions struct {
	global     *globalOptions
	cluster    clusterFlags
	preprocess preprocessFlags
	source     sourceFlags

	algorithm    string
	colours      int
	format       string
	output       string
	preview      string
	swatch       string
	swatchSorted bool
	jobs         int
}

// extraction is the result for one input image.
type extraction struct {
	source    string
	algorithm colour.Algorithm
	palette   *colour.Palette
	// clusters is set for the dynamic algorithm only.
	clusters []dkmeans.Cluster
	elapsed  time.Duration
}

func (e extraction) json() colour.PaletteJSON {
	doc := e.palette.JSON()
	doc.Source = e.source
	doc.Algorithm = string(e.algorithm)
	return doc
}

func newExtractCmd(global *globalOptions) *cobra.Command {
	o := &extractOptions{global: global}

	cmd := &cobra.Command{
		Use:   "extract <image|url|dir>...",
		Short: "Extract the dominant colours of one or more images",
		Long: `Extract the dominant colours of one or more images.

By default the dynamic algorithm decides how many colours there are. The fixed-count
algorithms (kmeans, dominant, prominent) take --colours instead; --colours 0 with
kmeans uses as many colours as the dynamic algorithm finds.

Directories are expanded to the images they contain (not recursively). Images are
processed concurrently and reported in argument order.

Supported image formats: JPEG, PNG, GIF, WebP

Examples:
  # Dynamic palette of a wallpaper
  dynpal extract wallpaper.jpg

  # Compare in a perceptual space without luminance, with previews
  dynpal extract --space luv --ignore-luminance --preview always wallpaper.jpg

  # Every image in a directory, as JSON
  dynpal extract -f json ~/Pictures/wallpapers

  # Eight colours with classic k-means
  dynpal extract -a kmeans -c 8 wallpaper.png

  # Write a swatch of every cluster's members
  dynpal extract --sample 50 --swatch clusters.png wallpaper.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&o.algorithm, "algorithm", "a", string(colour.AlgorithmDynamic), fmt.Sprintf("extraction algorithm %v", colour.ValidAlgorithms()))
	fs.IntVarP(&o.colours, "colours", "c", 8, "number of colours for fixed-count algorithms (0 with kmeans matches the dynamic palette size)")
	fs.StringVarP(&o.format, "format", "f", formatHexName, "output format (hex, rgb, json)")
	fs.StringVarP(&o.output, "output", "o", "", "output file (default: stdout)")
	fs.StringVar(&o.preview, "preview", previewAuto, "show colour previews (auto, always, never)")
	fs.Lookup("preview").NoOptDefVal = previewAlways
	fs.StringVar(&o.swatch, "swatch", "", "write a PNG of every cluster's members (dynamic only)")
	fs.BoolVar(&o.swatchSorted, "swatch-sorted", false, "sort swatch tiles by channel value")
	fs.IntVarP(&o.jobs, "jobs", "j", runtime.NumCPU(), "images processed concurrently")
	o.cluster.bind(fs)
	o.preprocess.bind(fs)
	o.source.bind(fs)

	return cmd
}

func (o *extractOptions) run(cmd *cobra.Command, args []string) error {
	logger := o.global.logger(cmd).Named("extract")

	if err := validateFormat(o.format); err != nil {
		return err
	}
	if _, err := previewEnabled(o.preview, io.Discard); err != nil {
		return err
	}
	cfg, err := o.cluster.config()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	pre, err := o.preprocess.options()
	if err != nil {
		return fmt.Errorf("invalid preprocessing: %w", err)
	}

	alg := colour.Algorithm(o.algorithm)
	if !o.matchDynamic() {
		ecfg := o.extractorConfig(cfg, logger)
		if err := ecfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	if o.swatch != "" && alg != colour.AlgorithmDynamic {
		return fmt.Errorf("--swatch requires the %s algorithm", colour.AlgorithmDynamic)
	}

	paths, err := imgutil.ExpandPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no images found in %s", strings.Join(args, ", "))
	}

	loader := o.source.loader()
	results := make([]extraction, len(paths))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(1, o.jobs))
	for i, path := range paths {
		g.Go(func() error {
			res, err := o.extractOne(ctx, loader, path, cfg, pre, logger.With("source", path))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if o.swatch != "" {
		for i, res := range results {
			path := swatchPath(o.swatch, i, len(results))
			img := swatch.Render(res.clusters, swatch.Options{Dim: swatch.DefaultDim, PerRow: swatch.DefaultPerRow, Sorted: o.swatchSorted})
			if img == nil {
				logger.Warn("no clusters to draw", "source", res.source)
				continue
			}
			if err := swatch.Save(path, img); err != nil {
				return err
			}
			logger.Info("wrote swatch", "path", path)
		}
	}

	return o.write(cmd, results)
}

func (o *extractOptions) write(cmd *cobra.Command, results []extraction) error {
	if o.output == "" {
		preview, err := previewEnabled(o.preview, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		text, err := renderResults(results, o.format, preview)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	}

	text, err := renderResults(results, o.format, o.preview == previewAlways)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	if err := os.WriteFile(o.output, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// matchDynamic reports whether kmeans should take its k from the dynamic palette.
func (o *extractOptions) matchDynamic() bool {
	return colour.Algorithm(o.algorithm) == colour.AlgorithmKMeans && o.colours == 0
}

func (o *extractOptions) extractorConfig(cfg dkmeans.Config, logger hclog.Logger) colour.ExtractorConfig {
	return colour.ExtractorConfig{
		Algorithm:  colour.Algorithm(o.algorithm),
		ColorCount: o.colours,
		Stride:     o.cluster.stride,
		Dynamic:    cfg,
		Logger:     logger,
	}
}

func (o *extractOptions) extractOne(ctx context.Context, loader imgutil.Loader, path string, cfg dkmeans.Config, pre imgutil.PreprocessOptions, logger hclog.Logger) (extraction, error) {
	img, err := loader.Load(ctx, path)
	if err != nil {
		return extraction{}, fmt.Errorf("failed to load image: %w", err)
	}
	bounds := img.Bounds()
	logger.Debug("image loaded", "width", bounds.Dx(), "height", bounds.Dy())

	img, err = imgutil.Preprocess(img, pre)
	if err != nil {
		return extraction{}, fmt.Errorf("failed to preprocess image: %w", err)
	}

	res := extraction{source: path, algorithm: colour.Algorithm(o.algorithm)}
	start := time.Now()

	switch {
	case res.algorithm == colour.AlgorithmDynamic || o.matchDynamic():
		dyn, err := colour.NewDynamicExtractor(cfg, o.cluster.stride, logger)
		if err != nil {
			return extraction{}, err
		}
		clusters, err := dyn.Clusters(img)
		if err != nil {
			return extraction{}, fmt.Errorf("failed to extract colours: %w", err)
		}
		if res.algorithm == colour.AlgorithmDynamic {
			res.clusters = clusters
			res.palette = colour.PaletteFromClusters(clusters)
			break
		}
		km, err := colour.NewKMeansExtractor(len(clusters), o.cluster.stride, logger)
		if err != nil {
			return extraction{}, err
		}
		if res.palette, err = km.Extract(img); err != nil {
			return extraction{}, fmt.Errorf("failed to extract colours: %w", err)
		}
	default:
		ex, err := colour.NewExtractor(o.extractorConfig(cfg, logger))
		if err != nil {
			return extraction{}, err
		}
		if res.palette, err = ex.Extract(img); err != nil {
			return extraction{}, fmt.Errorf("failed to extract colours: %w", err)
		}
	}

	res.elapsed = time.Since(start)
	logger.Info("extracted palette", "algorithm", res.algorithm, "colours", res.palette.Len(), "elapsed", res.elapsed)
	return res, nil
}

// swatchPath numbers the swatch file when several images are processed.
func swatchPath(path string, i, n int) string {
	if n <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(path, ext), i+1, ext)
}
