package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/dynpal/internal/colour"
	imgutil "github.com/jmylchreest/dynpal/internal/image"
)

// compareOptions holds the flags of the compare command.
type compareOptions struct {
	global     *globalOptions
	cluster    clusterFlags
	preprocess preprocessFlags
	source     sourceFlags
	preview    string
}

func newCompareCmd(global *globalOptions) *cobra.Command {
	o := &compareOptions{global: global}

	cmd := &cobra.Command{
		Use:   "compare <image|url>",
		Short: "Compare the dynamic palette with k-means of the same size",
		Long: `Run the dynamic algorithm, then classic k-means with k set to the number of
colours the dynamic algorithm found, and print both palettes side by side with
their extraction times.

Example:
  dynpal compare --space hsv --ignore-luminance wallpaper.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args[0])
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&o.preview, "preview", previewAuto, "show colour previews (auto, always, never)")
	fs.Lookup("preview").NoOptDefVal = previewAlways
	o.cluster.bind(fs)
	o.preprocess.bind(fs)
	o.source.bind(fs)

	return cmd
}

func (o *compareOptions) run(cmd *cobra.Command, path string) error {
	logger := o.global.logger(cmd).Named("compare")

	preview, err := previewEnabled(o.preview, cmd.OutOrStdout())
	if err != nil {
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

	img, err := o.source.loader().Load(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	if img, err = imgutil.Preprocess(img, pre); err != nil {
		return fmt.Errorf("failed to preprocess image: %w", err)
	}

	dyn, err := colour.NewDynamicExtractor(cfg, o.cluster.stride, logger.Named(string(colour.AlgorithmDynamic)))
	if err != nil {
		return err
	}
	start := time.Now()
	dynPalette, err := dyn.Extract(img)
	if err != nil {
		return fmt.Errorf("dynamic extraction failed: %w", err)
	}
	dynElapsed := time.Since(start)

	km, err := colour.NewKMeansExtractor(dynPalette.Len(), o.cluster.stride, logger.Named(string(colour.AlgorithmKMeans)))
	if err != nil {
		return err
	}
	start = time.Now()
	kmPalette, err := km.Extract(img)
	if err != nil {
		return fmt.Errorf("k-means extraction failed: %w", err)
	}
	kmElapsed := time.Since(start)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d colours (dynamic %s, kmeans %s)\n\n",
		path, dynPalette.Len(), dynElapsed.Round(time.Microsecond), kmElapsed.Round(time.Microsecond))
	fmt.Fprint(out, comparisonTable(dynPalette, kmPalette, preview).Render())
	return nil
}

// comparisonTable lists the two palettes row by row with their weights.
func comparisonTable(dyn, km *colour.Palette, preview bool) *Table {
	t := NewTable([]string{"#", "dynamic", "weight", "kmeans", "weight"})
	for i := range max(dyn.Len(), km.Len()) {
		row := []string{fmt.Sprintf("%d", i+1)}
		row = append(row, paletteCells(dyn, i, preview)...)
		row = append(row, paletteCells(km, i, preview)...)
		t.AddRow(row)
	}
	return t
}

func paletteCells(p *colour.Palette, i int, preview bool) []string {
	c, err := p.Get(i)
	if err != nil {
		return []string{"", ""}
	}
	rgb := colour.ToRGB(c)
	cell := rgb.Hex()
	if preview {
		cell = colour.ColourPreview(rgb, 4) + " " + cell
	}
	return []string{cell, fmt.Sprintf("%.3f", p.Weight(i))}
}
