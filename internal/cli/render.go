package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pointmap/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string
	formats string
	noCache bool
	pipe    pipeline.Options
}

// renderCommand creates the render command for generating map artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the point map to SVG, HTML, JSON, DOT, PNG or PDF",
		Long: `Render the point map.

The builtin dataset holds 81 provinces in 7 regions. Use --dataset to render
a TOML dataset instead (see 'pointmap validate --print' for the format).

SVG and HTML output carry the tooltip script: hovering or focusing a marker
shows its name, Enter and Space do the same from the keyboard. Use --static
for a plain SVG.

Results are cached locally for faster subsequent runs.`,
		Example: `  pointmap render
  pointmap render -f svg,html,json -o out/map
  pointmap render --dataset regions.toml -f png --labels`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.pipe.Formats = parseFormats(opts.formats)
			if err := pipeline.ValidateFormats(opts.pipe.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), html, json, dot, png, pdf (comma-separated)")
	cmd.Flags().StringVar(&opts.pipe.DatasetPath, "dataset", "", "dataset TOML file (default: builtin)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.pipe.Refresh, "refresh", false, "recompute and overwrite cached results")
	cmd.Flags().Float64Var(&opts.pipe.Radius, "radius", pipeline.DefaultRadius, "marker radius")
	cmd.Flags().StringVar(&opts.pipe.Title, "title", pipeline.DefaultTitle, "accessible map title")
	cmd.Flags().BoolVar(&opts.pipe.Static, "static", false, "omit the tooltip script from SVG output")
	cmd.Flags().BoolVar(&opts.pipe.Labels, "labels", false, "print location names in DOT and PNG output")
	cmd.Flags().BoolVar(&opts.pipe.NoJitter, "no-jitter", false, "lay out the dense region as a rigid grid")

	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, opts *renderOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.pipe.Logger = c.Logger
	prog := newProgress(c.Logger)

	spinner := newSpinnerWithContext(ctx, "Rendering map...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts.pipe)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(result.Artifacts, opts.pipe.Formats, opts.output, opts.pipe.DatasetPath)
	if err != nil {
		return err
	}

	prog.done("Rendered map")
	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.RegionCount, result.Stats.MarkerCount, result.CacheInfo.RenderHit)
	return nil
}

// writeArtifacts writes artifacts in format order and returns the paths
// written. A single format goes to output verbatim when it is given.
func writeArtifacts(artifacts map[string][]byte, formats []string, output, datasetPath string) ([]string, error) {
	if len(formats) == 1 && output != "" {
		if err := os.WriteFile(output, artifacts[formats[0]], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", output, err)
		}
		return []string{output}, nil
	}

	base := basePath(output, datasetPath)
	paths := make([]string, 0, len(formats))
	for _, f := range formats {
		path := base + "." + f
		if err := os.WriteFile(path, artifacts[f], 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
