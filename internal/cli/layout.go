package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pointmap/pkg/layout"
	"github.com/matzehuels/pointmap/pkg/pipeline"
)

// layoutCommand creates the layout command for inspecting marker positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		region  string
		noCache bool
		opts    pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute and print marker positions",
		Long: `Compute the position of every marker in build order.

Without --output the positions are printed as a table; with it they are
written as JSON. Results are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), opts, output, region, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write placements as JSON to this file")
	cmd.Flags().StringVarP(&region, "region", "r", "", "only show this region")
	cmd.Flags().StringVar(&opts.DatasetPath, "dataset", "", "dataset TOML file (default: builtin)")
	cmd.Flags().BoolVar(&opts.NoJitter, "no-jitter", false, "lay out the dense region as a rigid grid")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	_ = cmd.RegisterFlagCompletionFunc("region", completeRegions)

	return cmd
}

// runLayout loads the dataset, computes placements, and prints or writes them.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output, region string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	ds, err := runner.Load(ctx, opts)
	if err != nil {
		return err
	}
	if region != "" {
		if _, ok := ds.Region(region); !ok {
			return fmt.Errorf("unknown region %q", region)
		}
	}

	placed, cacheHit, err := runner.LayoutWithCacheInfo(ctx, ds, opts)
	if err != nil {
		return fmt.Errorf("compute layout: %w", err)
	}
	placed = filterRegion(placed, region)

	if output != "" {
		data, err := pipeline.MarshalPlacements(placed)
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", output, err)
		}
		printSuccess("Layout complete")
		printFile(output)
		printStats(ds.RegionCount(), len(placed), cacheHit)
		printNextStep("Render", appName+" render -f svg")
		return nil
	}

	fmt.Fprintln(stdout, placementTable(placed))
	printStats(ds.RegionCount(), len(placed), cacheHit)
	return nil
}

func filterRegion(placed []layout.Placement, region string) []layout.Placement {
	if region == "" {
		return placed
	}
	out := make([]layout.Placement, 0, len(placed))
	for _, p := range placed {
		if p.Region == region {
			out = append(out, p)
		}
	}
	return out
}

// placementTable renders placements as a bordered table, one row per marker.
func placementTable(placed []layout.Placement) string {
	rows := make([][]string, len(placed))
	for i, p := range placed {
		rows[i] = []string{
			p.Region,
			strconv.Itoa(p.Index),
			p.Name,
			strconv.Itoa(p.Column),
			strconv.Itoa(p.Row),
			strconv.FormatFloat(p.X, 'f', 1, 64),
			strconv.FormatFloat(p.Y, 'f', 1, 64),
		}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	regionStyle := lipgloss.NewStyle().Foreground(colorCyan)
	numStyle := lipgloss.NewStyle().Foreground(colorWhite).Align(lipgloss.Right)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Region", "#", "Location", "Col", "Row", "X", "Y").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return regionStyle
			case col == 2:
				return lipgloss.NewStyle()
			}
			return numStyle
		}).
		Render()
}
