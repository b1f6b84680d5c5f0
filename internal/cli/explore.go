package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pointmap/pkg/dataset"
	"github.com/matzehuels/pointmap/pkg/interact"
	"github.com/matzehuels/pointmap/pkg/layout"
	"github.com/matzehuels/pointmap/pkg/pipeline"
	"github.com/matzehuels/pointmap/pkg/pointmap"
	"github.com/matzehuels/pointmap/pkg/render"
)

// exploreCommand creates the explore command, an interactive walk through
// the map's markers with the keyboard.
func (c *CLI) exploreCommand() *cobra.Command {
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Walk the map's markers from the keyboard",
		Long: `Mount the map in the terminal and move keyboard focus across its markers.

The tooltip, the active marker and the commands each key produces are shown
as they change, exactly as a browser would apply them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.DatasetPath, "dataset", "", "dataset TOML file (default: builtin)")
	cmd.Flags().BoolVar(&opts.NoJitter, "no-jitter", false, "lay out the dense region as a rigid grid")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, opts pipeline.Options) error {
	ds, err := pipeline.Load(opts)
	if err != nil {
		return err
	}

	model, err := newExploreModel(ctx, ds, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("explore: %w", err)
	}
	return nil
}

func newExploreModel(ctx context.Context, ds *dataset.Dataset, opts pipeline.Options) (ExploreModel, error) {
	surface := render.NewRecorder()
	tooltip := &interact.RecordingTooltip{}

	mountOpts := []pointmap.Option{pointmap.WithLogger(loggerFromContext(ctx))}
	if opts.NoJitter {
		mountOpts = append(mountOpts, pointmap.WithJitter(layout.NoJitter{}))
	}
	m, err := pointmap.Mount(ds, pointmap.Host{Surface: surface, Tooltip: tooltip}, mountOpts...)
	if err != nil {
		return ExploreModel{}, err
	}
	return NewExploreModel(m, tooltip, surface), nil
}
