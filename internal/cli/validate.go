package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pointmap/pkg/dataset"
	"github.com/matzehuels/pointmap/pkg/errors"
)

// validateCommand creates the validate command for checking dataset files.
func (c *CLI) validateCommand() *cobra.Command {
	var printTOML bool

	cmd := &cobra.Command{
		Use:   "validate [dataset.toml]",
		Short: "Check a dataset file, or print the builtin dataset",
		Long: `Check that a dataset file is usable: every region has a layout and every
layout a region, location names are non-empty and unique within their region,
and every column count is positive.

Without an argument the builtin dataset is checked. --print writes the
dataset in canonical TOML form, which is a good starting point for your own.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := "builtin"
			ds := dataset.Builtin()
			if len(args) == 1 {
				source = args[0]
				loaded, err := dataset.Load(source)
				if err != nil {
					printError("%s", errors.UserMessage(err))
					if code := errors.GetCode(err); code != "" {
						printDetail("code: %s", code)
					}
					return err
				}
				ds = loaded
			}

			if printTOML {
				return dataset.Encode(cmd.OutOrStdout(), ds)
			}

			c.Logger.Debug("validated dataset", "source", source, "hash", ds.Hash())
			printSuccess("%s is valid", source)
			for _, r := range ds.Regions() {
				printKeyValue(r.Name, fmt.Sprintf("%s locations, %d columns",
					StyleNumber.Render(strconv.Itoa(len(r.Locations))), r.Layout.Columns))
			}
			if d := ds.Dense(); d.Region != "" {
				printDetail("dense region: %s (drift %.1f, amplitude %.1f)", d.Region, d.DriftX, d.Amplitude)
			}
			printStats(ds.RegionCount(), ds.Len(), false)
			return nil
		},
	}

	cmd.Flags().BoolVar(&printTOML, "print", false, "print the dataset as TOML instead of a summary")
	return cmd
}
