package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pointmap/pkg/cache"
)

// cacheCommand groups the local file cache subcommands. Remote backends
// used by serve expire their entries on their own.
func (c *CLI) cacheCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local layout and render cache",
	}
	cmd.PersistentFlags().StringVar(&dir, "dir", "", "cache directory (default: $XDG_CACHE_HOME/pointmap)")

	resolve := func() (string, error) {
		if dir != "" {
			return dir, nil
		}
		d, err := cache.DefaultDir()
		if err != nil {
			return "", fmt.Errorf("get cache dir: %w", err)
		}
		return d, nil
	}

	cmd.AddCommand(c.cacheClearCommand(resolve))
	cmd.AddCommand(c.cachePathCommand(resolve))

	return cmd
}

func (c *CLI) cacheClearCommand(resolve func() (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts and artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolve()
			if err != nil {
				return err
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			n, err := fc.Clear()
			if err != nil {
				return err
			}
			c.Logger.Debug("cleared cache", "dir", dir, "entries", n)
			printSuccess("Cleared %d cached entries", n)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

func (c *CLI) cachePathCommand(resolve func() (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := resolve()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}
