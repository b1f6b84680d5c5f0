package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pointmap/internal/cli"
	"github.com/matzehuels/pointmap/pkg/errors"
	"github.com/matzehuels/pointmap/pkg/observability"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case stderrors.Is(err, context.Canceled):
		return 130 // SIGINT
	case errors.IsConfigError(err):
		fmt.Fprintln(os.Stderr, "invalid map configuration:", err)
		return 2
	default:
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// The level is only known once flags are parsed.
	attachLogger := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := cli.LogInfo
		if verbose {
			level = cli.LogDebug
			hooks := observability.NewLogHooks(c.Logger)
			observability.SetCacheHooks(hooks)
			observability.SetInteractionHooks(hooks)
		}
		c.SetLogLevel(level)

		if attachLogger != nil {
			return attachLogger(cmd, args)
		}
		return nil
	}

	return root.ExecuteContext(ctx)
}
