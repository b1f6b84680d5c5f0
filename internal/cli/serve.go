package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pointmap/internal/config"
	"github.com/matzehuels/pointmap/internal/server"
	"github.com/matzehuels/pointmap/pkg/cache"
	"github.com/matzehuels/pointmap/pkg/pipeline"
	"github.com/matzehuels/pointmap/pkg/session"
)

// serveCommand creates the serve command that runs the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered maps and live tooltip sessions over HTTP",
		Long: `Serve the map over HTTP.

Settings are read from the config file (default
$XDG_CONFIG_HOME/pointmap/config.toml), then from POINTMAP_* environment
variables, which may also be set in a .env file in the working directory.

Artifacts are cached in the configured backend: file (default), redis,
mongo or none.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if noCache {
				cfg.Cache.Backend = cache.BackendNone
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/pointmap/config.toml)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	logger := loggerFromContext(ctx)
	logger.Info("starting server", "config", cfg.String())

	store, err := cache.Open(ctx, cfg.CacheOpenConfig())
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}

	var keyer cache.Keyer
	if cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Cache.Prefix+":")
	}
	runner := pipeline.NewRunner(store, keyer, logger)
	defer runner.Close()

	ds, err := runner.Load(ctx, pipeline.Options{DatasetPath: cfg.Dataset})
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{
		Addr:     cfg.Addr,
		Dataset:  ds,
		Runner:   runner,
		Sessions: session.NewMemoryStore(),
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
