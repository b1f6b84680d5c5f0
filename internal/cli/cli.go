package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pointmap/pkg/buildinfo"
	"github.com/matzehuels/pointmap/pkg/cache"
	"github.com/matzehuels/pointmap/pkg/pipeline"
)

const (
	appName     = "pointmap"
	// defaultBase names output files rendered from the builtin dataset.
	defaultBase = "pointmap"
)

// Log levels for main's --verbose handling.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI carries what every command shares: the logger.
type CLI struct {
	Logger *log.Logger
}

// New returns a CLI logging to w at level.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel changes the level after flags are parsed.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand builds the command tree. Its PersistentPreRunE attaches the
// logger to the command context; main wraps it to apply --verbose first.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Pointmap renders the regional point map and its tooltip interaction",
		Long:         `Pointmap lays out the provinces of seven regions on a synthetic grid, renders them as SVG, HTML, JSON, DOT, PNG or PDF, and serves live maps whose tooltip follows pointer and keyboard events.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner returns a pipeline runner over the local file cache, or over no
// cache at all with --no-cache.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// parseFormats splits the --format value. Empty means svg.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// basePath derives the base output path. An output path keeps its directory
// and name but loses a known format extension; without one the dataset file
// name is used, or "pointmap" for the builtin dataset.
func basePath(output, datasetPath string) string {
	if output != "" {
		ext := filepath.Ext(output)
		if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
			return strings.TrimSuffix(output, ext)
		}
		return output
	}
	if datasetPath == "" || datasetPath == pipeline.BuiltinDataset {
		return defaultBase
	}
	return strings.TrimSuffix(filepath.Base(datasetPath), filepath.Ext(datasetPath))
}
