// Package cli implements the layercombos command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/layercombos/pkg/buildinfo"
	"github.com/matzehuels/layercombos/pkg/cache"
	"github.com/matzehuels/layercombos/pkg/config"
	"github.com/matzehuels/layercombos/pkg/export"
	"github.com/matzehuels/layercombos/pkg/observability"
	"github.com/matzehuels/layercombos/pkg/render"
	"github.com/matzehuels/layercombos/pkg/svgdoc"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "layercombos"

	// redisKeyPrefix scopes render cache keys in a shared Redis instance.
	redisKeyPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Export every layer combination of an Inkscape drawing",
		Long: `layercombos reads an Inkscape SVG whose layers carry export-layer-combo
directives and renders one image per combination of the selected layers.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			hooks := &logHooks{logger: c.Logger}
			observability.SetCacheHooks(hooks)
			observability.SetServerHooks(hooks)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.exportCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner wires the configured renderer, converter and render cache into
// an export runner for doc. The returned close function releases the cache.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, doc *svgdoc.Document) (*export.Runner, func(), error) {
	opts := cfg.RenderOptions()
	opts.Logger = c.Logger

	renderer, err := render.NewRenderer(cfg.Renderer, opts)
	if err != nil {
		return nil, nil, err
	}
	converter, err := render.NewConverter(cfg.Converter, opts)
	if err != nil {
		return nil, nil, err
	}

	rc, keyer, err := c.newCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	runner := export.NewRunner(doc, renderer, converter, c.Logger)
	runner.Cache = rc
	runner.Keyer = keyer
	return runner, func() { _ = rc.Close() }, nil
}

// newCache opens the render cache selected by cfg. A file cache that cannot
// be created degrades to no caching.
func (c *CLI) newCache(ctx context.Context, cfg config.Config) (cache.Cache, cache.Keyer, error) {
	switch cfg.Cache {
	case config.CacheNone:
		return cache.NewNullCache(), cache.NewDefaultKeyer(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return rc, cache.NewScopedKeyer(cache.NewDefaultKeyer(), redisKeyPrefix), nil
	}

	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("render cache disabled", "error", err)
		return cache.NewNullCache(), cache.NewDefaultKeyer(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("render cache disabled", "dir", dir, "error", err)
		return cache.NewNullCache(), cache.NewDefaultKeyer(), nil
	}
	return fc, cache.NewDefaultKeyer(), nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/layercombos/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
