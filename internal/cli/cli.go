// Package cli implements the barnsley command-line interface.
//
// The root command generates a Barnsley fern, prints a summary, and saves
// the plot. Subcommands export the raw points, re-plot an exported file,
// open an interactive terminal preview, and manage the cache.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// attached to the command context and passed on to the pipeline.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/barnsley/pkg/buildinfo"
	"github.com/matzehuels/barnsley/pkg/cache"
	"github.com/matzehuels/barnsley/pkg/config"
	"github.com/matzehuels/barnsley/pkg/errors"
	"github.com/matzehuels/barnsley/pkg/pipeline"
)

const appName = config.AppName

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

	configPath string
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Running it without a subcommand generates and saves a fern.
func (c *CLI) RootCommand() *cobra.Command {
	root := c.generateCommand()
	root.Use = "barnsley [points]"
	root.Short = "Barnsley generates and plots the Barnsley fern fractal"
	root.Long = `Barnsley runs the chaos game over the four affine maps of the Barnsley fern,
prints a summary of the resulting point cloud and saves a scatter plot.

The optional argument is the number of points to generate (default 25000).`
	root.Version = buildinfo.Version
	root.SilenceUsage = true
	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/barnsley/config.toml)")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		registerLogHooks(c.Logger)
		return nil
	}

	root.AddCommand(c.exportCommand())
	root.AddCommand(c.plotCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig reads --config if given, otherwise the default config file if
// one exists.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath != "" {
		return config.Load(c.configPath)
	}
	return config.LoadDefault()
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, noCache bool) *pipeline.Runner {
	var keyer cache.Keyer
	if cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, cfg.Cache.Prefix)
	}
	return pipeline.NewRunner(c.newCache(ctx, cfg, noCache), keyer, c.Logger)
}

// newCache opens the configured backend. A backend that cannot be reached
// is reported and replaced by a NullCache so the run still succeeds.
func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}

	var (
		backend cache.Cache
		err     error
	)
	switch cfg.Cache.Backend {
	case config.BackendFile:
		var dir string
		if dir, err = fileCacheDir(cfg); err == nil {
			backend, err = cache.NewFileCache(dir)
		}
	case config.BackendRedis:
		backend, err = cache.NewRedisCache(ctx, cache.RedisConfig{
			URL:      cfg.Cache.Redis.URL,
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	case config.BackendMongo:
		backend, err = cache.NewMongoCache(ctx, cache.MongoConfig{
			URI:        cfg.Cache.Mongo.URI,
			Database:   cfg.Cache.Mongo.Database,
			Collection: cfg.Cache.Mongo.Collection,
		})
	default:
		return cache.NewNullCache()
	}

	if err != nil {
		c.Logger.Warn("cache disabled", "backend", cfg.Cache.Backend, "err", err)
		return cache.NewNullCache()
	}
	return backend
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/barnsley/).
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

// fileCacheDir returns cache.dir from the config, or the XDG default.
func fileCacheDir(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cacheDir()
}

// outputPaths maps each format to its file. A single format whose extension
// already matches output is written to output as given; otherwise output's
// known extension is replaced per format.
func outputPaths(output string, formats []string) map[string]string {
	ext := filepath.Ext(output)
	base := output
	if pipeline.ValidFormats[strings.ToLower(strings.TrimPrefix(ext, "."))] {
		base = strings.TrimSuffix(output, ext)
	}

	paths := make(map[string]string, len(formats))
	for _, f := range formats {
		if len(formats) == 1 && strings.EqualFold(ext, "."+f) {
			paths[f] = output
		} else {
			paths[f] = base + "." + f
		}
	}
	return paths
}

// =============================================================================
// Argument Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// parsePoints reads the optional positional point count.
func parsePoints(args []string, fallback int) (int, error) {
	if len(args) == 0 {
		return fallback, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidArgument, "point count must be an integer, got %q", args[0])
	}
	if err := errors.ValidatePointCount(n); err != nil {
		return 0, err
	}
	return n, nil
}

// formatFromOutput infers an output format from a file extension, or "" if
// the extension is not a known format.
func formatFromOutput(path string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if pipeline.ValidFormats[ext] {
		return ext
	}
	return ""
}
