// Package cli implements the docgraph command-line interface.
//
// This package provides commands for rendering API-model graphs (package
// trees, class hierarchies, import graphs) to images, serving them from a
// local preview server, and managing the render-artifact cache. The CLI is
// built using cobra and supports verbose logging via the charmbracelet/log
// library.
//
// # Commands
//
// The main commands are:
//   - render: Build a graph from a model file and render it to an image
//   - serve: Run a local HTTP preview server for a model file
//   - cache: Manage the render-artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/docforge/docgraph/pkg/buildinfo"
	"github.com/docforge/docgraph/pkg/cache"
	"github.com/docforge/docgraph/pkg/dot"
	"github.com/docforge/docgraph/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "docgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config
}

// New creates a new CLI instance with a default logger and default config.
// The config file, if present, is loaded during PersistentPreRunE of the
// root command so that the --config flag is honored.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          appName,
		Short:        "docgraph renders API-model graphs via Graphviz",
		Long:         `docgraph builds directed-graph descriptions (package trees, class hierarchies, import graphs) from a documentation API model and renders them through Graphviz.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: "+defaultConfigHint+")")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use, honoring the configured
// renderer and cache settings.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.newCache(ctx, noCache), c.newRenderer(), c.Logger)
}

// newRenderer builds a renderer from the config.
func (c *CLI) newRenderer() *dot.Renderer {
	r := dot.NewRenderer()
	if cmd := c.Config.Renderer.Command; cmd != "" {
		r.Command = cmd
	}
	if s := c.Config.Renderer.TimeoutSeconds; s > 0 {
		r.Timeout = time.Duration(s) * time.Second
	}
	r.Embedded = !c.Config.Renderer.NoEmbedded
	return r
}

// newCache builds the artifact cache from the config. Redis is preferred
// when configured; otherwise a file cache under the user cache directory.
// Any setup failure degrades to the null cache rather than aborting the run.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache || c.Config.Cache.Disabled {
		return cache.NewNullCache()
	}

	if addr := c.Config.Cache.RedisAddr; addr != "" {
		rc, err := cache.NewRedisCache(ctx, addr)
		if err == nil {
			return rc
		}
		c.Logger.Warnf("redis cache at %s unavailable, using file cache: %v", addr, err)
	}

	dir := c.Config.Cache.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache()
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warnf("cache directory %s unavailable, caching disabled: %v", dir, err)
		return cache.NewNullCache()
	}
	return fc
}

// cacheDir returns the cache directory using the XDG convention
// (~/.cache/docgraph/).
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
