package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/facetower/pkg/buildinfo"
	"github.com/matzehuels/facetower/pkg/cache"
	"github.com/matzehuels/facetower/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "facetower"

	// envRedis names the environment variable holding the default redis
	// address for --cache=redis.
	envRedis = "FACETOWER_REDIS"
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

	cacheBackend string
	cacheDir     string
	redisAddr    string
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
		Use:           appName,
		Short:         "Facetower recognizes machining features on face adjacency graphs",
		Long:          `Facetower loads the face adjacency graph of a solid model and recognizes drill holes and blend chains on it, reporting the results as JSON or drawing the attributed graph.`,
		Version:       buildinfo.Resolved(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.cacheBackend, "cache", string(cache.BackendFile), "result cache: file, redis, none")
	flags.StringVar(&c.cacheDir, "cache-dir", "", "cache directory for --cache=file (default $XDG_CACHE_HOME/"+appName+")")
	flags.StringVar(&c.redisAddr, "redis", os.Getenv(envRedis), "redis address or URL for --cache=redis (env "+envRedis+")")

	// Register all subcommands
	root.AddCommand(c.recognizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	if noCache {
		return pipeline.NewRunner(cache.NewNullCache(), nil, c.Logger), nil
	}
	store, err := c.openCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

// openCache opens the backend selected by the persistent cache flags.
func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	backend := cache.Backend(c.cacheBackend)
	location := ""
	switch backend {
	case cache.BackendFile:
		dir, err := c.resolveCacheDir()
		if err != nil {
			return nil, err
		}
		location = dir
	case cache.BackendRedis:
		if c.redisAddr == "" {
			return nil, fmt.Errorf("--cache=redis needs --redis or %s", envRedis)
		}
		location = c.redisAddr
	}
	return cache.Open(ctx, backend, location)
}

func (c *CLI) resolveCacheDir() (string, error) {
	if c.cacheDir != "" {
		return c.cacheDir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
// An empty string yields def.
func parseFormats(s string, def ...string) []string {
	if s == "" {
		return def
	}
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
