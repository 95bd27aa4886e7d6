package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/crdb/internal/config"
	"github.com/matzehuels/crdb/pkg/buildinfo"
	"github.com/matzehuels/crdb/pkg/cache"
	"github.com/matzehuels/crdb/pkg/crdb"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "crdb"

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
	cfg        config.Config
	metrics    func(context.Context) error
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "crdb queries the Cosmic-Ray DataBase",
		Long: `crdb is a command-line client for the Cosmic-Ray DataBase (CRDB) at
https://lpsc.in2p3.fr/crdb. It builds queries, caches the server replies for
30 days and prints the measurements as tables, CSV or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.startMetrics(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.stopMetrics(cmd.Context())
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/crdb/config.toml)")

	root.AddCommand(c.queryCommand())
	root.AddCommand(c.urlCommand())
	root.AddCommand(c.experimentsCommand())
	root.AddCommand(c.codesCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

// =============================================================================
// Client Factory
// =============================================================================

// clientFlags are the cache and network flags shared by querying commands.
type clientFlags struct {
	noCache bool
	refresh bool
	timeout time.Duration
	server  string
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the response cache")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached responses and fetch again")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "request timeout (default from config, 120s)")
	cmd.Flags().StringVar(&f.server, "server", "", "CRDB server URL (default from config)")
}

// newClient creates a CRDB client from the config and flags. The returned
// cache must be closed by the caller.
func (c *CLI) newClient(ctx context.Context, f clientFlags) (*crdb.Client, cache.Cache, error) {
	backend, err := c.openCache(ctx, f.noCache)
	if err != nil {
		return nil, nil, err
	}

	timeout := c.cfg.Timeout.Duration
	if f.timeout > 0 {
		timeout = f.timeout
	}
	server := c.cfg.ServerURL
	if f.server != "" {
		server = f.server
	}

	client := crdb.NewClient(backend,
		crdb.WithLogger(c.Logger),
		crdb.WithTimeout(timeout),
		crdb.WithTTL(c.cfg.Cache.TTL.Duration),
		crdb.WithServerURL(server),
		crdb.WithRefresh(f.refresh),
		crdb.WithParallel(c.cfg.Parallel),
	)
	return client, backend, nil
}

// openCache opens the configured cache backend. A file cache that cannot
// be created degrades to no caching.
func (c *CLI) openCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	opts, err := c.cfg.CacheOptions()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	backend, err := cache.Open(ctx, opts)
	if err != nil {
		if opts.Backend == cache.BackendFile {
			c.Logger.Warn("cache disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return backend, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the directory of the file cache.
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return config.CacheDir()
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
