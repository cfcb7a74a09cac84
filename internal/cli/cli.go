package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dijkstraviz/pkg/buildinfo"
	"github.com/matzehuels/dijkstraviz/pkg/cache"
	"github.com/matzehuels/dijkstraviz/pkg/config"
	"github.com/matzehuels/dijkstraviz/pkg/errors"
	"github.com/matzehuels/dijkstraviz/pkg/generate"
	"github.com/matzehuels/dijkstraviz/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
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

	logOut     io.Writer
	configPath string
	noCache    bool
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), logOut: w}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Dijkstraviz animates shortest-path searches on random graphs",
		Long:          `Dijkstraviz generates random geometric graphs and replays Dijkstra's algorithm on them step by step, in the terminal, over HTTP, or as a rendered snapshot.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			registerHooks(c.Logger)
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/dijkstraviz/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the graph cache")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.runCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// Execute runs the command line args and returns the process exit status.
// Errors are reported on the log writer by their user message; an interrupt
// is silent.
func (c *CLI) Execute(ctx context.Context, args []string) int {
	root := c.RootCommand()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	code := errors.ExitCode(err)
	if err != nil && code != errors.ExitInterrupted {
		fmt.Fprintln(c.logOut, styleIconError.Render(iconError)+" "+errors.UserMessage(err))
	}
	return code
}

// =============================================================================
// Session Factory
// =============================================================================

// loadConfig reads the file named by --config, or the default one.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("Loaded config", "nodes", cfg.Generate.Nodes, "p", cfg.Generate.Probability, "rate", cfg.Playback.Rate)
	return cfg, nil
}

// newCache picks the graph cache backend: none with --no-cache, Redis when
// a URL is configured, the file cache otherwise. An unreachable Redis falls
// back to the file cache.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config) cache.Cache {
	if c.noCache {
		return cache.NewNullCache()
	}
	if cfg.Cache.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err == nil {
			c.Logger.Debug("Using redis cache")
			return rc
		}
		c.Logger.Warn("Redis unavailable, using file cache", "err", err)
	}
	if cfg.Cache.Dir == "" {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(cfg.Cache.Dir)
	if err != nil {
		c.Logger.Warn("File cache unavailable", "dir", cfg.Cache.Dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// openGraphs wraps the configured backend in a graph store. The returned
// func releases the backend.
func (c *CLI) openGraphs(ctx context.Context, cfg *config.Config) (*cache.Graphs, func()) {
	backend := c.newCache(ctx, cfg)
	return cache.NewGraphs(backend, cfg.Cache.TTL), func() { _ = backend.Close() }
}

// newSession builds a session wired to cfg and store.
func newSession(ctx context.Context, cfg *config.Config, store *cache.Graphs, opts ...session.Option) *session.Session {
	base := []session.Option{
		session.WithCancelTimeout(cfg.Search.CancelTimeout),
		session.WithRate(cfg.Playback.Rate),
		session.WithGenerateOptions(generate.WithSeed(cfg.Generate.Seed)),
		session.WithGraphCache(store),
	}
	return session.New(ctx, append(base, opts...)...)
}
