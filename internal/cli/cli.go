// Package cli implements the segue command-line interface.
//
// Commands load a track catalog (JSON, TOML or YAML) or the built-in demo set, run the
// sequencer and print lipgloss tables. Stored playlists live in SQLite; the serve command
// exposes the same operations over HTTP.
//
// All commands read configuration through internal/config; search flags override the
// configured values for a single run. --verbose (-v) switches logging to debug level.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/segue/internal/adapters/audio"
	"github.com/ewilliams-labs/segue/internal/adapters/catalog"
	"github.com/ewilliams-labs/segue/internal/adapters/sqlite"
	"github.com/ewilliams-labs/segue/internal/config"
	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/ports"
	"github.com/ewilliams-labs/segue/internal/core/sequencer"
	"github.com/ewilliams-labs/segue/internal/core/services"
)

// appName is the application name used for display.
const appName = "segue"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	out    io.Writer

	configPath string
	verbose    bool
	cfg        *config.Config
}

// New creates a CLI that prints results to out and logs to logw.
func New(out, logw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(logw, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		out: out,
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
		Short: "segue orders playlists for smooth transitions",
		Long: `segue sequences a set of tracks so that consecutive tracks differ as little as possible
in tempo, energy, danceability, key and mode. It searches orderings with A* over a
weighted transition cost.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ./segue.{yaml,toml,json})")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.optimizeCommand())
	root.AddCommand(c.bestStartCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.serveCommand())

	return root
}

// Execute runs the root command with ctx.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(c.out)
	return root.ExecuteContext(ctx)
}

func (c *CLI) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := cfg.LogLevel()
	if c.verbose {
		level = log.DebugLevel
	}
	c.SetLogLevel(level)
	c.Logger.Debug("config loaded", "storage", cfg.Storage.Path, "heuristic", cfg.Search.Heuristic,
		"visit", cfg.Search.VisitMode)
	return nil
}

// =============================================================================
// Search flags
// =============================================================================

// searchFlags override the configured search settings for one command.
type searchFlags struct {
	heuristic     string
	visit         string
	maxExpansions int
	timeout       time.Duration
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.heuristic, "heuristic", "", "remaining-cost estimate: min-edge or min-hop")
	cmd.Flags().StringVar(&f.visit, "visit", "", "visited-state keying: remaining-set or prefix")
	cmd.Flags().IntVar(&f.maxExpansions, "max-expansions", 0, "stop after expanding this many states (0 = unbounded)")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "abort a search after this long (0 = no limit)")
}

// settings merges the flags that were set on cmd over the loaded configuration.
func (c *CLI) settings(cmd *cobra.Command, f *searchFlags) (services.Settings, error) {
	cfg := c.config()
	weights := cfg.Weights
	s := services.Settings{
		Weights:       &weights,
		Heuristic:     cfg.Heuristic(),
		VisitMode:     cfg.VisitMode(),
		MaxExpansions: cfg.Search.MaxExpansions,
		Timeout:       cfg.Search.Timeout,
		Logger:        c.Logger,
	}
	if f == nil {
		return s, nil
	}

	var err error
	if cmd.Flags().Changed("heuristic") {
		if s.Heuristic, err = sequencer.ParseHeuristic(f.heuristic); err != nil {
			return s, err
		}
	}
	if cmd.Flags().Changed("visit") {
		if s.VisitMode, err = sequencer.ParseVisitMode(f.visit); err != nil {
			return s, err
		}
	}
	if cmd.Flags().Changed("max-expansions") {
		s.MaxExpansions = f.maxExpansions
	}
	if cmd.Flags().Changed("timeout") {
		s.Timeout = f.timeout
	}
	return s, nil
}

// config returns the loaded configuration, or defaults when PersistentPreRunE did not run.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// =============================================================================
// Sources
// =============================================================================

// loadTracks reads the catalog at path, or the demo set when demo is true.
func (c *CLI) loadTracks(ctx context.Context, path string, demo bool) (catalog.Catalog, error) {
	switch {
	case demo && path != "":
		return catalog.Catalog{}, fmt.Errorf("give either a catalog file or --demo, not both")
	case demo:
		return catalog.Catalog{Name: catalog.DemoName, Tracks: catalog.DemoTracks()}, nil
	case path == "":
		return catalog.Catalog{}, fmt.Errorf("a catalog file or --demo is required")
	}

	loader := catalog.Loader{Analyzer: audio.Analyzer{}, Logger: c.Logger}
	cat, err := loader.Load(ctx, path)
	if err != nil {
		return catalog.Catalog{}, err
	}
	c.Logger.Debug("catalog loaded", "name", cat.Name, "tracks", len(cat.Tracks))
	return cat, nil
}

// openStore opens the configured SQLite database.
func (c *CLI) openStore() (*sqlite.Adapter, error) {
	path := c.config().Storage.Path
	store, err := sqlite.NewAdapter(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("storage opened", "path", path)
	return store, nil
}

func (c *CLI) orchestrator(repo ports.PlaylistRepository, searcher ports.StartSearcher, s services.Settings) *services.Orchestrator {
	return services.NewOrchestrator(repo, catalog.Matcher{}, searcher, s)
}

// argOrEmpty returns args[0] when present.
func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func ids(tracks []domain.Track) []string {
	out := make([]string, len(tracks))
	for i, t := range tracks {
		out[i] = t.ID
	}
	return out
}
