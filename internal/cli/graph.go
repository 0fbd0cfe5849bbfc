package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/segue/internal/adapters/graph"
	"github.com/ewilliams-labs/segue/internal/core/domain"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	demo     bool   // use the built-in demo catalog
	playlist string // draw a stored playlist instead of optimizing a catalog
	start    string // start track when optimizing
	format   string // dot, mermaid or svg
	output   string // output file; stdout when empty
	search   searchFlags
}

func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph [catalog]",
		Short: "Draw the transition graph with the optimized ordering highlighted",
		Long: `Graph writes the complete transition graph of a track set: one node per track and one
edge per pair labelled with its transition cost. Edges on the ordering are highlighted,
the start node is green and the last node pink.`,
		Example: `  segue graph --demo --format mermaid
  segue graph tracks.toml --format svg -o transitions.svg
  segue graph --playlist 3f9c... --format dot`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, argOrEmpty(args), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.demo, "demo", false, "use the built-in demo catalog")
	cmd.Flags().StringVarP(&opts.playlist, "playlist", "p", "", "stored playlist ID to draw as stored")
	cmd.Flags().StringVarP(&opts.start, "start", "s", "", "start track ID or \"Title - Artist\"")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "dot", "output format: dot, mermaid, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	opts.search.register(cmd)

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, path string, opts graphOpts) error {
	ctx := cmd.Context()
	format, err := graph.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	settings, err := c.settings(cmd, &opts.search)
	if err != nil {
		return err
	}

	var order []domain.Track
	if opts.playlist != "" {
		store, err := c.openStore()
		if err != nil {
			return err
		}
		defer store.Close()
		pl, err := c.orchestrator(store, nil, settings).GetPlaylist(ctx, opts.playlist)
		if err != nil {
			return err
		}
		order = pl.Tracks
	} else {
		cat, err := c.loadTracks(ctx, path, opts.demo)
		if err != nil {
			return err
		}
		res, err := c.orchestrator(nil, nil, settings).OptimizeTracks(ctx, cat.Tracks, opts.start, nil)
		if err != nil {
			return err
		}
		order = res.Order
	}

	model := c.orchestrator(nil, nil, settings).CostModel(nil)
	body, err := graph.Render(ctx, format, model, order)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.WriteFile(opts.output, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	c.Logger.Info("graph written", "path", opts.output, "format", format, "tracks", len(order))
	return nil
}
