package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/segue/internal/adapters/report"
	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/sequencer"
)

// optimizeOpts holds the command-line flags for the optimize command.
type optimizeOpts struct {
	demo   bool   // use the built-in demo catalog
	start  string // start track: ID or "Title - Artist"
	asJSON bool   // print a JSON summary instead of tables
	search searchFlags
}

// optimizeResult is the JSON summary printed with --json.
type optimizeResult struct {
	Name      string   `json:"name"`
	Order     []string `json:"order"`
	Cost      float64  `json:"cost"`
	InputCost float64  `json:"input_cost"`
	Expanded  int      `json:"expanded"`
	Generated int      `json:"generated"`
	Pruned    int      `json:"pruned"`
	ElapsedMs float64  `json:"elapsed_ms"`
}

func (c *CLI) optimizeCommand() *cobra.Command {
	var opts optimizeOpts

	cmd := &cobra.Command{
		Use:   "optimize [catalog]",
		Short: "Order a catalog for the smoothest transitions from a start track",
		Long: `Optimize loads a catalog file (JSON, TOML or YAML) and searches for the ordering with
the lowest total transition cost that begins with the start track. Without --start the
first track of the catalog is used.`,
		Example: `  segue optimize --demo
  segue optimize tracks.yaml --start "Billie Jean - Michael Jackson"
  segue optimize tracks.json --heuristic min-hop --visit prefix --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runOptimize(cmd, argOrEmpty(args), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.demo, "demo", false, "use the built-in demo catalog")
	cmd.Flags().StringVarP(&opts.start, "start", "s", "", "start track ID or \"Title - Artist\" (default: first track)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print a JSON summary")
	opts.search.register(cmd)

	return cmd
}

func (c *CLI) runOptimize(cmd *cobra.Command, path string, opts optimizeOpts) error {
	ctx := cmd.Context()
	cat, err := c.loadTracks(ctx, path, opts.demo)
	if err != nil {
		return err
	}
	settings, err := c.settings(cmd, &opts.search)
	if err != nil {
		return err
	}

	svc := c.orchestrator(nil, nil, settings)
	res, err := svc.OptimizeTracks(ctx, cat.Tracks, opts.start, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		return writeOptimizeJSON(out, cat.Name, cat.Tracks, res, svc.CostModel(nil))
	}

	a := svc.AnalyzeResult(cat.Name, cat.Tracks, res, nil)
	fmt.Fprint(out, report.Analysis(a))
	fmt.Fprintln(out, StyleDim.Render(fmt.Sprintf("expanded %d, generated %d, pruned %d states in %s",
		res.Expanded, res.Generated, res.Pruned, res.Elapsed)))
	return nil
}

func writeOptimizeJSON(w io.Writer, name string, input []domain.Track, res sequencer.Result, model sequencer.CostModel) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(optimizeResult{
		Name:      name,
		Order:     ids(res.Order),
		Cost:      res.Cost,
		InputCost: model.TotalCost(input),
		Expanded:  res.Expanded,
		Generated: res.Generated,
		Pruned:    res.Pruned,
		ElapsedMs: float64(res.Elapsed.Microseconds()) / 1000,
	})
}
