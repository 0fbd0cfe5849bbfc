package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/segue/internal/adapters/report"
	"github.com/ewilliams-labs/segue/internal/worker"
)

type bestStartOpts struct {
	demo    bool
	workers int
	search  searchFlags
}

func (c *CLI) bestStartCommand() *cobra.Command {
	var opts bestStartOpts

	cmd := &cobra.Command{
		Use:   "best-start [catalog]",
		Short: "Search from every track and report the cheapest start",
		Long: `Best-start runs one search per possible start track in parallel and ranks the results.
Ties go to the track that appears first in the catalog.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBestStart(cmd, argOrEmpty(args), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.demo, "demo", false, "use the built-in demo catalog")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "parallel searches (default: workers.count from config)")
	opts.search.register(cmd)

	return cmd
}

func (c *CLI) runBestStart(cmd *cobra.Command, path string, opts bestStartOpts) error {
	ctx := cmd.Context()
	cat, err := c.loadTracks(ctx, path, opts.demo)
	if err != nil {
		return err
	}
	settings, err := c.settings(cmd, &opts.search)
	if err != nil {
		return err
	}

	cfg := c.config()
	workers := cfg.Workers.Count
	if opts.workers > 0 {
		workers = opts.workers
	}
	pool := worker.NewPool(workers, cfg.Workers.QueueSize, c.Logger)
	pool.Start()
	defer pool.Stop()

	svc := c.orchestrator(nil, pool, settings)
	ranking, err := svc.BestStart(ctx, cat.Tracks, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, StyleTitle.Render("Start tracks"))
	fmt.Fprintln(out, report.Ranking(ranking))
	for _, oc := range ranking.Outcomes {
		if oc.Err != nil {
			printWarning(out, "start %s failed: %v", oc.Start.ID, oc.Err)
		}
	}

	best := ranking.Best
	printSuccess(out, "best start: %s (cost %s)", best.Start, StyleNumber.Render(fmt.Sprintf("%.4f", best.Result.Cost)))
	fmt.Fprint(out, report.Analysis(svc.AnalyzeResult(cat.Name, cat.Tracks, best.Result, nil)))
	return nil
}
