package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/segue/internal/adapters/report"
)

func (c *CLI) importCommand() *cobra.Command {
	var (
		name     string
		demo     bool
		optimize bool
		start    string
	)

	cmd := &cobra.Command{
		Use:   "import [catalog]",
		Short: "Store a catalog as a playlist",
		Long: `Import validates a catalog and stores it in the configured SQLite database in its
original order. With --optimize the optimized ordering is stored as well.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cat, err := c.loadTracks(ctx, argOrEmpty(args), demo)
			if err != nil {
				return err
			}
			if name != "" {
				cat.Name = name
			}

			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			settings, err := c.settings(cmd, nil)
			if err != nil {
				return err
			}
			svc := c.orchestrator(store, nil, settings)

			out := cmd.OutOrStdout()
			pl, err := svc.ImportPlaylist(ctx, cat.Name, cat.Tracks)
			if err != nil {
				return err
			}
			printSuccess(out, "imported %q as %s", pl.Name, pl.ID)
			printDetail(out, "%d tracks, input-order cost %.4f", len(pl.Tracks), pl.Cost)

			if !optimize {
				return nil
			}
			opt, _, err := svc.OptimizePlaylist(ctx, pl.ID, start, nil)
			if err != nil {
				return err
			}
			printSuccess(out, "optimized as %s", opt.ID)
			printDetail(out, "start %s, cost %.4f", opt.StartID, opt.Cost)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "playlist name (default: catalog name)")
	cmd.Flags().BoolVar(&demo, "demo", false, "import the built-in demo catalog")
	cmd.Flags().BoolVar(&optimize, "optimize", false, "also store the optimized ordering")
	cmd.Flags().StringVarP(&start, "start", "s", "", "start track for --optimize")

	return cmd
}

func (c *CLI) showCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [playlist-id]",
		Short: "List stored playlists or analyze one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			settings, err := c.settings(cmd, nil)
			if err != nil {
				return err
			}
			svc := c.orchestrator(store, nil, settings)
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				pls, err := svc.ListPlaylists(ctx)
				if err != nil {
					return err
				}
				if len(pls) == 0 {
					printInfo(out, "no playlists stored in %s", c.config().Storage.Path)
					return nil
				}
				fmt.Fprintln(out, report.Playlists(pls))
				return nil
			}

			a, err := svc.Analysis(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(out, report.Analysis(a))
			return nil
		},
	}
	return cmd
}
