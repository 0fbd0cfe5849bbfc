package cli

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/segue/internal/adapters/rest"
	"github.com/ewilliams-labs/segue/internal/config"
	"github.com/ewilliams-labs/segue/internal/core/services"
	"github.com/ewilliams-labs/segue/internal/worker"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.config()
			if addr == "" {
				addr = cfg.Server.Addr
			}
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			return c.serve(cmd.Context(), ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.addr from config)")
	return cmd
}

// serve runs the API on ln until ctx is canceled, then shuts down gracefully.
func (c *CLI) serve(ctx context.Context, ln net.Listener) error {
	cfg := c.config()

	store, err := c.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	pool := worker.NewPool(cfg.Workers.Count, cfg.Workers.QueueSize, c.Logger)
	pool.Start()
	defer pool.Stop()

	settings, err := c.settings(nil, nil)
	if err != nil {
		return err
	}
	settings = capSearch(settings, cfg.Server)
	handler := rest.NewHandler(c.orchestrator(store, pool, settings), c.Logger,
		rest.WithMaxTracks(cfg.Server.MaxTracks),
		rest.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
	)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()
	c.Logger.Info("segue API is running", "addr", ln.Addr().String(), "storage", cfg.Storage.Path,
		"workers", pool.Workers(), "search_timeout", settings.Timeout, "max_expansions", settings.MaxExpansions)

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		c.Logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}

// capSearch bounds the search settings by the server limits. A zero timeout or budget
// in s means unbounded, so it takes the server limit.
func capSearch(s services.Settings, srv config.ServerConfig) services.Settings {
	if s.Timeout <= 0 || s.Timeout > srv.SearchTimeout {
		s.Timeout = srv.SearchTimeout
	}
	if s.MaxExpansions <= 0 || s.MaxExpansions > srv.MaxExpansions {
		s.MaxExpansions = srv.MaxExpansions
	}
	return s
}
