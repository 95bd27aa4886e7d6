package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crdb/internal/server"
)

const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		cf   clientFlags
		addr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve CRDB queries over HTTP",
		Long: `Serve a JSON HTTP API in front of CRDB.

Routes:
  GET /healthz
  GET /v1/url?num=B&den=C
  GET /v1/query?num=B&den=C&energy_type=EKN[&output=csv|tsv|json]
  GET /v1/experiments?num=B&den=C
  GET /v1/quantities[?filter=Fe]

Replies share the configured response cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, backend, err := c.newClient(ctx, cf)
			if err != nil {
				return err
			}
			defer backend.Close()

			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			srv := server.NewHTTPServer(server.Config{Addr: addr}, client, c.Logger)
			return c.listen(ctx, srv)
		},
	}

	cf.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

// listen serves until ctx is cancelled, then shuts down gracefully.
func (c *CLI) listen(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
