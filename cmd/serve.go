package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/bidcli/internal/api"
	"github.com/Mohsinsiddi/bidcli/internal/session"
	"github.com/Mohsinsiddi/bidcli/internal/ui"
)

var (
	serveAddr    string
	serveOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the session over a local HTTP API",
	Long: `Keep one session open and expose it over HTTP:

  GET    /deployment-info.json        last known deployment
  GET    /api/state                    session snapshot
  GET    /api/items[?active=true]      all items with pending writes overlaid
  GET    /api/items/:id
  POST   /api/items                    {"name","description","startingPrice"}
  POST   /api/items/:id/bids           {"bidderName","amount"}
  POST   /api/items/:id/end
  GET    /api/cache                    cache stats
  DELETE /api/cache
  POST   /api/deployment/refresh

Writes return 202 at once; add ?wait=true to block until confirmed.
Account and network changes in the wallet reset the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.connect(ctx); err != nil {
			fmt.Fprintln(stderr, explain(err))
		}

		if a.provider != nil {
			a.provider.Watch(cfg.WatchEvery())
			a.ctl.Listen(ctx, func(chainID int64) {
				reloadSession(ctx, a.ctl, chainID)
			})
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.ListenAddr
		}
		srv := api.New(a.ctl, api.WithLogger(log.Named("api")), api.WithOrigins(serveOrigins...))
		fmt.Fprintln(stdout, ui.Success("Serving on http://"+addr))
		fmt.Fprintln(stdout, renderState(a.ctl.State()))

		if err := srv.Run(ctx, addr); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

// reloadSession reconnects after the node switched chains, standing in for
// a page reload.
func reloadSession(ctx context.Context, ctl *session.Controller, chainID int64) {
	log.Warn("network changed, reloading session", zap.Int64("chainId", chainID))
	if err := ctl.Init(ctx); err != nil {
		log.Warn("reload failed", zap.Error(err))
	}
	if ctl.State().Status != session.Connected {
		if err := ctl.Connect(ctx); err != nil {
			log.Warn("reconnect failed", zap.Error(err))
		}
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "origin", nil, "allowed CORS origin (repeatable, default any)")
}
