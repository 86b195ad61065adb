package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httptransport "github.com/deskflow/ticket-assistant/internal/api/http"
	"github.com/deskflow/ticket-assistant/internal/api/http/handlers"
	"github.com/deskflow/ticket-assistant/internal/auth"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ranked workload over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		cfg := rt.cfg
		actions := rt.actionService("")
		app := httptransport.NewServer(cfg.App.Name, rt.logger, rt.metrics, cfg.App.RequestTimeout(), httptransport.RouteConfig{
			Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, rt.postgres, rt.redis),
			Workload:       handlers.NewWorkloadHandler(rt.tickets, rt.workload),
			Tickets:        handlers.NewTicketsHandler(rt.tickets, actions),
			Metrics:        handlers.NewMetricsHandler(rt.metrics, rt.history),
			AuthMiddleware: auth.NewAuthMiddleware(rt.auth.TokenManager()),
		})

		errCh := make(chan error, 1)
		go func() {
			rt.logger.Info("listening", zap.String("addr", cfg.App.Addr()))
			errCh <- app.Listen(cfg.App.Addr())
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			rt.logger.Info("shutting down", zap.String("signal", sig.String()))
		}
		return app.Shutdown()
	},
}
