package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deskflow/ticket-assistant/internal/api/http/handlers"
	"github.com/deskflow/ticket-assistant/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Workload       *handlers.WorkloadHandler
	Tickets        *handlers.TicketsHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/metrics", cfg.AuthMiddleware.Handle, cfg.Metrics.GetMetrics)

	api := app.Group("/api", cfg.AuthMiddleware.Handle)
	api.Get("/workload", cfg.Workload.GetWorkload)
	api.Post("/suggestions", cfg.Workload.SuggestActions)
	api.Get("/tickets/:key", cfg.Tickets.GetTicket)
	api.Post("/tickets/:key/comments", cfg.Tickets.AddComment)
	api.Get("/history", cfg.Metrics.ListHistory)
}
