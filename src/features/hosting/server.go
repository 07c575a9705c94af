package hosting

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"chronotune/src/features/config"
	"chronotune/src/features/metrics"
	"chronotune/src/features/organize"
)

// Server is the watch-mode status server. It exposes the health check, the
// live statistics of the current run and the Prometheus metrics.
type Server struct {
	app  *fiber.App
	port uint32
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Manager, organizeService *organize.Service, recorder *metrics.Recorder) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("Internal Server Error", "error", err)
			return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
		},
		AppName:               "Chronotune",
		DisableStartupMessage: true,
	})

	app.Use(LogRequestsMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	app.Get("/stats", func(c *fiber.Ctx) error {
		stats := organizeService.StatsSnapshot()
		if stats == nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no run has started yet"})
		}
		return c.JSON(stats)
	})

	if recorder != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(recorder.Registry(), promhttp.HandlerOpts{})))
	}

	return &Server{app: app, port: cfg.Get().Server.Port}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
