package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/petdex/analytics/internal/config"
	"github.com/petdex/analytics/internal/handlers"
	"github.com/petdex/analytics/internal/logging"
	"github.com/petdex/analytics/internal/middleware"
	"github.com/petdex/analytics/internal/services"
)

// Setup configures all routes and middlewares. version is reported by /health.
func Setup(app *fiber.App, logger *logging.Logger,
	telemetry *services.TelemetryService, analytics *services.AnalyticsService,
	cfg config.Config, version string,
) *handlers.Handler {
	h := handlers.New(logger, telemetry, analytics, version, cfg.Server.RequestTimeout)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger))

	// Public routes
	app.Get("/health", h.Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Everything below requires an API key when auth is enabled
	app.Use(middleware.APIKeyAuth(logger, cfg.Auth))

	// Heart-rate routes
	app.Get("/batimentos", h.ListHeartRates)
	app.Get("/batimentos/estatisticas", h.Statistics)
	app.Get("/batimentos/media-por-data", h.MeanByDate)
	app.Get("/batimentos/probabilidade", h.Probability)
	app.Get("/batimentos/media-ultimos-5-dias", h.LastDays)
	app.Get("/batimentos/media-ultimas-5-horas-registradas", h.LastHours)
	app.Get("/batimentos/regressao", h.Regression)
	app.Get("/batimentos/predicao", h.Predict)

	// Motion routes
	app.Get("/movimentos", h.ListMotions)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger,
	telemetry *services.TelemetryService, analytics *services.AnalyticsService,
	cfg config.Config, version string,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "PetDex Analytics",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, telemetry, analytics, cfg, version)

	return app
}
