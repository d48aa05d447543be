package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/petdex/analytics/internal/logging"
	"github.com/petdex/analytics/internal/services"
	"github.com/petdex/analytics/internal/utils"
)

// DefaultVersion is reported by the health endpoint when no build version is set
const DefaultVersion = "dev"

// Handler contains all HTTP handlers
type Handler struct {
	logger         *logging.Logger
	telemetry      *services.TelemetryService
	analytics      *services.AnalyticsService
	version        string
	requestTimeout time.Duration
}

// New creates a new handler instance
func New(
	logger *logging.Logger,
	telemetry *services.TelemetryService,
	analytics *services.AnalyticsService,
	version string,
	requestTimeout time.Duration,
) *Handler {
	if version == "" {
		version = DefaultVersion
	}
	if requestTimeout <= 0 {
		requestTimeout = utils.DefaultRequestTimeout
	}
	return &Handler{
		logger:         logger,
		telemetry:      telemetry,
		analytics:      analytics,
		version:        version,
		requestTimeout: requestTimeout,
	}
}

// requestContext bounds the work of one request, upstream fetches included
func (h *Handler) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), h.requestTimeout)
}
