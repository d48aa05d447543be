package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/petdex/analytics/internal/analytics"
)

// ListHeartRates returns one upstream page of heart-rate records
// GET /batimentos?page=&size=
func (h *Handler) ListHeartRates(c *fiber.Ctx) error {
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.telemetry.HeartRatePage(ctx, page, size)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Statistics describes every valid heart-rate reading
// GET /batimentos/estatisticas
func (h *Handler) Statistics(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	summary, err := h.analytics.Statistics(ctx)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// MeanByDate averages the readings between two dates, both inclusive
// GET /batimentos/media-por-data?inicio=YYYY-MM-DD&fim=YYYY-MM-DD
func (h *Handler) MeanByDate(c *fiber.Ctx) error {
	loc := h.analytics.Limits().Zone()

	start, err := analytics.ParseDate(strings.TrimSpace(c.Query("inicio")), loc)
	if err != nil {
		return invalid("inicio must be a date in YYYY-MM-DD format",
			map[string]interface{}{"inicio": c.Query("inicio")})
	}
	end, err := analytics.ParseDate(strings.TrimSpace(c.Query("fim")), loc)
	if err != nil {
		return invalid("fim must be a date in YYYY-MM-DD format",
			map[string]interface{}{"fim": c.Query("fim")})
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.analytics.MeanByDate(ctx, start, end)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Probability classifies a heart-rate value against the animal's history
// GET /batimentos/probabilidade?valor=N
func (h *Handler) Probability(c *fiber.Ctx) error {
	value, err := requiredFloat(c, "valor")
	if err != nil {
		return err
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.analytics.Classify(ctx, value)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// LastDays averages the most recent days with valid readings
// GET /batimentos/media-ultimos-5-dias
func (h *Handler) LastDays(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.analytics.LastDays(ctx)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// LastHours averages the most recent registered hours
// GET /batimentos/media-ultimas-5-horas-registradas
func (h *Handler) LastHours(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.analytics.LastHours(ctx)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
