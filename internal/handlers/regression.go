package handlers

import "github.com/gofiber/fiber/v2"

// Regression fits heart rate on motion and returns the model with its projection
// GET /batimentos/regressao
func (h *Handler) Regression(c *fiber.Ctx) error {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.analytics.Regression(ctx)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// Predict estimates the heart rate for one set of raw motion values
// GET /batimentos/predicao?acelerometroX=&acelerometroY=&acelerometroZ=
func (h *Handler) Predict(c *fiber.Ctx) error {
	channels := h.analytics.Channels()
	inputs := make(map[string]float64, len(channels))
	for _, ch := range channels {
		v, err := requiredFloat(c, ch)
		if err != nil {
			return err
		}
		inputs[ch] = v
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.analytics.Predict(ctx, inputs)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
