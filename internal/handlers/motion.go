package handlers

import "github.com/gofiber/fiber/v2"

// ListMotions returns one upstream page of motion records
// GET /movimentos?page=&size=
func (h *Handler) ListMotions(c *fiber.Ctx) error {
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	result, err := h.telemetry.MotionPage(ctx, page, size)
	if err != nil {
		return err
	}
	return c.JSON(result)
}
