package handlers

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/petdex/analytics/internal/services"
)

// maxPageSize caps the page size a client may request
const maxPageSize = 1000

func invalid(message string, details map[string]interface{}) error {
	return services.NewServiceErrorWithDetails(services.CodeInvalidRequest, message, details)
}

// pageParams reads the optional page and size query parameters.
// A zero size means the configured upstream page size.
func pageParams(c *fiber.Ctx) (page, size int, err error) {
	page, err = optionalInt(c, "page")
	if err != nil {
		return 0, 0, err
	}
	if page < 0 {
		return 0, 0, invalid("page must not be negative", map[string]interface{}{"page": page})
	}

	size, err = optionalInt(c, "size")
	if err != nil {
		return 0, 0, err
	}
	if size < 0 || size > maxPageSize {
		return 0, 0, invalid("size must be between 1 and 1000", map[string]interface{}{"size": size})
	}
	return page, size, nil
}

func optionalInt(c *fiber.Ctx, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalid(name+" must be an integer", map[string]interface{}{name: raw})
	}
	return v, nil
}

// requiredFloat reads a mandatory numeric query parameter
func requiredFloat(c *fiber.Ctx, name string) (float64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, invalid(name+" is required", map[string]interface{}{"parameter": name})
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalid(name+" must be a number", map[string]interface{}{name: raw})
	}
	return v, nil
}
