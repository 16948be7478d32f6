package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/trendscope/trendscope/internal/models"
)

var startTime = time.Now()

// Health reports liveness. Registered outside the authenticated group so
// load balancers can probe it without a key.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(startTime).Round(time.Second).String(),
		Version:   "1.0.0",
	})
}

// NotFound is the terminal handler for unmatched routes.
func (h *Handler) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "NOT_FOUND",
			Message: "Route not found",
			Path:    c.Path(),
		},
	})
}
