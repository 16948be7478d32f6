package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/trendscope/trendscope/internal/logging"
	"github.com/trendscope/trendscope/internal/models"
)

// ErrorHandler is the app-level fiber error handler: it logs whatever
// escaped the handlers and converts it to the standard error envelope.
// fiber.Error keeps its status and message; anything else becomes a 500.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
			message = fiberErr.Message
		}

		logger.Error("Request error",
			"path", c.Path(),
			"method", c.Method(),
			"status", status,
			"error", err,
		)

		return c.Status(status).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "ERROR",
				Message: message,
			},
		})
	}
}
