package logging

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// FiberMiddleware logs one line per request and threads a request ID
// through the user context. Paths listed in skip are not logged.
func FiberMiddleware(logger *Logger, skip ...string) fiber.Handler {
	skipped := make(map[string]struct{}, len(skip))
	for _, path := range skip {
		skipped[path] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if _, ok := skipped[c.Path()]; ok {
			return c.Next()
		}

		start := time.Now()
		id := ensureRequestID(c)

		ctx := WithLogger(WithRequestID(c.UserContext(), id), logger)
		c.SetUserContext(ctx)

		err := c.Next()

		status := c.Response().StatusCode()
		fields := []interface{}{
			"method", c.Method(),
			"path", c.Path(),
			"ip", c.IP(),
			"status", status,
			"duration", time.Since(start),
			"request_id", id,
		}

		if err != nil {
			logger.Error("Request failed", append(fields, "error", err)...)
			return err
		}

		logRequest(logger, status, fields)
		return nil
	}
}

// ensureRequestID returns the caller's X-Request-ID, minting one when
// the header is absent so every log line is correlatable.
func ensureRequestID(c *fiber.Ctx) string {
	if id := c.Get(requestIDHeader); id != "" {
		return id
	}
	id := uuid.New().String()
	c.Set(requestIDHeader, id)
	return id
}

func logRequest(logger *Logger, status int, fields []interface{}) {
	switch {
	case status >= fiber.StatusInternalServerError:
		logger.Error("Server error", fields...)
	case status >= fiber.StatusBadRequest:
		logger.Warn("Client error", fields...)
	default:
		logger.Info("Request completed", fields...)
	}
}
