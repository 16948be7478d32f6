// Package middleware holds the Fiber middlewares shared by the API routes:
// API key authentication and the top-level error handler.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/trendscope/trendscope/internal/logging"
	"github.com/trendscope/trendscope/internal/models"
)

// MinAPIKeyLength is the minimum accepted key length. Shorter keys are
// rejected at startup, not at request time.
const MinAPIKeyLength = 32

// ValidateAPIKey reports whether a key is long enough and non-blank.
func ValidateAPIKey(key string) bool {
	return len(key) >= MinAPIKeyLength && strings.TrimSpace(key) != ""
}

// APIKeyAuth builds the authentication middleware. Clients present a key in
// the X-API-Key header or the Authorization header (Bearer or bare). With
// enabled=false the middleware is a passthrough.
func APIKeyAuth(logger *logging.Logger, apiKeys []string, enabled bool) fiber.Handler {
	if !enabled {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	accepted := buildKeySet(logger, apiKeys)
	if len(accepted) == 0 && len(apiKeys) > 0 {
		logger.Error("No valid API keys configured - all provided keys failed validation",
			"total_keys", len(apiKeys),
			"min_required_length", MinAPIKeyLength,
		)
	}

	return func(c *fiber.Ctx) error {
		key := requestAPIKey(c)

		if key == "" {
			logger.Warn("API key missing", "path", c.Path(), "method", c.Method(), "ip", c.IP())
			return unauthorized(c, "API key is required. Provide it via X-API-Key header or Authorization header.")
		}

		if _, ok := accepted[key]; !ok {
			logger.Warn("Invalid API key",
				"path", c.Path(),
				"method", c.Method(),
				"ip", c.IP(),
				"api_key_prefix", maskAPIKey(key),
			)
			return unauthorized(c, "Invalid API key.")
		}

		return c.Next()
	}
}

// buildKeySet filters the configured keys down to the valid ones, warning
// about each reject so misconfigured keys are visible at startup.
func buildKeySet(logger *logging.Logger, apiKeys []string) map[string]struct{} {
	accepted := make(map[string]struct{}, len(apiKeys))
	for _, key := range apiKeys {
		if key == "" {
			continue
		}
		if !ValidateAPIKey(key) {
			logger.Warn("API key does not meet security requirements",
				"key_length", len(key),
				"min_required", MinAPIKeyLength,
				"key_prefix", maskAPIKey(key),
			)
			continue
		}
		accepted[key] = struct{}{}
	}
	return accepted
}

// requestAPIKey pulls the key from X-API-Key, falling back to the
// Authorization header with an optional Bearer prefix.
func requestAPIKey(c *fiber.Ctx) string {
	if key := c.Get("X-API-Key"); key != "" {
		return key
	}
	auth := c.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return token
	}
	return auth
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "UNAUTHORIZED",
			Message: msg,
		},
	})
}

// maskAPIKey keeps only the first 4 characters for log output.
func maskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
