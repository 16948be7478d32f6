package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/trendscope/trendscope/internal/logging"
)

// generateAPIKey generates a valid API key of specified length
func generateAPIKey(length int) string {
	key := make([]byte, length)
	for i := range key {
		key[i] = 'a' + byte(i%26)
	}
	return string(key)
}

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		expected bool
	}{
		{name: "exactly 32 chars", key: generateAPIKey(32), expected: true},
		{name: "longer than 32 chars", key: generateAPIKey(64), expected: true},
		{name: "too short", key: generateAPIKey(31), expected: false},
		{name: "empty", key: "", expected: false},
		{name: "32 spaces", key: "                                ", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateAPIKey(tt.key); got != tt.expected {
				t.Errorf("ValidateAPIKey(%q) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	if got := maskAPIKey("abcdefghijklmnop"); got != "abcd****" {
		t.Errorf("Expected abcd****, got %s", got)
	}
	if got := maskAPIKey("abc"); got != "****" {
		t.Errorf("Expected **** for short key, got %s", got)
	}
}

func newAuthApp(apiKeys []string, enabled bool) *fiber.App {
	app := fiber.New()
	app.Use(APIKeyAuth(logging.NewDevelopment(), apiKeys, enabled))
	app.Get("/v1/analyzers", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestAPIKeyAuth_Disabled(t *testing.T) {
	app := newAuthApp(nil, false)

	req := httptest.NewRequest("GET", "/v1/analyzers", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200 with auth disabled, got %d", resp.StatusCode)
	}
}

func TestAPIKeyAuth_MissingKey(t *testing.T) {
	app := newAuthApp([]string{generateAPIKey(32)}, true)

	req := httptest.NewRequest("GET", "/v1/analyzers", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 without key, got %d", resp.StatusCode)
	}
}

func TestAPIKeyAuth_ValidKeyHeader(t *testing.T) {
	key := generateAPIKey(32)
	app := newAuthApp([]string{key}, true)

	req := httptest.NewRequest("GET", "/v1/analyzers", nil)
	req.Header.Set("X-API-Key", key)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200 with valid key, got %d", resp.StatusCode)
	}
}

func TestAPIKeyAuth_BearerToken(t *testing.T) {
	key := generateAPIKey(40)
	app := newAuthApp([]string{key}, true)

	req := httptest.NewRequest("GET", "/v1/analyzers", nil)
	req.Header.Set("Authorization", "Bearer "+key)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("Expected 200 with bearer token, got %d", resp.StatusCode)
	}
}

func TestAPIKeyAuth_InvalidKey(t *testing.T) {
	app := newAuthApp([]string{generateAPIKey(32)}, true)

	req := httptest.NewRequest("GET", "/v1/analyzers", nil)
	req.Header.Set("X-API-Key", generateAPIKey(33))

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 with wrong key, got %d", resp.StatusCode)
	}
}
