package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/trendscope/trendscope/internal/config"
	"github.com/trendscope/trendscope/internal/handlers"
	"github.com/trendscope/trendscope/internal/logging"
	"github.com/trendscope/trendscope/internal/middleware"
	"github.com/trendscope/trendscope/internal/queue"
	"github.com/trendscope/trendscope/internal/resultstore"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, store resultstore.Store, publisher queue.Publisher, cfg config.Config) *handlers.Handler {
	// Create handler instance
	h := handlers.New(logger, store, publisher, cfg.Analysis)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger, "/health"))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	// API key authentication middleware
	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled)

	// API v1 routes (protected by API key)
	v1 := app.Group("/v1", authMiddleware)

	// Synchronous analysis
	v1.Post("/analyze", h.Analyze)

	// Asynchronous analysis jobs
	v1.Post("/analyses", h.SubmitAnalysis)
	v1.Get("/analyses/:id", h.GetAnalysis)

	// Registered analysis routines
	v1.Get("/analyzers", h.ListAnalyzers)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, store resultstore.Store, publisher queue.Publisher, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "TrendScope API",
		DisableStartupMessage: true,
		BodyLimit:             cfg.Server.BodyMax,
		ReadTimeout:           cfg.Server.Timeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, store, publisher, cfg)

	return app
}
