package handlers

import (
	"github.com/trendscope/trendscope/internal/config"
	"github.com/trendscope/trendscope/internal/logging"
	"github.com/trendscope/trendscope/internal/queue"
	"github.com/trendscope/trendscope/internal/resultstore"
	"github.com/trendscope/trendscope/internal/services"
)

// Handler contains all HTTP handlers
type Handler struct {
	logger          *logging.Logger
	analysisService *services.AnalysisService
}

// New creates a new handler instance
func New(logger *logging.Logger, store resultstore.Store, publisher queue.Publisher, analysisCfg config.AnalysisConfig) *Handler {
	analysisService := services.NewAnalysisService(logger, store, publisher, analysisCfg)

	return &Handler{
		logger:          logger,
		analysisService: analysisService,
	}
}

// AnalysisService returns the underlying service (used by the worker wiring)
func (h *Handler) AnalysisService() *services.AnalysisService {
	return h.analysisService
}
