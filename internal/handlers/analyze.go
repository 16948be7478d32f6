package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/trendscope/trendscope/internal/models"
	"github.com/trendscope/trendscope/internal/services"
)

// serviceErrorResponse maps a service error to an HTTP response
func serviceErrorResponse(c *fiber.Ctx, err error, fallbackCode string) error {
	if svcErr, ok := err.(*services.ServiceError); ok {
		status := fiber.StatusInternalServerError
		switch svcErr.Code {
		case "VALIDATION_FAILED", "INSUFFICIENT_DATA", "DATASET_TOO_LARGE":
			status = fiber.StatusBadRequest
		case "RESULT_NOT_FOUND":
			status = fiber.StatusNotFound
		case "QUEUE_UNAVAILABLE":
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    svcErr.Code,
				Message: svcErr.Message,
				Details: svcErr.Details,
			},
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    fallbackCode,
			Message: err.Error(),
		},
	})
}

// Analyze handles synchronous analysis requests
// POST /v1/analyze
func (h *Handler) Analyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_JSON",
				Message: "Failed to parse JSON body",
				Details: map[string]interface{}{"error": err.Error()},
			},
		})
	}

	result, err := h.analysisService.Execute(c.Context(), &req)
	if err != nil {
		return serviceErrorResponse(c, err, "ANALYSIS_FAILED")
	}

	return c.JSON(models.AnalyzeResponse{Result: result})
}

// SubmitAnalysis handles asynchronous analysis submissions
// POST /v1/analyses
func (h *Handler) SubmitAnalysis(c *fiber.Ctx) error {
	var req models.SubmitAnalysisRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_JSON",
				Message: "Failed to parse JSON body",
				Details: map[string]interface{}{"error": err.Error()},
			},
		})
	}

	resp, err := h.analysisService.Submit(c.Context(), &req)
	if err != nil {
		return serviceErrorResponse(c, err, "SUBMIT_FAILED")
	}

	return c.Status(fiber.StatusAccepted).JSON(resp)
}

// GetAnalysis returns the stored outcome of an async analysis
// GET /v1/analyses/:id
func (h *Handler) GetAnalysis(c *fiber.Ctx) error {
	jobID := c.Params("id")

	record, err := h.analysisService.GetResult(c.Context(), jobID)
	if err != nil {
		return serviceErrorResponse(c, err, "RESULT_FETCH_FAILED")
	}

	resp := models.AnalysisResultResponse{
		JobID:  record.JobID,
		Status: record.Status,
		Result: record.Result,
	}
	if record.Error != "" {
		return c.JSON(fiber.Map{
			"job_id": record.JobID,
			"status": record.Status,
			"error":  record.Error,
		})
	}

	return c.JSON(resp)
}

// ListAnalyzers returns the registered analysis routines
// GET /v1/analyzers
func (h *Handler) ListAnalyzers(c *fiber.Ctx) error {
	analyzers := h.analysisService.ListAnalyzers()

	return c.JSON(models.AnalyzerListResponse{
		Analyzers: analyzers,
		Count:     len(analyzers),
	})
}
