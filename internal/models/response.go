package models

import (
	"encoding/json"

	"github.com/trendscope/trendscope/internal/analysis"
)

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime"`
	Version   string `json:"version"`
}

// AnalyzeResponse represents a synchronous analysis response
type AnalyzeResponse struct {
	Result *analysis.Result `json:"result"`
}

// SubmitAnalysisResponse acknowledges an async analysis submission
type SubmitAnalysisResponse struct {
	JobID       string `json:"job_id"`
	Status      string `json:"status"`
	SubmittedAt string `json:"submitted_at"`
}

// AnalysisResultResponse returns a stored analysis result. The result body
// is kept as raw JSON so the per-type result shapes round-trip untouched.
type AnalysisResultResponse struct {
	JobID  string          `json:"job_id"`
	Status string          `json:"status"`
	Result json.RawMessage `json:"result,omitempty"`
}

// AnalyzerInfo describes one registered analysis routine
type AnalyzerInfo struct {
	Type string `json:"type"`
}

// AnalyzerListResponse lists the registered analysis routines
type AnalyzerListResponse struct {
	Analyzers []AnalyzerInfo `json:"analyzers"`
	Count     int            `json:"count"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail represents error details
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Path    string                 `json:"path,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}
