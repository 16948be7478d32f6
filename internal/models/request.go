package models

import (
	"github.com/trendscope/trendscope/internal/analysis"
	"github.com/trendscope/trendscope/internal/timeseries"
)

// AnalyzeRequest represents a synchronous analysis request
type AnalyzeRequest struct {
	Dataset timeseries.TimeSeriesData `json:"dataset"`
	Options analysis.Options          `json:"options"`
}

// SubmitAnalysisRequest represents an asynchronous analysis submission.
// The payload is identical to AnalyzeRequest; the work is queued instead
// of executed inline.
type SubmitAnalysisRequest struct {
	Dataset timeseries.TimeSeriesData `json:"dataset"`
	Options analysis.Options          `json:"options"`
}
