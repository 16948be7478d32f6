package models

import (
	"github.com/trendscope/trendscope/internal/analysis"
	"github.com/trendscope/trendscope/internal/timeseries"
)

// Job status values reported through the results store and the API.
const (
	JobStatusQueued    = "queued"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// AnalysisJob is the queue payload for an async analysis submission
type AnalysisJob struct {
	JobID       string                    `json:"job_id"`
	Dataset     timeseries.TimeSeriesData `json:"dataset"`
	Options     analysis.Options          `json:"options"`
	SubmittedAt string                    `json:"submitted_at"`
}
