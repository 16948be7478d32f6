package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/trendscope/trendscope/internal/analysis"
	"github.com/trendscope/trendscope/internal/config"
	"github.com/trendscope/trendscope/internal/logging"
	"github.com/trendscope/trendscope/internal/models"
	"github.com/trendscope/trendscope/internal/queue"
	"github.com/trendscope/trendscope/internal/resultstore"
)

// AnalysisJobsSubject is the queue subject async analysis jobs travel on
const AnalysisJobsSubject = "trendscope.analysis.jobs"

// AnalysisService runs analyses synchronously and dispatches async jobs
type AnalysisService struct {
	logger    *logging.Logger
	store     resultstore.Store
	publisher queue.Publisher
	cfg       config.AnalysisConfig
}

// NewAnalysisService creates a new AnalysisService. The publisher may be
// nil when async submission is not wired (e.g. the worker binary).
func NewAnalysisService(
	logger *logging.Logger,
	store resultstore.Store,
	publisher queue.Publisher,
	cfg config.AnalysisConfig,
) *AnalysisService {
	return &AnalysisService{
		logger:    logger,
		store:     store,
		publisher: publisher,
		cfg:       cfg,
	}
}

// validate applies request-level checks before the engine runs
func (s *AnalysisService) validate(req *models.AnalyzeRequest) *ServiceError {
	if req.Options.Type == "" {
		return NewServiceError("VALIDATION_FAILED", "analysis type is required")
	}

	if len(req.Dataset.DataPoints) == 0 {
		return NewServiceError("VALIDATION_FAILED", "dataset has no data points")
	}

	if s.cfg.MaxDataPoints > 0 && len(req.Dataset.DataPoints) > s.cfg.MaxDataPoints {
		return NewServiceErrorWithDetails("DATASET_TOO_LARGE", "dataset exceeds the configured size limit",
			map[string]interface{}{
				"max_data_points": s.cfg.MaxDataPoints,
				"data_points":     len(req.Dataset.DataPoints),
			})
	}

	return nil
}

// applyDefaults fills per-request parameters the caller left unset with
// the service-level defaults
func (s *AnalysisService) applyDefaults(opts analysis.Options) analysis.Options {
	if opts.Type == analysis.TypeForecasting && opts.Parameters.ForecastHorizon <= 0 {
		opts.Parameters.ForecastHorizon = s.cfg.ForecastHorizon
	}
	return opts
}

// mapEngineError converts engine errors to service errors
func mapEngineError(err error) *ServiceError {
	var validation *analysis.ValidationError
	if errors.As(err, &validation) {
		return NewServiceError("VALIDATION_FAILED", validation.Error())
	}

	var insufficient *analysis.InsufficientDataError
	if errors.As(err, &insufficient) {
		return NewServiceErrorWithDetails("INSUFFICIENT_DATA", insufficient.Error(),
			map[string]interface{}{
				"required": insufficient.Required,
				"actual":   insufficient.Actual,
			})
	}

	return NewServiceError("ANALYSIS_FAILED", err.Error())
}

// Execute runs an analysis inline and returns the result
func (s *AnalysisService) Execute(ctx context.Context, req *models.AnalyzeRequest) (*analysis.Result, error) {
	start := time.Now()

	if serviceErr := s.validate(req); serviceErr != nil {
		return nil, serviceErr
	}

	result, err := analysis.Analyze(&req.Dataset, s.applyDefaults(req.Options))
	if err != nil {
		return nil, mapEngineError(err)
	}

	s.logger.Info("Analysis completed",
		"type", string(req.Options.Type),
		"dataset_id", req.Dataset.ID,
		"data_points", len(req.Dataset.DataPoints),
		"duration", time.Since(start),
	)

	return result, nil
}

// Submit validates a request, queues it as a job, and records it as queued
func (s *AnalysisService) Submit(ctx context.Context, req *models.SubmitAnalysisRequest) (*models.SubmitAnalysisResponse, error) {
	if s.publisher == nil {
		return nil, NewServiceError("QUEUE_UNAVAILABLE", "async submission is not configured")
	}

	analyzeReq := models.AnalyzeRequest{Dataset: req.Dataset, Options: req.Options}
	if serviceErr := s.validate(&analyzeReq); serviceErr != nil {
		return nil, serviceErr
	}

	job := models.AnalysisJob{
		JobID:       uuid.New().String(),
		Dataset:     req.Dataset,
		Options:     req.Options,
		SubmittedAt: time.Now().UTC().Format(time.RFC3339),
	}

	data, err := json.Marshal(&job)
	if err != nil {
		return nil, NewServiceError("QUEUE_FAILED", "failed to encode job")
	}

	// Record before publishing so the worker's outcome always wins the
	// store race.
	record := &resultstore.Record{
		JobID:    job.JobID,
		Status:   models.JobStatusQueued,
		StoredAt: job.SubmittedAt,
	}
	if err := s.store.Put(ctx, record); err != nil {
		return nil, NewServiceError("STORE_FAILED", "failed to record queued job")
	}

	if err := s.publisher.Publish(ctx, AnalysisJobsSubject, data); err != nil {
		s.logger.Error("Failed to publish analysis job", "error", err, "job_id", job.JobID)
		_ = s.store.Delete(ctx, job.JobID)
		return nil, NewServiceError("QUEUE_FAILED", "failed to queue analysis job")
	}

	s.logger.Info("Analysis job queued",
		"job_id", job.JobID,
		"type", string(req.Options.Type),
		"data_points", len(req.Dataset.DataPoints),
	)

	return &models.SubmitAnalysisResponse{
		JobID:       job.JobID,
		Status:      models.JobStatusQueued,
		SubmittedAt: job.SubmittedAt,
	}, nil
}

// Process executes a dequeued job and persists the outcome. Called by the
// worker; errors returned here mean the record store is unreachable, not
// that the analysis failed.
func (s *AnalysisService) Process(ctx context.Context, job *models.AnalysisJob) error {
	start := time.Now()
	log := s.logger.WithContext(ctx)

	record := &resultstore.Record{
		JobID:    job.JobID,
		StoredAt: time.Now().UTC().Format(time.RFC3339),
	}

	result, err := analysis.Analyze(&job.Dataset, s.applyDefaults(job.Options))
	if err != nil {
		serviceErr := mapEngineError(err)
		record.Status = models.JobStatusFailed
		record.Error = serviceErr.Message

		log.Warn("Analysis job failed",
			"type", string(job.Options.Type),
			"error", err,
		)
	} else {
		data, marshalErr := json.Marshal(result)
		if marshalErr != nil {
			record.Status = models.JobStatusFailed
			record.Error = "failed to encode result"
		} else {
			record.Status = models.JobStatusCompleted
			record.Result = data
		}

		log.Info("Analysis job completed",
			"type", string(job.Options.Type),
			"duration", time.Since(start),
		)
	}

	return s.store.Put(ctx, record)
}

// GetResult fetches the stored outcome of an async job
func (s *AnalysisService) GetResult(ctx context.Context, jobID string) (*resultstore.Record, error) {
	record, err := s.store.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, resultstore.ErrNotFound) {
			return nil, NewServiceError("RESULT_NOT_FOUND", "no result for job ID: "+jobID)
		}
		return nil, NewServiceError("STORE_FAILED", err.Error())
	}

	return record, nil
}

// ListAnalyzers returns the registered analysis routines
func (s *AnalysisService) ListAnalyzers() []models.AnalyzerInfo {
	names := analysis.ListRoutines()

	analyzers := make([]models.AnalyzerInfo, 0, len(names))
	for _, name := range names {
		analyzers = append(analyzers, models.AnalyzerInfo{Type: name})
	}

	return analyzers
}
