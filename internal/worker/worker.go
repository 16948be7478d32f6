// Package worker drains the analysis job queue and persists outcomes.
package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trendscope/trendscope/internal/logging"
	"github.com/trendscope/trendscope/internal/models"
	"github.com/trendscope/trendscope/internal/queue"
	"github.com/trendscope/trendscope/internal/services"
)

// Worker consumes analysis jobs from the queue and runs them
type Worker struct {
	logger     *logging.Logger
	subscriber queue.Subscriber
	service    *services.AnalysisService
	sem        chan struct{}
}

// New creates a new Worker. Concurrency caps how many jobs run at once;
// analysis is CPU-bound, so this is typically set to the core count.
func New(logger *logging.Logger, subscriber queue.Subscriber, service *services.AnalysisService, concurrency int) *Worker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Worker{
		logger:     logger,
		subscriber: subscriber,
		service:    service,
		sem:        make(chan struct{}, concurrency),
	}
}

// Start subscribes to the job subject. Returns after the subscription is
// established; jobs are handled on the queue's delivery goroutines.
func (w *Worker) Start() error {
	err := w.subscriber.Subscribe(services.AnalysisJobsSubject, w.handleJob)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", services.AnalysisJobsSubject, err)
	}

	w.logger.Info("Worker started", "subject", services.AnalysisJobsSubject)
	return nil
}

// handleJob decodes and processes a single queued job
func (w *Worker) handleJob(data []byte) error {
	w.sem <- struct{}{}
	defer func() { <-w.sem }()

	var job models.AnalysisJob
	if err := json.Unmarshal(data, &job); err != nil {
		// Malformed payloads are dropped; redelivery cannot fix them
		w.logger.Error("Discarding malformed job payload", "error", err)
		return nil
	}

	ctx := logging.WithJobID(context.Background(), job.JobID)

	if err := w.service.Process(ctx, &job); err != nil {
		// Store unavailable; leave unacked for redelivery
		w.logger.Error("Failed to persist job outcome", "error", err, "job_id", job.JobID)
		return err
	}

	return nil
}

// Stop unsubscribes from the job subject
func (w *Worker) Stop() error {
	if err := w.subscriber.Unsubscribe(services.AnalysisJobsSubject); err != nil {
		return err
	}

	w.logger.Info("Worker stopped")
	return nil
}
