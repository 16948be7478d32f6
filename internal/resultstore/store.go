// Package resultstore persists finished analysis results for later
// retrieval by job ID.
package resultstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/trendscope/trendscope/internal/config"
)

// ErrNotFound is returned when no result exists for a job ID
var ErrNotFound = errors.New("result not found")

// Record is the stored outcome of an analysis job
type Record struct {
	JobID    string          `json:"job_id"`
	Status   string          `json:"status"`
	Result   json.RawMessage `json:"result,omitempty"`
	Error    string          `json:"error,omitempty"`
	StoredAt string          `json:"stored_at"`
}

// Store persists analysis records with a bounded lifetime
type Store interface {
	// Put stores a record, replacing any previous record for the same job
	Put(ctx context.Context, record *Record) error

	// Get retrieves a record by job ID, returning ErrNotFound when absent
	// or expired
	Get(ctx context.Context, jobID string) (*Record, error)

	// Delete removes a record
	Delete(ctx context.Context, jobID string) error

	// Close releases backend resources
	Close() error
}

// NewFromConfig creates a result store from configuration
func NewFromConfig(cfg config.ResultsConfig) (Store, error) {
	switch cfg.Backend {
	case "redis":
		return NewRedisStore(cfg)
	case "memory":
		return NewMemoryStore(cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unsupported results backend: %s", cfg.Backend)
	}
}
