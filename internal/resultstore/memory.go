package resultstore

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	record    Record
	expiresAt time.Time
}

// MemoryStore implements Store in process memory with TTL eviction.
// Intended for single-node deployments and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	stopCh  chan struct{}
}

// NewMemoryStore creates an in-memory result store
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	store := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}

	go store.cleanup()

	return store
}

// Put stores a record copy
func (s *MemoryStore) Put(_ context.Context, record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[record.JobID] = &memoryEntry{
		record:    *record,
		expiresAt: time.Now().Add(s.ttl),
	}

	return nil
}

// Get retrieves a record, treating expired entries as absent
func (s *MemoryStore) Get(_ context.Context, jobID string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.entries[jobID]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, ErrNotFound
	}

	record := entry.record
	return &record, nil
}

// Delete removes a record
func (s *MemoryStore) Delete(_ context.Context, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, jobID)
	return nil
}

// cleanup periodically removes expired entries
func (s *MemoryStore) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.mu.Lock()
			now := time.Now()
			for jobID, entry := range s.entries {
				if now.After(entry.expiresAt) {
					delete(s.entries, jobID)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

// Close stops the cleanup goroutine
func (s *MemoryStore) Close() error {
	close(s.stopCh)
	return nil
}
