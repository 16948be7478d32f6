package resultstore

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/trendscope/trendscope/internal/config"
)

func TestMemoryStore_PutGet(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	record := &Record{
		JobID:    "job-1",
		Status:   "completed",
		Result:   json.RawMessage(`{"mean":3.5}`),
		StoredAt: time.Now().Format(time.RFC3339),
	}

	if err := store.Put(context.Background(), record); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := store.Get(context.Background(), "job-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != "completed" {
		t.Errorf("Expected status completed, got %s", got.Status)
	}
	if string(got.Result) != `{"mean":3.5}` {
		t.Errorf("Expected raw result preserved, got %s", got.Result)
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	if _, err := store.Get(context.Background(), "missing"); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_Expiration(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	defer store.Close()

	record := &Record{JobID: "job-exp", Status: "completed"}
	if err := store.Put(context.Background(), record); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	if _, err := store.Get(context.Background(), "job-exp"); err != ErrNotFound {
		t.Errorf("Expected expired record to be absent, got %v", err)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	record := &Record{JobID: "job-del", Status: "failed", Error: "bad input"}
	if err := store.Put(context.Background(), record); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := store.Delete(context.Background(), "job-del"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := store.Get(context.Background(), "job-del"); err != ErrNotFound {
		t.Errorf("Expected deleted record to be absent, got %v", err)
	}
}

func TestMemoryStore_PutCopiesRecord(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	defer store.Close()

	record := &Record{JobID: "job-copy", Status: "completed"}
	if err := store.Put(context.Background(), record); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Mutating the caller's record must not affect the stored copy.
	record.Status = "failed"

	got, err := store.Get(context.Background(), "job-copy")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != "completed" {
		t.Errorf("Expected stored copy isolated from caller mutation, got %s", got.Status)
	}
}

func TestNewFromConfig_Memory(t *testing.T) {
	store, err := NewFromConfig(config.ResultsConfig{Backend: "memory", TTL: time.Hour})
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	defer store.Close()

	if _, ok := store.(*MemoryStore); !ok {
		t.Errorf("Expected MemoryStore, got %T", store)
	}
}

func TestNewFromConfig_Unknown(t *testing.T) {
	if _, err := NewFromConfig(config.ResultsConfig{Backend: "dynamo"}); err == nil {
		t.Error("Expected error for unknown backend")
	}
}
