package queue

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Test helper: check if Redis is available
func isRedisAvailable() bool {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
	})
	defer func() { _ = client.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return client.Ping(ctx).Err() == nil
}

// Test helper: get Redis URL from env or default
func getRedisURL() string {
	if url := os.Getenv("REDIS_URL"); url != "" {
		return url
	}
	return "redis://localhost:6379"
}

func TestNewRedisQueue(t *testing.T) {
	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping test")
	}

	q, err := NewRedisQueue(RedisConfig{URL: getRedisURL()})
	if err != nil {
		t.Fatalf("Failed to create Redis queue: %v", err)
	}
	defer func() { _ = q.Close() }()

	if q.cfg.Stream != "trendscope" {
		t.Errorf("Expected default stream prefix, got %s", q.cfg.Stream)
	}
	if q.cfg.Group != "trendscope-group" {
		t.Errorf("Expected default group, got %s", q.cfg.Group)
	}
}

func TestRedisQueue_PublishAndSubscribe(t *testing.T) {
	if !isRedisAvailable() {
		t.Skip("Redis not available, skipping test")
	}

	q, err := NewRedisQueue(RedisConfig{
		URL:      getRedisURL(),
		Stream:   "trendscope-test",
		Group:    "trendscope-test-group",
		Consumer: "test-consumer",
	})
	if err != nil {
		t.Fatalf("Failed to create Redis queue: %v", err)
	}
	defer func() { _ = q.Close() }()

	subject := "analysis.jobs"
	defer q.client.Del(context.Background(), q.streamKey(subject))

	var received []byte
	var wg sync.WaitGroup
	wg.Add(1)
	var once sync.Once

	err = q.Subscribe(subject, func(data []byte) error {
		once.Do(func() {
			received = data
			wg.Done()
		})
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	payload := []byte(`{"job_id":"j-redis"}`)
	if err := q.Publish(context.Background(), subject, payload); err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Timeout waiting for message")
	}

	if string(received) != string(payload) {
		t.Errorf("Expected payload %s, got %s", payload, received)
	}
}

func TestRedisQueue_InvalidURL(t *testing.T) {
	if _, err := NewRedisQueue(RedisConfig{URL: "redis://invalid-host:9999"}); err == nil {
		t.Fatal("Expected error with unreachable Redis")
	}
}
