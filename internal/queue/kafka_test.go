package queue

import (
	"testing"
	"time"
)

func TestNewKafkaQueue(t *testing.T) {
	q, err := NewKafkaQueue(KafkaConfig{
		Brokers: []string{"localhost:9092"},
		GroupID: "analysis-workers",
	})
	if err != nil {
		t.Fatalf("Failed to create Kafka queue: %v", err)
	}
	defer func() { _ = q.Close() }()

	if q.config.GroupID != "analysis-workers" {
		t.Errorf("Expected group ID preserved, got %s", q.config.GroupID)
	}
}

func TestNewKafkaQueue_NoBrokers(t *testing.T) {
	if _, err := NewKafkaQueue(KafkaConfig{}); err == nil {
		t.Fatal("Expected error without brokers")
	}
}

func TestNewKafkaQueue_Defaults(t *testing.T) {
	q, err := NewKafkaQueue(KafkaConfig{Brokers: []string{"localhost:9092"}})
	if err != nil {
		t.Fatalf("Failed to create Kafka queue: %v", err)
	}
	defer func() { _ = q.Close() }()

	if q.config.GroupID != "trendscope-group" {
		t.Errorf("Expected default group ID, got %s", q.config.GroupID)
	}
	if q.config.BatchSize != 100 {
		t.Errorf("Expected default batch size 100, got %d", q.config.BatchSize)
	}
	if q.config.BatchTimeout != 10*time.Millisecond {
		t.Errorf("Expected default batch timeout 10ms, got %s", q.config.BatchTimeout)
	}
	if q.config.MaxRetries != 3 {
		t.Errorf("Expected default max retries 3, got %d", q.config.MaxRetries)
	}
}

func TestKafkaQueue_WriterReuse(t *testing.T) {
	q, err := NewKafkaQueue(KafkaConfig{Brokers: []string{"localhost:9092"}})
	if err != nil {
		t.Fatalf("Failed to create Kafka queue: %v", err)
	}
	defer func() { _ = q.Close() }()

	first := q.getOrCreateWriter("analysis.jobs")
	second := q.getOrCreateWriter("analysis.jobs")

	if first != second {
		t.Error("Expected writer to be reused for the same topic")
	}
}
