package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// KafkaConfig configures the Kafka backend. Zero values are replaced with
// the defaults in applyDefaults.
type KafkaConfig struct {
	Brokers       []string
	GroupID       string        // consumer group, default "trendscope-group"
	BatchSize     int           // producer batch size, default 100
	BatchTimeout  time.Duration // producer batch flush interval, default 10ms
	RequiredAcks  int           // 0=none, 1=leader, -1=all; default leader
	MaxRetries    int           // producer write attempts, default 3
	RetryBackoff  time.Duration // wait between commit retries, default 100ms
	CommitRetries int           // consumer commit attempts, default 3
}

func (c *KafkaConfig) applyDefaults() {
	if c.GroupID == "" {
		c.GroupID = "trendscope-group"
	}
	if c.BatchSize == 0 {
		c.BatchSize = 100
	}
	if c.BatchTimeout == 0 {
		c.BatchTimeout = 10 * time.Millisecond
	}
	if c.RequiredAcks == 0 {
		c.RequiredAcks = int(kafka.RequireOne)
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryBackoff == 0 {
		c.RetryBackoff = 100 * time.Millisecond
	}
	if c.CommitRetries == 0 {
		c.CommitRetries = 3
	}
}

// KafkaQueue maps subjects to Kafka topics. One lazily created writer per
// published topic, one reader goroutine per subscribed topic; offsets are
// committed only after the handler accepts a message.
type KafkaQueue struct {
	config KafkaConfig

	mu      sync.RWMutex
	writers map[string]*kafka.Writer
	readers map[string]*kafka.Reader
	cancels map[string]context.CancelFunc
}

func newKafkaQueue(cfg KafkaConfig) (*KafkaQueue, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers not configured")
	}
	cfg.applyDefaults()

	return &KafkaQueue{
		config:  cfg,
		writers: make(map[string]*kafka.Writer),
		readers: make(map[string]*kafka.Reader),
		cancels: make(map[string]context.CancelFunc),
	}, nil
}

func (q *KafkaQueue) getOrCreateWriter(topic string) *kafka.Writer {
	q.mu.Lock()
	defer q.mu.Unlock()

	if w, ok := q.writers[topic]; ok {
		return w
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(q.config.Brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchSize:    q.config.BatchSize,
		BatchTimeout: q.config.BatchTimeout,
		RequiredAcks: kafka.RequiredAcks(q.config.RequiredAcks),
		MaxAttempts:  q.config.MaxRetries,
	}
	q.writers[topic] = w
	return w
}

// Publish writes the message to the subject's topic.
func (q *KafkaQueue) Publish(ctx context.Context, subject string, data []byte) error {
	msg := kafka.Message{Value: data, Time: time.Now()}

	if err := q.getOrCreateWriter(subject).WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write to topic %s: %w", subject, err)
	}
	return nil
}

// Subscribe starts a consumer-group reader for the topic.
func (q *KafkaQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.cancels[subject]; exists {
		return fmt.Errorf("already subscribed to topic: %s", subject)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        q.config.Brokers,
		GroupID:        q.config.GroupID,
		Topic:          subject,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		CommitInterval: time.Second,
	})

	ctx, cancel := context.WithCancel(context.Background())
	q.readers[subject] = reader
	q.cancels[subject] = cancel

	go q.consume(ctx, reader, handler)
	return nil
}

// consume fetches messages and commits offsets for accepted ones. A handler
// error leaves the offset uncommitted so the group redelivers the message.
func (q *KafkaQueue) consume(ctx context.Context, reader *kafka.Reader, handler MessageHandler) {
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}

		if handler(msg.Value) != nil {
			continue
		}

		for attempt := 0; attempt < q.config.CommitRetries; attempt++ {
			if reader.CommitMessages(ctx, msg) == nil {
				break
			}
			if ctx.Err() != nil {
				return
			}
			time.Sleep(q.config.RetryBackoff)
		}
	}
}

// Unsubscribe stops the topic's reader.
func (q *KafkaQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	cancel, exists := q.cancels[subject]
	if !exists {
		return fmt.Errorf("not subscribed to topic: %s", subject)
	}

	cancel()
	if reader, ok := q.readers[subject]; ok {
		_ = reader.Close()
	}

	delete(q.cancels, subject)
	delete(q.readers, subject)
	return nil
}

// Close shuts down every reader and writer, returning the last error seen.
func (q *KafkaQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	var lastErr error

	for subject, cancel := range q.cancels {
		cancel()
		if reader, ok := q.readers[subject]; ok {
			if err := reader.Close(); err != nil {
				lastErr = err
			}
		}
		delete(q.cancels, subject)
		delete(q.readers, subject)
	}

	for topic, writer := range q.writers {
		if err := writer.Close(); err != nil {
			lastErr = err
		}
		delete(q.writers, topic)
	}

	return lastErr
}
