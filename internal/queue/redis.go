package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisStream = "trendscope"
	defaultRedisGroup  = "trendscope-group"

	redisReadCount = 100
	redisReadBlock = 5 * time.Second
)

// RedisConfig configures the Redis Streams backend.
type RedisConfig struct {
	URL      string // redis:// URL or plain host:port
	Password string
	DB       int
	Stream   string // stream key prefix
	Group    string // consumer group
	Consumer string // consumer name within the group, defaults to hostname
}

func (c *RedisConfig) applyDefaults() {
	if c.Stream == "" {
		c.Stream = defaultRedisStream
	}
	if c.Group == "" {
		c.Group = defaultRedisGroup
	}
	if c.Consumer == "" {
		host, _ := os.Hostname()
		if host == "" {
			host = "consumer-1"
		}
		c.Consumer = host
	}
}

// RedisQueue carries jobs over Redis Streams with a consumer group, so
// multiple workers share the stream and unacked entries are redelivered.
type RedisQueue struct {
	client *redis.Client
	cfg    RedisConfig

	mu      sync.RWMutex
	readers map[string]context.CancelFunc
}

func newRedisQueue(cfg RedisConfig) (*RedisQueue, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		// Not a redis:// URL; treat it as a bare address
		opts = &redis.Options{
			Addr:     cfg.URL,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cfg.applyDefaults()

	return &RedisQueue{
		client:  client,
		cfg:     cfg,
		readers: make(map[string]context.CancelFunc),
	}, nil
}

func (q *RedisQueue) streamKey(subject string) string {
	return q.cfg.Stream + ":" + subject
}

// Publish appends the message to the subject's stream.
func (q *RedisQueue) Publish(ctx context.Context, subject string, data []byte) error {
	err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.streamKey(subject),
		ID:     "*",
		Values: map[string]interface{}{"data": data},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", q.streamKey(subject), err)
	}
	return nil
}

// Subscribe ensures the consumer group exists and starts a reader goroutine.
func (q *RedisQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.readers[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	stream := q.streamKey(subject)
	ctx, cancel := context.WithCancel(context.Background())

	err := q.client.XGroupCreateMkStream(ctx, stream, q.cfg.Group, "0").Err()
	if err != nil && !isBusyGroup(err) {
		cancel()
		return fmt.Errorf("create consumer group on %s: %w", stream, err)
	}

	go q.consume(ctx, stream, handler)

	q.readers[subject] = cancel
	return nil
}

// consume reads new entries for this consumer and acks only the ones the
// handler accepted. Unacked entries stay in the pending list and are
// redelivered when the consumer restarts.
func (q *RedisQueue) consume(ctx context.Context, stream string, handler MessageHandler) {
	args := &redis.XReadGroupArgs{
		Group:    q.cfg.Group,
		Consumer: q.cfg.Consumer,
		Streams:  []string{stream, ">"},
		Count:    redisReadCount,
		Block:    redisReadBlock,
	}

	for ctx.Err() == nil {
		batches, err := q.client.XReadGroup(ctx, args).Result()
		if err != nil {
			// redis.Nil is an empty poll; everything else gets retried on
			// the next iteration
			if errors.Is(err, context.Canceled) {
				return
			}
			continue
		}

		for _, batch := range batches {
			for _, entry := range batch.Messages {
				payload, ok := entry.Values["data"].(string)
				if !ok {
					// Entries without a data field can never succeed; ack
					// them away
					q.client.XAck(ctx, stream, q.cfg.Group, entry.ID)
					continue
				}

				if handler([]byte(payload)) != nil {
					continue
				}
				q.client.XAck(ctx, stream, q.cfg.Group, entry.ID)
			}
		}
	}
}

// Unsubscribe stops the subject's reader goroutine.
func (q *RedisQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	cancel, exists := q.readers[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}

	cancel()
	delete(q.readers, subject)
	return nil
}

// Close stops all readers and releases the client.
func (q *RedisQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for subject, cancel := range q.readers {
		cancel()
		delete(q.readers, subject)
	}

	return q.client.Close()
}

func isBusyGroup(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP")
}
