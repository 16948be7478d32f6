package resultstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trendscope/trendscope/internal/compression"
	"github.com/trendscope/trendscope/internal/config"
)

// RedisStore implements Store on Redis with snappy-compressed values
type RedisStore struct {
	client     *redis.Client
	compressor compression.Compressor
	prefix     string
	ttl        time.Duration
}

// NewRedisStore creates a Redis-backed result store
func NewRedisStore(cfg config.ResultsConfig) (*RedisStore, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		// Fallback to treating the URL as a plain address
		opts = &redis.Options{
			Addr: cfg.RedisURL,
			DB:   cfg.RedisDB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "trendscope:result:"
	}

	return &RedisStore{
		client:     client,
		compressor: compression.NewSnappyCompressor(),
		prefix:     prefix,
		ttl:        cfg.TTL,
	}, nil
}

func (s *RedisStore) key(jobID string) string {
	return s.prefix + jobID
}

// Put stores a compressed record with the configured TTL
func (s *RedisStore) Put(ctx context.Context, record *Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	compressed, err := s.compressor.Compress(data)
	if err != nil {
		return fmt.Errorf("failed to compress record: %w", err)
	}

	if err := s.client.Set(ctx, s.key(record.JobID), compressed, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store record: %w", err)
	}

	return nil
}

// Get retrieves and decompresses a record
func (s *RedisStore) Get(ctx context.Context, jobID string) (*Record, error) {
	data, err := s.client.Get(ctx, s.key(jobID)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch record: %w", err)
	}

	decompressed, err := s.compressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress record: %w", err)
	}

	var record Record
	if err := json.Unmarshal(decompressed, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %w", err)
	}

	return &record, nil
}

// Delete removes a record
func (s *RedisStore) Delete(ctx context.Context, jobID string) error {
	return s.client.Del(ctx, s.key(jobID)).Err()
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
