package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Queue    QueueConfig    `mapstructure:"queue"`
	Results  ResultsConfig  `mapstructure:"results"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host     string        `mapstructure:"host"`      // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort int           `mapstructure:"http_port"` // HTTP server port
	BodyMax  int           `mapstructure:"body_max"`  // Maximum request body size in bytes
	Timeout  time.Duration `mapstructure:"timeout"`   // Per-request timeout
}

// QueueConfig represents message queue configuration
type QueueConfig struct {
	Type     string `mapstructure:"type"`     // Queue type: nats (default), redis, kafka, memory
	URL      string `mapstructure:"url"`      // Queue server URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Username string `mapstructure:"username"` // Optional authentication
	Password string `mapstructure:"password"` // Optional authentication

	// Redis-specific options
	RedisDB       int    `mapstructure:"redis_db"`       // Redis database number (default: 0)
	RedisStream   string `mapstructure:"redis_stream"`   // Redis stream prefix (default: "trendscope")
	RedisGroup    string `mapstructure:"redis_group"`    // Redis consumer group (default: "trendscope-group")
	RedisConsumer string `mapstructure:"redis_consumer"` // Redis consumer name (default: hostname)

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"`  // Kafka broker addresses
	KafkaGroupID string   `mapstructure:"kafka_group_id"` // Kafka consumer group ID
}

// ResultsConfig represents analysis result store configuration
type ResultsConfig struct {
	Backend  string        `mapstructure:"backend"`   // redis or memory
	RedisURL string        `mapstructure:"redis_url"` // Redis connection URL
	RedisDB  int           `mapstructure:"redis_db"`  // Redis database number
	TTL      time.Duration `mapstructure:"ttl"`       // Retention period for stored results
	Prefix   string        `mapstructure:"prefix"`    // Key prefix for stored results
}

// AnalysisConfig represents analysis engine limits and defaults
type AnalysisConfig struct {
	MaxDataPoints   int `mapstructure:"max_data_points"`  // Upper bound on dataset size per request
	WorkerCount     int `mapstructure:"worker_count"`     // Concurrent workers draining the job queue
	ForecastHorizon int `mapstructure:"forecast_horizon"` // Default number of future points to produce
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, UnixMs, etc
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Queue.Validate(); err != nil {
		return fmt.Errorf("queue config: %w", err)
	}

	if err := c.Results.Validate(); err != nil {
		return fmt.Errorf("results config: %w", err)
	}

	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	if c.BodyMax <= 0 {
		return fmt.Errorf("body_max must be positive")
	}

	return nil
}

// Validate validates queue configuration
func (c *QueueConfig) Validate() error {
	switch c.Type {
	case "nats", "redis", "kafka", "memory":
	default:
		return fmt.Errorf("queue.type must be one of: nats, redis, kafka, memory")
	}

	if c.Type == "kafka" && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("queue.kafka_brokers is required for kafka")
	}

	if (c.Type == "nats" || c.Type == "redis") && c.URL == "" {
		return fmt.Errorf("queue.url is required for %s", c.Type)
	}

	return nil
}

// Validate validates result store configuration
func (c *ResultsConfig) Validate() error {
	if c.Backend != "redis" && c.Backend != "memory" {
		return fmt.Errorf("results.backend must be 'redis' or 'memory'")
	}

	if c.Backend == "redis" && c.RedisURL == "" {
		return fmt.Errorf("results.redis_url is required for redis backend")
	}

	if c.TTL <= 0 {
		return fmt.Errorf("results.ttl must be positive")
	}

	return nil
}

// Validate validates analysis configuration
func (c *AnalysisConfig) Validate() error {
	if c.MaxDataPoints < 1 {
		return fmt.Errorf("analysis.max_data_points must be at least 1")
	}

	if c.WorkerCount < 1 {
		return fmt.Errorf("analysis.worker_count must be at least 1")
	}

	if c.ForecastHorizon < 1 {
		return fmt.Errorf("analysis.forecast_horizon must be at least 1")
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
