package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// searchPaths are tried in order when no explicit config file is given.
var searchPaths = []string{".", "./configs", "./config", "/etc/trendscope"}

// Load reads configuration from the given file, or from the standard
// search paths when configPath is empty. Values not present in the file
// fall back to DefaultConfig; TRENDSCOPE_* environment variables
// override both (TRENDSCOPE_SERVER_HTTP_PORT, etc).
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TRENDSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, path := range searchPaths {
			v.AddConfigPath(path)
		}
	}

	// A missing file on the search path is fine; defaults carry the day.
	// An explicit path that cannot be read is not.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault is Load with DefaultConfig as the failure fallback.
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// setDefaults registers DefaultConfig's values under their viper keys so
// the loader and the fallback config cannot drift apart.
func setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.http_port", def.Server.HTTPPort)
	v.SetDefault("server.body_max", def.Server.BodyMax)
	v.SetDefault("server.timeout", def.Server.Timeout)

	v.SetDefault("queue.type", def.Queue.Type)
	v.SetDefault("queue.url", def.Queue.URL)
	v.SetDefault("queue.redis_stream", def.Queue.RedisStream)
	v.SetDefault("queue.redis_group", def.Queue.RedisGroup)

	v.SetDefault("results.backend", def.Results.Backend)
	v.SetDefault("results.redis_url", def.Results.RedisURL)
	v.SetDefault("results.ttl", def.Results.TTL)
	v.SetDefault("results.prefix", def.Results.Prefix)

	v.SetDefault("analysis.max_data_points", def.Analysis.MaxDataPoints)
	v.SetDefault("analysis.worker_count", def.Analysis.WorkerCount)
	v.SetDefault("analysis.forecast_horizon", def.Analysis.ForecastHorizon)

	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.output_path", def.Logging.OutputPath)
}

// DefaultConfig is the configuration a bare binary runs with: NATS on
// localhost, in-memory result store, JSON logs on stdout.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			HTTPPort: 6060,
			BodyMax:  16 * 1024 * 1024,
			Timeout:  30 * time.Second,
		},
		Queue: QueueConfig{
			Type:        "nats",
			URL:         "nats://localhost:4222",
			RedisStream: "trendscope",
			RedisGroup:  "trendscope-group",
		},
		Results: ResultsConfig{
			Backend:  "memory",
			RedisURL: "redis://localhost:6379",
			TTL:      24 * time.Hour,
			Prefix:   "trendscope:result:",
		},
		Analysis: AnalysisConfig{
			MaxDataPoints:   100000,
			WorkerCount:     4,
			ForecastHorizon: 10,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}
