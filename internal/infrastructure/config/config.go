package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the full client configuration, read from the environment.
type Config struct {
	// APIURL is the base URL of the remote platform API.
	APIURL   string `env:"CONSOLE_API_URL, default=https://api.hoststack.io"`
	LogLevel string `env:"CONSOLE_LOG_LEVEL, default=info"`

	// TokenPath overrides where the file token store keeps its slots.
	// Empty selects <user config dir>/hoststack/credentials.json.
	TokenPath string `env:"CONSOLE_TOKEN_PATH"`

	// RequestTimeout bounds every individual API request.
	RequestTimeout time.Duration `env:"CONSOLE_REQUEST_TIMEOUT, default=15s"`
	// ResolveTimeout bounds the one-shot session bootstrap check.
	ResolveTimeout time.Duration `env:"CONSOLE_RESOLVE_TIMEOUT, default=10s"`

	// PollInterval is the notification bell refresh cadence.
	PollInterval time.Duration `env:"CONSOLE_POLL_INTERVAL, default=30s"`
	RecentLimit  int           `env:"CONSOLE_RECENT_LIMIT, default=10"`

	// MetricsAddr, when non-empty, serves /metrics in watch mode.
	MetricsAddr string `env:"CONSOLE_METRICS_ADDR"`

	Redis RedisConfig
}

// RedisConfig selects the Redis-backed token store for shared kiosk or
// agent deployments. Addr empty means the file store is used.
type RedisConfig struct {
	Addr string `env:"CONSOLE_REDIS_ADDR"`
	DB   int    `env:"CONSOLE_REDIS_DB, default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
