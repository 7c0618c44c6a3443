package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds all runtime settings. It is loaded once in main and passed
// explicitly to the components that need it; there is no cached global.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Database DatabaseConfig
	Session  SessionConfig
	Redis    RedisConfig
}

type DatabaseConfig struct {
	Path string `env:"DATABASE_PATH, default=data/trenatra.db"`
}

type SessionConfig struct {
	// TTL is the fixed validity window applied to every issued token.
	TTL time.Duration `env:"SESSION_TTL,    default=168h"`
	// SweepInterval controls the expired-session sweeper; 0 disables it.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL, default=1h"`
}

type RedisConfig struct {
	// Addr enables the token cache when non-empty.
	Addr     string        `env:"REDIS_ADDR"`
	DB       int           `env:"REDIS_DB,        default=0"`
	CacheTTL time.Duration `env:"REDIS_CACHE_TTL, default=15m"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}
