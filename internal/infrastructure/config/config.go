package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// JWTSecret signs session tokens; CommitmentSecret keys the vote
	// commitment scheme. They are independent so rotating one does not
	// invalidate the other's artifacts.
	JWTSecret        string        `env:"JWT_SECRET, required"`
	CommitmentSecret string        `env:"COMMITMENT_SECRET, required"`
	TokenTTL         time.Duration `env:"TOKEN_TTL, default=168h"`

	// CORSOrigins is the comma-separated allow-list for browser clients.
	CORSOrigins []string `env:"CORS_ORIGINS, default=http://localhost:3000"`

	RateLimitMax    int64         `env:"RATE_LIMIT_MAX,    default=100"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW, default=15m"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=zkvote"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
