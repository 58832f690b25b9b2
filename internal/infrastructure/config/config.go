package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// devFallbackSecret is only ever applied when ENV=development. Production
// deployments must set JWT_SECRET; Validate rejects anything else.
const devFallbackSecret = "dev-only-insecure-secret-do-not-deploy"

type Config struct {
	Port         string        `env:"PORT,          default=8080"`
	Env          string        `env:"ENV,           default=development"`
	JWTSecret    string        `env:"JWT_SECRET"`
	TokenTTL     time.Duration `env:"TOKEN_TTL,     default=2h"`
	LogLevel     string        `env:"LOG_LEVEL,     default=info"`
	AuditWorkers int           `env:"AUDIT_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=users_service"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate enforces the startup invariants. A missing JWT secret is fatal
// outside development; in development an explicit throwaway fallback is
// substituted so the service still boots locally.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		if c.Env != "development" {
			return errors.New("JWT_SECRET must be set when ENV is not development")
		}
		c.JWTSecret = devFallbackSecret
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
