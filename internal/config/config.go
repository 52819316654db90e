package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the gateway.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"cloudinary-gateway"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"console"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Redis broker backing the removal queue (required, no default)
	RedisURI string `env:"REDIS_URI,notEmpty"`

	// Cloudinary credentials
	CloudinaryBucket string `env:"CLOUDINARY_BUCKET,notEmpty"`
	CloudinaryFolder string `env:"CLOUDINARY_FOLDER,notEmpty"`
	CloudinaryKey    string `env:"CLOUDINARY_KEY,notEmpty"`
	CloudinarySecret string `env:"CLOUDINARY_SECRET,notEmpty"`

	// Authentication
	BearerToken string `env:"BEARER_TOKEN,notEmpty"`

	// Removal queue tuning. The delay absorbs provider-side eventual
	// consistency between asset creation and deletion requests; the rate
	// settings cap destroy traffic against the provider's own limits.
	RemoveQueueDelay  time.Duration `env:"REMOVE_QUEUE_DELAY" envDefault:"3s"`
	RemoveRateLimit   int           `env:"REMOVE_RATE_LIMIT" envDefault:"2"`
	RemoveRateWindow  time.Duration `env:"REMOVE_RATE_WINDOW" envDefault:"3s"`
	WorkerConcurrency int           `env:"WORKER_CONCURRENCY" envDefault:"2"`

	// CORS
	CORSAllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.RedisURI = strings.TrimSpace(cfg.RedisURI)
	cfg.CloudinaryBucket = strings.TrimSpace(cfg.CloudinaryBucket)
	cfg.CloudinaryFolder = strings.TrimSpace(cfg.CloudinaryFolder)
	cfg.CloudinaryKey = strings.TrimSpace(cfg.CloudinaryKey)
	cfg.CloudinarySecret = strings.TrimSpace(cfg.CloudinarySecret)
	cfg.BearerToken = strings.TrimSpace(cfg.BearerToken)

	if cfg.RemoveRateLimit <= 0 {
		return nil, fmt.Errorf("REMOVE_RATE_LIMIT must be positive, got %d", cfg.RemoveRateLimit)
	}
	if cfg.RemoveRateWindow <= 0 {
		return nil, fmt.Errorf("REMOVE_RATE_WINDOW must be positive, got %s", cfg.RemoveRateWindow)
	}
	if cfg.WorkerConcurrency <= 0 {
		cfg.WorkerConcurrency = cfg.RemoveRateLimit
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}
