// Package config captures process-level settings so main stays lean. Values
// come from the environment; the entrypoint honors a local .env file first.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the server binary needs to start.
type Config struct {
	Addr            string        `env:"ADDR" envDefault:":8080"`
	MongoURI        string        `env:"MONGODB_URI,required,notEmpty"`
	MongoDatabase   string        `env:"MONGODB_DB" envDefault:"crisis_corner"`
	PageSize        int           `env:"PAGINATION_PAGE_SIZE" envDefault:"10"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load parses configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.PageSize < 1 {
		return Config{}, fmt.Errorf("PAGINATION_PAGE_SIZE must be positive, got %d", cfg.PageSize)
	}
	return cfg, nil
}
