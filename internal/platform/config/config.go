package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Storage backend selectors.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Server captures process-level configuration so main stays lean.
type Server struct {
	Addr string `env:"API_ADDR" envDefault:":3000"`

	// DBImplementation selects the storage backend: memory or postgres.
	DBImplementation string `env:"DB_IMPLEMENTATION" envDefault:"postgres"`
	DBConnection     string `env:"DB_CONNECTION" envDefault:"postgres://localhost:5432/userd?sslmode=disable"`
}

// FromEnv builds a Server config from environment variables.
func FromEnv() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBImplementation != StoreMemory && cfg.DBImplementation != StorePostgres {
		return Server{}, fmt.Errorf("unknown DB_IMPLEMENTATION %q", cfg.DBImplementation)
	}
	return cfg, nil
}
