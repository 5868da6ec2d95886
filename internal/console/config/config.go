// Package config resolves the console's runtime settings. Sources are
// layered, later ones winning: struct defaults, environment variables,
// a JSON file (-c/-config), and finally command-line flags.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime settings for the greenhouse console.
type Config struct {
	// ServerEndpointAddr is the base URL of the platform REST API.
	ServerEndpointAddr string `env:"GREENHOUSE_ADDR, default=http://localhost:8080"`
	// RequestTimeout bounds every API request.
	RequestTimeout time.Duration `env:"GREENHOUSE_TIMEOUT, default=20s"`
	// DatabasePath is the local sqlite file holding durable console state.
	DatabasePath string `env:"GREENHOUSE_DB, default=console.db"`
	// RowsPerPage sizes every paginated list view.
	RowsPerPage int `env:"GREENHOUSE_ROWS, default=10"`
	// LogLevel is the minimum level: trace, debug, info, warn, error.
	LogLevel string `env:"GREENHOUSE_LOG_LEVEL, default=info"`
	// LogPretty switches between console-friendly and JSON log output.
	LogPretty bool `env:"GREENHOUSE_LOG_PRETTY, default=true"`
}

// LoadConfig builds the effective configuration from all sources.
func LoadConfig(ctx context.Context) (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(ctx, cfg); err != nil {
		return nil, fmt.Errorf("config: read environment: %w", err)
	}
	if err := parseJSON(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg); err != nil {
		return nil, err
	}
	if cfg.RowsPerPage < 1 {
		cfg.RowsPerPage = 1
	}
	return cfg, nil
}
