package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/greenhouse-iot/console/internal/flagx"
	"github.com/greenhouse-iot/console/internal/timex"
)

// jsonConfig is the file-format DTO. Durations may be written either as
// strings like "20s" or as integer nanoseconds.
type jsonConfig struct {
	ServerEndpointAddr *string         `json:"server_endpoint_addr"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	DatabasePath       *string         `json:"database_path"`
	RowsPerPage        *int            `json:"rows_per_page"`
	LogLevel           *string         `json:"log_level"`
	LogPretty          *bool           `json:"log_pretty"`
}

// parseJSON overlays cfg with values from the JSON file named by the
// -c/-config flag. Absent flag means no file is read; absent fields are
// left untouched.
func parseJSON(cfg *Config) error {
	path := flagx.JSONConfigFlag()
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	if jc.ServerEndpointAddr != nil {
		cfg.ServerEndpointAddr = *jc.ServerEndpointAddr
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.RowsPerPage != nil {
		cfg.RowsPerPage = *jc.RowsPerPage
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	if jc.LogPretty != nil {
		cfg.LogPretty = *jc.LogPretty
	}
	return nil
}
