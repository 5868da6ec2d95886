package config

import (
	"flag"
	"os"
	"time"

	"github.com/greenhouse-iot/console/internal/flagx"
)

// parseFlags overlays cfg with command-line flags:
//
//	-a string   base URL of the platform API
//	-d string   local database path
//	-r int      rows per page in list views
//	-t int      request timeout in seconds
//
// The args are filtered to the flags handled here so the config-file flags
// (-c/-config) parsed elsewhere do not interfere.
func parseFlags(cfg *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-t"})

	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address of the platform API")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.IntVar(&cfg.RowsPerPage, "r", cfg.RowsPerPage, "rows per page in list views")
	timeoutSec := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.RequestTimeout = time.Duration(*timeoutSec) * time.Second
	return nil
}
