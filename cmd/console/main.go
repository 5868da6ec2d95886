package main

import (
	"context"
	"fmt"
	"os"

	"github.com/greenhouse-iot/console/internal/buildinfo"
	"github.com/greenhouse-iot/console/internal/console/cli"
	"github.com/greenhouse-iot/console/internal/console/config"
	"github.com/greenhouse-iot/console/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()

	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logging.Init(logging.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	app, err := cli.NewApp(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("console failed to start")
	}

	fmt.Println("Greenhouse console (type 'help' for commands)")
	if err := app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("console exited with an error")
	}
}
