// Command catalogctl runs operator tasks against the catalog database and object store.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	_ = godotenv.Load(".env")

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	slog.SetDefault(slog.New(logger))

	runner := NewRunner(RunnerOpts{Logger: logger})

	app := &cli.Command{
		Name:     "catalogctl",
		Usage:    "Operator tasks for the music catalog",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("catalogctl: %v", err)
	}
}
