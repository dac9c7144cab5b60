package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/weather-lookup/internal/app"
	"github.com/couchcryptid/weather-lookup/internal/config"
	"github.com/couchcryptid/weather-lookup/internal/observability"
)

// processMetrics registers the collectors once per process.
var processMetrics = sync.OnceValue(observability.NewMetrics)

// cli is the state shared by all subcommands once configuration loaded.
type cli struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	svc     *app.Service
	closeFn func() error

	jsonOut bool
}

// newRootCommand builds the command tree. The returned cli must be closed
// after Execute, which also covers commands that failed.
func newRootCommand() (*cobra.Command, *cli) {
	c := &cli{}
	var envFile string

	root := &cobra.Command{
		Use:           "weather",
		Short:         "Japanese place search, forecasts and weather provider links",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.Context(), envFile)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return c.close()
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	root.PersistentFlags().BoolVar(&c.jsonOut, "json", false, "always print JSON, even on a terminal")

	root.AddCommand(
		serveCommand(c),
		searchCommand(c),
		forecastCommand(c),
		linksCommand(c),
		favoritesCommand(c),
	)
	return root, c
}

func (c *cli) setup(ctx context.Context, envFile string) error {
	// A missing dotenv file is normal; the environment may be set directly.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}
	c.cfg = cfg
	c.logger = observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	c.metrics = processMetrics()

	svc, closeFn, err := app.Build(ctx, cfg, c.metrics, c.logger)
	if err != nil {
		c.logger.Error("failed to start", "error", err)
		return err
	}
	c.svc = svc
	c.closeFn = closeFn
	return nil
}

func (c *cli) close() error {
	if c.closeFn == nil {
		return nil
	}
	err := c.closeFn()
	c.closeFn = nil
	return err
}
