package main

import (
	"io"
	"log/slog"

	"github.com/vango-dev/fiber/internal/config"
	"github.com/vango-dev/fiber/internal/errors"
	"github.com/vango-dev/fiber/pkg/host"
	"github.com/vango-dev/fiber/pkg/snapshot"
	"github.com/vango-dev/fiber/pkg/vango"
)

// loadConfig loads fiber.json and applies flag overrides.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configDir != "" {
		cfg, err = config.Load(flags.configDir)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		return nil, err
	}

	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if flags.logJSON {
		cfg.Log.JSON = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the command logger. Logs go to w, which is stderr in
// normal use.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level, _ := cfg.LogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.JSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// runtimeOptions returns the runtime options implied by cfg.
func runtimeOptions(cfg *config.Config, logger *slog.Logger, obs vango.Observer) []vango.Option {
	opts := []vango.Option{
		vango.WithLogger(logger),
		vango.WithYieldThreshold(cfg.Slice.YieldThreshold.Std()),
		vango.WithMaxRestarts(cfg.Slice.MaxRestarts),
	}
	if obs != nil {
		opts = append(opts, vango.WithObserver(obs))
	}
	return opts
}

// newLoop returns a slice loop with the configured budget.
func newLoop(cfg *config.Config, logger *slog.Logger) *host.Loop {
	return host.NewLoop(host.WithBudget(cfg.Slice.Budget.Std()), host.WithLoopLogger(logger))
}

// newStore returns the configured snapshot store: S3 when a bucket is set,
// files otherwise.
func newStore(cfg *config.Config, dirOverride string) snapshot.Store {
	if s3cfg := cfg.Snapshot.S3; s3cfg.Bucket != "" && dirOverride == "" {
		client := snapshot.NewS3Client(s3cfg.Region, s3cfg.Endpoint)
		return snapshot.NewS3Store(client, s3cfg.Bucket, s3cfg.Prefix)
	}
	dir := cfg.SnapshotPath()
	if dirOverride != "" {
		dir = dirOverride
	}
	return snapshot.NewFileStore(dir)
}

func usageError(format string, args ...any) error {
	return errors.New("E160").WithDetailf(format, args...)
}
