package main

import (
	"log/slog"

	"github.com/unkube/unkube/internal/shell/bundlefs"
	"github.com/unkube/unkube/internal/shell/pipeline"
)

// =============================================================================
// Exit Codes
// =============================================================================

const (
	ExitSuccess        = 0
	ExitConfigError    = 1
	ExitBundleError    = 2
	ExitTransformError = 3
)

// =============================================================================
// Application
// =============================================================================

// App runs the manifest pipeline over one bundle directory.
type App struct {
	config   *Config
	registry *pipeline.Registry
	logger   *slog.Logger
}

// NewApp creates the application and registers its transforms.
func NewApp(cfg *Config, logger *slog.Logger) (*App, error) {
	registry := pipeline.NewRegistry(logger)
	if err := registry.Register(pipeline.NewStage(logger)); err != nil {
		return nil, &RunError{
			Op:       "register transforms",
			Err:      err,
			ExitCode: ExitConfigError,
		}
	}

	return &App{
		config:   cfg,
		registry: registry,
		logger:   logger,
	}, nil
}

// Run loads the bundle, applies the registered transforms, and writes the
// bundle back unless dry-run is set.
func (a *App) Run() error {
	dir := a.config.Bundle.Dir

	b, err := bundlefs.Load(dir)
	if err != nil {
		return &RunError{Op: "load bundle", Err: err, ExitCode: ExitBundleError}
	}
	a.logger.Info("bundle loaded",
		"dir", dir,
		"services", len(b.Services()),
		"files", len(b.Files),
		"proxy_entries", len(b.Caddy),
	)

	if err := a.registry.Run(b); err != nil {
		return &RunError{Op: "run pipeline", Err: err, ExitCode: ExitTransformError}
	}

	if a.config.Bundle.DryRun {
		a.logger.Info("dry run, bundle not written", "dir", dir)
		return nil
	}

	if err := bundlefs.Save(dir, b); err != nil {
		return &RunError{Op: "save bundle", Err: err, ExitCode: ExitBundleError}
	}
	a.logger.Info("bundle written", "dir", dir)
	return nil
}

// =============================================================================
// Run Errors
// =============================================================================

// RunError represents an error during a pipeline run.
type RunError struct {
	Op       string
	Err      error
	ExitCode int
}

func (e *RunError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *RunError) Unwrap() error {
	return e.Err
}
