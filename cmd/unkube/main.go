package main

import (
	"flag"
	"fmt"
	"os"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	bundleDir := flag.String("bundle", "", "Path to bundle directory (overrides config)")
	dryRun := flag.Bool("dry-run", false, "Run transforms without writing the bundle back")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	// Handle version flag
	if *showVersion {
		fmt.Printf("unkube %s (built %s)\n", Version, BuildTime)
		return ExitSuccess
	}

	// Load configuration
	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return ExitConfigError
	}

	// Flags beat config file and environment
	if *bundleDir != "" {
		cfg.Bundle.Dir = *bundleDir
	}
	if *dryRun {
		cfg.Bundle.DryRun = true
	}

	// Setup logger
	logger := SetupLogger(cfg)
	logger.Info("starting unkube",
		"version", Version,
		"bundle", cfg.Bundle.Dir,
		"dry_run", cfg.Bundle.DryRun,
	)

	// Create application
	app, err := NewApp(cfg, logger)
	if err != nil {
		if rErr, ok := err.(*RunError); ok {
			logger.Error("failed to create application",
				"error", rErr.Err,
				"operation", rErr.Op,
			)
			return rErr.ExitCode
		}
		logger.Error("failed to create application", "error", err)
		return ExitConfigError
	}

	// Run the pipeline
	if err := app.Run(); err != nil {
		if rErr, ok := err.(*RunError); ok {
			logger.Error("pipeline failed",
				"error", rErr.Err,
				"operation", rErr.Op,
			)
			return rErr.ExitCode
		}
		logger.Error("pipeline failed", "error", err)
		return ExitTransformError
	}

	return ExitSuccess
}
