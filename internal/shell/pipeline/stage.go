package pipeline

import (
	"log/slog"

	"github.com/unkube/unkube/internal/core/bundle"
	"github.com/unkube/unkube/internal/core/flatten"
)

// =============================================================================
// Flatten Stage
// =============================================================================

// Stage adapts the flatten transform to the registry. It carries the
// transform's fixed identity and turns the report into log lines: one
// warning per recovered diagnostic, one summary per run.
type Stage struct {
	logger *slog.Logger
}

// NewStage creates the flatten stage.
func NewStage(logger *slog.Logger) *Stage {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stage{logger: logger.With("transform", flatten.TransformName)}
}

func (s *Stage) Name() string {
	return flatten.TransformName
}

func (s *Stage) Priority() int {
	return flatten.TransformPriority
}

// Apply runs the flatten transform. Recovered diagnostics are logged as
// warnings and do not fail the stage; only a collision or structural error
// comes back as an error.
func (s *Stage) Apply(b *bundle.Bundle) error {
	report, err := flatten.Run(b)
	if err != nil {
		return err
	}

	for _, diag := range report.Diagnostics {
		s.logger.Warn("entry left unmodified", "reason", diag.Error())
	}
	s.logger.Info("flattened internal urls",
		"run_id", report.RunID,
		"services", report.Services,
		"variants", report.Variants,
		"rewrites", report.TotalRewrites(),
		"diagnostics", len(report.Diagnostics),
	)
	return nil
}
