package flatten

import (
	"github.com/google/uuid"

	"github.com/unkube/unkube/internal/core/bundle"
)

// =============================================================================
// Transform Orchestration
// =============================================================================

// Transform identity, used when the transform registers with the pipeline.
const (
	// TransformName is the fixed name this stage registers under.
	TransformName = "flatten-internal-urls"

	// TransformPriority orders this stage within the pipeline. Stages run
	// in ascending priority; 200 places reference rewriting after the
	// stages that shape the service set and before rendering.
	TransformPriority = 200
)

// Report summarizes one run of the transform. Diagnostics are recovered
// per-entry errors; they never abort the run.
type Report struct {
	RunID       string
	Services    int
	Variants    int
	Rewrites    map[string]int
	Diagnostics []error
}

// TotalRewrites returns the number of changed values across all substrates.
func (r *Report) TotalRewrites() int {
	total := 0
	for _, n := range r.Rewrites {
		total += n
	}
	return total
}

// Run resolves the bundle's alias map, strips alias declarations, and
// rewrites cluster-internal references across every substrate.
//
// Order matters: the alias map is built from the full topology before any
// substrate is touched. A collision aborts the run with the bundle
// unmodified; after that point the run always completes, downgrading
// per-entry parse failures to diagnostics on the report.
//
// Running the transform on its own output is a no-op: rewritten references
// hold only canonical short names, and canonical names are never patterns.
func Run(b *bundle.Bundle) (*Report, error) {
	services := b.Services()

	aliases, err := BuildAliasMap(services)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:    "run_" + uuid.New().String()[:8],
		Services: len(services),
		Variants: len(aliases),
		Rewrites: make(map[string]int),
	}

	rw := NewRewriter(aliases).Func()
	adapters := []adapter{
		&envAdapter{services: services},
		&fileAdapter{files: b.Files},
		&caddyAdapter{entries: b.Caddy},
	}
	for _, a := range adapters {
		res := a.Apply(rw)
		report.Rewrites[res.Substrate] = res.Rewrites
		report.Diagnostics = append(report.Diagnostics, res.Diagnostics...)
	}
	return report, nil
}
