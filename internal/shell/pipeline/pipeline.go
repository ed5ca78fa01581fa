package pipeline

import (
	"log/slog"
	"sort"

	"github.com/unkube/unkube/internal/core/bundle"
)

// =============================================================================
// Transform Interface
// =============================================================================

// Transform is one manifest-generation stage. Apply mutates the bundle in
// place; returning an error aborts the whole run.
type Transform interface {
	// Name identifies the transform in logs and errors. Fixed per
	// transform, unique within a registry.
	Name() string

	// Priority orders transforms within a run, lowest first.
	Priority() int

	// Apply runs the transform against the bundle.
	Apply(b *bundle.Bundle) error
}

// =============================================================================
// Registry
// =============================================================================

// Registry holds the registered transforms for one pipeline.
type Registry struct {
	transforms []Transform
	names      map[string]bool
	logger     *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		names:  make(map[string]bool),
		logger: logger.With("component", "pipeline"),
	}
}

// Register adds a transform and emits its load diagnostic. Names must be
// non-empty and unique.
func (r *Registry) Register(t Transform) error {
	name := t.Name()
	if name == "" {
		return ErrEmptyTransformName
	}
	if r.names[name] {
		return &TransformError{Transform: name, Err: ErrDuplicateTransform}
	}

	r.names[name] = true
	r.transforms = append(r.transforms, t)
	r.logger.Info("loaded transform", "name", name, "priority", t.Priority())
	return nil
}

// Len returns the number of registered transforms.
func (r *Registry) Len() int {
	return len(r.transforms)
}

// Run applies every registered transform to the bundle, ordered by priority
// ascending with name as the tiebreak. The first failing transform aborts
// the run; its error comes back wrapped with the transform's name.
func (r *Registry) Run(b *bundle.Bundle) error {
	ordered := make([]Transform, len(r.transforms))
	copy(ordered, r.transforms)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority() != ordered[j].Priority() {
			return ordered[i].Priority() < ordered[j].Priority()
		}
		return ordered[i].Name() < ordered[j].Name()
	})

	for _, t := range ordered {
		r.logger.Info("applying transform", "name", t.Name(), "priority", t.Priority())
		if err := t.Apply(b); err != nil {
			return &TransformError{Transform: t.Name(), Err: err}
		}
	}
	return nil
}
