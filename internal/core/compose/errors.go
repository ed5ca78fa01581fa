// Package compose loads Docker Compose projects for bundle transformation.
// This is part of the Functional Core - callers hand it file content as a
// string, it never touches the filesystem.
//
// Unlike a runtime, a transform stage must hand the project to the next
// stage intact, so services are kept as compose-go types and mutated in
// place rather than converted to narrower structs.
package compose

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrEmptyInput indicates an empty compose document.
	ErrEmptyInput = errors.New("compose project is empty")

	// ErrInvalidYAML indicates a document that is not valid YAML.
	ErrInvalidYAML = errors.New("invalid YAML syntax")

	// ErrNoServices indicates a project without a single service. A bundle
	// with nothing to flatten is a broken hand-off from the conversion stage.
	ErrNoServices = errors.New("compose project must define at least one service")
)

// LoadError wraps errors with context about why loading a project failed.
type LoadError struct {
	Field   string // e.g., "services.web"
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewLoadError creates a new LoadError.
func NewLoadError(field, message string, err error) *LoadError {
	return &LoadError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
