// Package pipeline hosts the manifest-generation transforms.
//
// Transforms are registered once at startup and applied to a bundle in
// priority order. The registry is deliberately small: stages do the work,
// the registry only orders them and stops at the first failure.
package pipeline

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrEmptyTransformName is returned when registering a transform
	// without a name.
	ErrEmptyTransformName = errors.New("transform has no name")

	// ErrDuplicateTransform is returned when a transform name is
	// registered twice.
	ErrDuplicateTransform = errors.New("transform already registered")
)

// TransformError wraps a failure with the name of the transform involved.
type TransformError struct {
	Transform string
	Err       error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform %s: %v", e.Transform, e.Err)
}

func (e *TransformError) Unwrap() error {
	return e.Err
}
