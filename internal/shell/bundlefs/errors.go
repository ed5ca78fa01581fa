// Package bundlefs reads and writes bundle directories.
//
// A bundle directory is the on-disk hand-off between pipeline runs:
// compose.yaml (required), a configmaps/ tree of mounted files (optional),
// and caddy.yaml with the reverse-proxy entries (optional). Load pulls the
// directory into a bundle.Bundle; Save writes it back, touching only files
// whose content actually changed so repeated runs leave no churn behind.
package bundlefs

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrMissingCompose is returned when the bundle directory has no
	// compose.yaml.
	ErrMissingCompose = errors.New("bundle has no compose.yaml")

	// ErrNoProject is returned when saving a bundle without a project.
	ErrNoProject = errors.New("bundle has no project")

	// ErrUnsafePath is returned when a bundle file path would escape the
	// bundle directory.
	ErrUnsafePath = errors.New("file path escapes bundle directory")
)

// BundleError wraps bundle I/O errors with the operation and path involved.
type BundleError struct {
	Op   string // "load" or "save"
	Path string // file or directory involved
	Err  error
}

func (e *BundleError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BundleError) Unwrap() error {
	return e.Err
}

// NewBundleError creates a new BundleError.
func NewBundleError(op, path string, err error) *BundleError {
	return &BundleError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}
