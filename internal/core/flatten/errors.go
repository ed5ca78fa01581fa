package flatten

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrAliasCollision indicates two services resolving the same variant
	// string to different canonical names.
	ErrAliasCollision = errors.New("alias collision")

	// ErrMissingServiceName indicates a topology entry without a canonical
	// name.
	ErrMissingServiceName = errors.New("service has no canonical name")
)

// AliasCollisionError reports which variant string is contested and by which
// pair of services. Fatal: an ambiguous name map must not be resolved by
// priority or ordering, so the run aborts before any rewriting.
type AliasCollisionError struct {
	Variant string // the contested variant string
	First   string // canonical name the variant already resolved to
	Second  string // canonical name that tried to claim it as well
}

func (e *AliasCollisionError) Error() string {
	return fmt.Sprintf("variant %q resolves to both service %q and service %q", e.Variant, e.First, e.Second)
}

func (e *AliasCollisionError) Unwrap() error {
	return ErrAliasCollision
}
