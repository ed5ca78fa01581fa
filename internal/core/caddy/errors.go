// Package caddy provides pure types and functions for reverse-proxy entries.
// This package has no I/O dependencies and is tested with values in/out.
package caddy

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrMalformedDirective indicates an entry whose upstream cannot be
	// parsed into a host/port token.
	ErrMalformedDirective = errors.New("malformed reverse_proxy directive")
)

// MalformedDirectiveError wraps ErrMalformedDirective with context about
// which entry and directive could not be parsed. It is recovered per entry:
// the entry is left unmodified and the error is reported as a diagnostic.
type MalformedDirectiveError struct {
	Site      string // site address of the entry, "" if unknown
	Directive string // offending directive or upstream token
	Reason    string
}

func (e *MalformedDirectiveError) Error() string {
	msg := e.Reason
	if e.Directive != "" {
		msg = fmt.Sprintf("malformed directive %q: %s", e.Directive, e.Reason)
	}
	if e.Site != "" {
		return fmt.Sprintf("%s: %s", e.Site, msg)
	}
	return msg
}

func (e *MalformedDirectiveError) Unwrap() error {
	return ErrMalformedDirective
}

// NewMalformedDirectiveError creates a new MalformedDirectiveError.
func NewMalformedDirectiveError(site, directive, reason string) *MalformedDirectiveError {
	return &MalformedDirectiveError{
		Site:      site,
		Directive: directive,
		Reason:    reason,
	}
}
