// Package bundle defines the in-memory hand-off between pipeline stages.
//
// A bundle is everything one stage passes to the next: the compose project,
// the configmap-derived files services mount, and the reverse-proxy entries
// the ingress stage produced. Pure data, no I/O - reading and writing bundle
// directories lives in internal/shell/bundlefs.
package bundle

import (
	"github.com/compose-spec/compose-go/v2/types"

	"github.com/unkube/unkube/internal/core/caddy"
)

// Bundle holds one pipeline run's worth of material.
type Bundle struct {
	// Project is the compose project under transformation. Never nil for a
	// loaded bundle; transforms tolerate nil as an empty topology.
	Project *types.Project

	// Files are the configmap-derived files, content held in memory.
	Files []*File

	// Caddy are the reverse-proxy entries for the ingress Caddyfile.
	Caddy []*caddy.Entry
}

// File is one configmap-derived file, addressed relative to the bundle root.
type File struct {
	Path    string
	Content string
}

// Services returns the project's service map, nil-safe.
func (b *Bundle) Services() types.Services {
	if b == nil || b.Project == nil {
		return nil
	}
	return b.Project.Services
}
