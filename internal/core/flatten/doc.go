// Package flatten rewrites cluster-style service references into the short
// canonical names a flat container runtime actually resolves.
//
// Converted bundles carry two kinds of cluster DNS residue: network aliases
// on services (which runtimes like nerdctl silently ignore) and FQDN-shaped
// references (`svc.ns.svc.cluster.local`) in environment values, configmap
// files and reverse-proxy upstreams. This package strips the former and
// rewrites the latter. All functions are pure (no I/O, no side effects
// outside the bundle passed in).
//
// # Functions
//
//   - BuildAliasMap: compute the variant-to-canonical-name map and strip
//     alias declarations (the resolver)
//   - NewRewriter: longest-match-first, whole-token string substitution
//   - Run: orchestrate the resolver and the substrate adapters over a bundle
//
// # Usage
//
// The pipeline shell (internal/shell/pipeline) drives a whole run:
//
//	report, err := flatten.Run(b)
//	if err != nil {
//	    // alias collision or structural topology error; nothing was touched
//	}
//	for _, diag := range report.Diagnostics {
//	    // malformed caddy entries, recovered per entry
//	}
package flatten
