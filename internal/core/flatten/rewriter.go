package flatten

import (
	"sort"
	"strings"
)

// =============================================================================
// Reference Rewriting
// =============================================================================

// RewriteFunc rewrites every known cluster-internal reference in a string.
// Substrate adapters apply one to the text they own.
type RewriteFunc func(string) string

// Rewriter replaces alias-map patterns with canonical short names.
//
// Matching is longest-pattern-first, so `svc.ns` never clips the front of
// `svc.ns.svc.cluster.local`. A pattern only matches as a whole token: the
// bytes on both sides must not be identifier characters, which keeps
// `keycloak-service-account` intact while `keycloak-service` rewrites.
// Replacements are never rescanned; one pass over the input is the whole
// operation, which is what makes rewriting idempotent.
type Rewriter struct {
	patterns []string
	canon    AliasMap
}

// NewRewriter builds a rewriter over an alias map. Patterns are ordered by
// descending length, ties broken lexicographically for determinism.
func NewRewriter(m AliasMap) *Rewriter {
	patterns := make([]string, 0, len(m))
	for p := range m {
		patterns = append(patterns, p)
	}
	sort.Slice(patterns, func(i, j int) bool {
		if len(patterns[i]) != len(patterns[j]) {
			return len(patterns[i]) > len(patterns[j])
		}
		return patterns[i] < patterns[j]
	})
	return &Rewriter{patterns: patterns, canon: m}
}

// Rewrite returns text with every whole-token occurrence of a known pattern
// replaced by its canonical name. Unmatched text passes through byte for
// byte; a string with no matches is returned unchanged.
func (r *Rewriter) Rewrite(text string) string {
	if len(r.patterns) == 0 || text == "" {
		return text
	}

	var out strings.Builder
	i := 0
	for i < len(text) {
		if i > 0 && isIdentByte(text[i-1]) {
			out.WriteByte(text[i])
			i++
			continue
		}
		if p := r.matchAt(text, i); p != "" {
			out.WriteString(r.canon[p])
			i += len(p)
			continue
		}
		out.WriteByte(text[i])
		i++
	}
	return out.String()
}

// Func returns the rewriter's Rewrite method as a RewriteFunc.
func (r *Rewriter) Func() RewriteFunc {
	return r.Rewrite
}

// matchAt returns the longest pattern matching at offset i with a token
// boundary after it, or "" when none matches. The caller has already
// checked the boundary before i.
func (r *Rewriter) matchAt(text string, i int) string {
	for _, p := range r.patterns {
		end := i + len(p)
		if end > len(text) || text[i:end] != p {
			continue
		}
		if end < len(text) && isIdentByte(text[end]) {
			continue
		}
		return p
	}
	return ""
}

// isIdentByte reports whether b can appear inside a service-name token.
// Dots are boundaries: that is what lets `svc.ns` match inside a URL while
// hyphens and underscores bind `keycloak-service-account` together.
func isIdentByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z':
		return true
	case b >= 'A' && b <= 'Z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '-' || b == '_':
		return true
	}
	return false
}
