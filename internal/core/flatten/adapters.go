package flatten

import (
	"errors"

	"github.com/compose-spec/compose-go/v2/types"

	"github.com/unkube/unkube/internal/core/bundle"
	"github.com/unkube/unkube/internal/core/caddy"
)

// =============================================================================
// Substrate Adapters
// =============================================================================

// Substrate names, used as keys in the per-run report.
const (
	SubstrateEnvironment = "environment"
	SubstrateFiles       = "configmap-files"
	SubstrateCaddy       = "caddy-upstreams"
)

// Result is what one substrate adapter reports back: how many values it
// changed and any per-entry diagnostics it recovered from.
type Result struct {
	Substrate   string
	Rewrites    int
	Diagnostics []error
}

// adapter applies a rewrite function to one substrate of the bundle. The
// fourth substrate named by the conversion, service network config, has no
// adapter here: stripping aliases is the resolver's side effect.
type adapter interface {
	Apply(rw RewriteFunc) Result
}

// =============================================================================
// Environment Variables
// =============================================================================

// envAdapter rewrites the value of every environment variable of every
// service. Keys are never touched.
type envAdapter struct {
	services types.Services
}

func (a *envAdapter) Apply(rw RewriteFunc) Result {
	res := Result{Substrate: SubstrateEnvironment}
	for _, svc := range a.services {
		for key, value := range svc.Environment {
			if value == nil {
				// Declared without a value, resolved from the host
				// environment at run time.
				continue
			}
			rewritten := rw(*value)
			if rewritten != *value {
				svc.Environment[key] = &rewritten
				res.Rewrites++
			}
		}
	}
	return res
}

// =============================================================================
// Mounted File Contents
// =============================================================================

// fileAdapter rewrites the full content of every mounted config file.
// Contents are treated as opaque text: references are rewritten wherever
// they appear, whatever the file format.
type fileAdapter struct {
	files []*bundle.File
}

func (a *fileAdapter) Apply(rw RewriteFunc) Result {
	res := Result{Substrate: SubstrateFiles}
	for _, f := range a.files {
		rewritten := rw(f.Content)
		if rewritten != f.Content {
			f.Content = rewritten
			res.Rewrites++
		}
	}
	return res
}

// =============================================================================
// Reverse-Proxy Entries
// =============================================================================

// caddyAdapter rewrites the upstream address, the server SNI, and every
// proxy directive of each entry. Entries are atomic: a null entry, or one
// whose directives cannot be parsed, is reported as a diagnostic and left
// untouched end to end, while the remaining entries still rewrite.
type caddyAdapter struct {
	entries []*caddy.Entry
}

func (a *caddyAdapter) Apply(rw RewriteFunc) Result {
	res := Result{Substrate: SubstrateCaddy}
	for _, entry := range a.entries {
		if entry == nil {
			// A null list item in the entries file decodes to a nil entry.
			res.Diagnostics = append(res.Diagnostics, caddy.NewMalformedDirectiveError("", "", "null proxy entry"))
			continue
		}
		n, err := rewriteEntry(entry, rw)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, withSite(entry.Site, err))
			continue
		}
		res.Rewrites += n
	}
	return res
}

// rewriteEntry rewrites one entry in place and returns how many of its
// strings changed. All fields are computed before any is assigned, so an
// error leaves the entry exactly as it was.
func rewriteEntry(entry *caddy.Entry, rw RewriteFunc) (int, error) {
	upstream := entry.Upstream
	if entry.HasUpstream() {
		host, port, err := caddy.SplitUpstream(upstream)
		if err != nil {
			return 0, err
		}
		upstream = caddy.JoinUpstream(rw(host), port)
	} else if !hasProxyDirective(entry.Directives) {
		return 0, caddy.NewMalformedDirectiveError("", "", "entry has no upstream")
	}

	sni := rw(entry.ServerSNI)

	directives := make([]string, len(entry.Directives))
	for i, line := range entry.Directives {
		if !caddy.IsProxyDirective(line) {
			directives[i] = line
			continue
		}
		rewritten, err := caddy.RewriteDirective(line, rw)
		if err != nil {
			return 0, err
		}
		directives[i] = rewritten
	}

	n := 0
	if upstream != entry.Upstream {
		entry.Upstream = upstream
		n++
	}
	if sni != entry.ServerSNI {
		entry.ServerSNI = sni
		n++
	}
	for i, line := range directives {
		if line != entry.Directives[i] {
			entry.Directives[i] = line
			n++
		}
	}
	return n, nil
}

// hasProxyDirective reports whether any directive line declares a proxy
// upstream, making an empty Upstream field legitimate.
func hasProxyDirective(lines []string) bool {
	for _, line := range lines {
		if caddy.IsProxyDirective(line) {
			return true
		}
	}
	return false
}

// withSite stamps the entry's site address onto a directive error so the
// diagnostic names the entry it came from.
func withSite(site string, err error) error {
	var mde *caddy.MalformedDirectiveError
	if site != "" && errors.As(err, &mde) && mde.Site == "" {
		mde.Site = site
	}
	return err
}
