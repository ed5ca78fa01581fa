package flatten

import (
	"sort"

	"github.com/compose-spec/compose-go/v2/types"

	"github.com/unkube/unkube/internal/core/compose"
)

// =============================================================================
// Canonical Name Resolution
// =============================================================================

// AliasMap maps every string pattern that should resolve to a service onto
// that service's canonical short name. Built once per run, read-only after;
// never persisted between runs.
type AliasMap map[string]string

// BuildAliasMap computes the alias map for a topology and strips the alias
// declarations from every service.
//
// Variants per service `n` in namespace `ns`: the three dotted FQDN shapes
// (`n.ns.svc.cluster.local`, `n.ns.svc`, `n.ns`), every declared network
// alias verbatim, and the derived service-object name `n-service`.
//
// Two rules keep rewriting idempotent and unambiguous:
//   - A variant equal to its own service's canonical name is skipped:
//     canonical short names are never patterns.
//   - A variant equal to a different service's canonical name, or claimed
//     by two services, is an AliasCollisionError. The topology is ambiguous
//     and nothing is touched.
//
// On success the alias declarations on every service are cleared, whether or
// not any variant is ever referenced downstream. On error the topology is
// left exactly as it was.
func BuildAliasMap(services types.Services) (AliasMap, error) {
	names := sortedNames(services)
	m := make(AliasMap)

	for _, name := range names {
		if name == "" {
			return nil, ErrMissingServiceName
		}
		svc := services[name]
		namespace := compose.Namespace(svc)
		for _, variant := range variants(name, namespace, declaredAliases(svc)) {
			if err := register(m, services, variant, name); err != nil {
				return nil, err
			}
		}
	}

	for _, name := range names {
		stripAliases(services, name)
	}

	return m, nil
}

// variants returns every string pattern that must resolve to the service.
func variants(name, namespace string, aliases []string) []string {
	v := []string{
		name + "." + namespace + ".svc.cluster.local",
		name + "." + namespace + ".svc",
		name + "." + namespace,
		name + "-service",
	}
	return append(v, aliases...)
}

// declaredAliases collects the alias strings from every network attachment
// of a service.
func declaredAliases(svc types.ServiceConfig) []string {
	var aliases []string
	for _, cfg := range svc.Networks {
		if cfg == nil {
			continue
		}
		aliases = append(aliases, cfg.Aliases...)
	}
	return aliases
}

// register records variant -> canonical, enforcing that each variant string
// maps to at most one canonical name.
func register(m AliasMap, services types.Services, variant, canonical string) error {
	if variant == "" || variant == canonical {
		// Canonical short names are never patterns; converted services
		// routinely declare their own name as an alias.
		return nil
	}
	if _, shadowed := services[variant]; shadowed {
		return &AliasCollisionError{Variant: variant, First: variant, Second: canonical}
	}
	if existing, ok := m[variant]; ok && existing != canonical {
		return &AliasCollisionError{Variant: variant, First: existing, Second: canonical}
	}
	m[variant] = canonical
	return nil
}

// =============================================================================
// Alias Stripping
// =============================================================================

// stripAliases clears the alias declarations on every network attachment of
// a service. When nothing but aliases was configured, the whole networks
// section is dropped: the service falls back to the default network, where
// short names resolve on their own.
func stripAliases(services types.Services, name string) {
	svc := services[name]
	if len(svc.Networks) == 0 {
		return
	}

	empty := true
	for _, cfg := range svc.Networks {
		if cfg == nil {
			continue
		}
		cfg.Aliases = nil
		if !networkConfigEmpty(cfg) {
			empty = false
		}
	}
	if empty {
		svc.Networks = nil
		services[name] = svc
	}
}

// networkConfigEmpty reports whether a network attachment configures nothing
// beyond the aliases that were just cleared. Every other attachment field
// counts: one set field keeps the attachment alive.
func networkConfigEmpty(cfg *types.ServiceNetworkConfig) bool {
	return cfg.Priority == 0 &&
		cfg.GatewayPriority == 0 &&
		len(cfg.Aliases) == 0 &&
		cfg.InterfaceName == "" &&
		cfg.Ipv4Address == "" &&
		cfg.Ipv6Address == "" &&
		len(cfg.LinkLocalIPs) == 0 &&
		cfg.MacAddress == "" &&
		len(cfg.DriverOpts) == 0 &&
		len(cfg.Extensions) == 0
}

// sortedNames returns service names in a stable order, for reproducible
// error messages and reports.
func sortedNames(services types.Services) []string {
	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
