package compose

import "github.com/compose-spec/compose-go/v2/types"

// =============================================================================
// Service Extensions
// =============================================================================

const (
	// NamespaceExtension is the service extension the conversion stage uses
	// to record which cluster namespace a service came from.
	NamespaceExtension = "x-unkube-namespace"

	// DefaultNamespace is assumed when a service carries no namespace
	// extension, matching the cluster's own default.
	DefaultNamespace = "default"
)

// Namespace returns the source cluster namespace of a service.
//
// Example:
//
//	// services.keycloak.x-unkube-namespace: auth
//	Namespace(svc) // returns "auth"
func Namespace(svc types.ServiceConfig) string {
	if v, ok := svc.Extensions[NamespaceExtension]; ok {
		if ns, ok := v.(string); ok && ns != "" {
			return ns
		}
	}
	return DefaultNamespace
}

// SetNamespace records the source cluster namespace on a service.
func SetNamespace(svc *types.ServiceConfig, namespace string) {
	if svc.Extensions == nil {
		svc.Extensions = types.Extensions{}
	}
	svc.Extensions[NamespaceExtension] = namespace
}
