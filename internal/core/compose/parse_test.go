package compose

import (
	"strings"
	"testing"

	"github.com/compose-spec/compose-go/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Fixtures
// =============================================================================

const minimalProject = `
services:
  app:
    image: nginx:latest
`

const convertedProject = `
name: shop
services:
  web:
    image: shop/web:1.4
    x-unkube-namespace: storefront
    environment:
      API_URL: http://api.storefront.svc.cluster.local:8080
      LOG_LEVEL: ${LOG_LEVEL}
    networks:
      cluster:
        aliases:
          - web.storefront
          - web-service

  api:
    image: shop/api:1.4
    x-unkube-namespace: storefront
    networks:
      cluster: {}

networks:
  cluster: {}
`

// =============================================================================
// LoadProject Tests
// =============================================================================

func TestLoadProject_Minimal(t *testing.T) {
	project, err := LoadProject(minimalProject)
	require.NoError(t, err)
	require.Len(t, project.Services, 1)
	assert.Equal(t, "nginx:latest", project.Services["app"].Image)
}

func TestLoadProject_EmptyInput(t *testing.T) {
	_, err := LoadProject("")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = LoadProject("   \n\t  ")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestLoadProject_InvalidYAML(t *testing.T) {
	_, err := LoadProject("services:\n  app:\n  image: [unclosed")
	assert.ErrorIs(t, err, ErrInvalidYAML)
}

func TestLoadProject_NoServices(t *testing.T) {
	_, err := LoadProject("services: {}")
	assert.ErrorIs(t, err, ErrNoServices)
}

func TestLoadProject_KeepsDocumentName(t *testing.T) {
	project, err := LoadProject(convertedProject)
	require.NoError(t, err)
	assert.Equal(t, "shop", project.Name)
}

func TestLoadProject_SkipsInterpolation(t *testing.T) {
	project, err := LoadProject(convertedProject)
	require.NoError(t, err)

	env := project.Services["web"].Environment
	require.NotNil(t, env["LOG_LEVEL"])
	assert.Equal(t, "${LOG_LEVEL}", *env["LOG_LEVEL"], "placeholders must survive for the target runtime")
}

func TestLoadProject_KeepsNetworkAliases(t *testing.T) {
	project, err := LoadProject(convertedProject)
	require.NoError(t, err)

	netCfg := project.Services["web"].Networks["cluster"]
	require.NotNil(t, netCfg)
	assert.Equal(t, []string{"web.storefront", "web-service"}, netCfg.Aliases)
}

func TestMarshalProject_RoundTrip(t *testing.T) {
	project, err := LoadProject(convertedProject)
	require.NoError(t, err)

	out, err := MarshalProject(project)
	require.NoError(t, err)

	reloaded, err := LoadProject(string(out))
	require.NoError(t, err)
	assert.Equal(t, "storefront", Namespace(reloaded.Services["web"]))
	assert.Equal(t, []string{"web.storefront", "web-service"}, reloaded.Services["web"].Networks["cluster"].Aliases)

	env := reloaded.Services["web"].Environment
	require.NotNil(t, env["API_URL"])
	assert.Equal(t, "http://api.storefront.svc.cluster.local:8080", *env["API_URL"])
}

// =============================================================================
// Namespace Extension Tests
// =============================================================================

func TestNamespace_FromExtension(t *testing.T) {
	project, err := LoadProject(convertedProject)
	require.NoError(t, err)
	assert.Equal(t, "storefront", Namespace(project.Services["web"]))
}

func TestNamespace_Default(t *testing.T) {
	project, err := LoadProject(minimalProject)
	require.NoError(t, err)
	assert.Equal(t, DefaultNamespace, Namespace(project.Services["app"]))
}

func TestNamespace_EmptyExtensionValue(t *testing.T) {
	svc := types.ServiceConfig{Name: "app", Extensions: types.Extensions{NamespaceExtension: ""}}
	assert.Equal(t, DefaultNamespace, Namespace(svc))
}

func TestSetNamespace(t *testing.T) {
	svc := types.ServiceConfig{Name: "app"}
	SetNamespace(&svc, "payments")
	assert.Equal(t, "payments", Namespace(svc))
}

func TestLoadProject_ManyServices(t *testing.T) {
	var b strings.Builder
	b.WriteString("services:\n")
	for _, name := range []string{"a", "b", "c", "d"} {
		b.WriteString("  " + name + ":\n    image: img:1\n")
	}

	project, err := LoadProject(b.String())
	require.NoError(t, err)
	assert.Len(t, project.Services, 4)
}
