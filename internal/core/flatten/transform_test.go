package flatten

import (
	"strings"
	"testing"

	"github.com/compose-spec/compose-go/v2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkube/unkube/internal/core/bundle"
	"github.com/unkube/unkube/internal/core/caddy"
)

// testBundle is a two-service topology exercising every substrate: env vars
// with known and unknown references, one configmap file, one proxy entry.
func testBundle() *bundle.Bundle {
	keycloakURL := "https://keycloak.auth.svc.cluster.local/realms/shop"
	healthURL := "http://keycloak-service/health"
	externalURL := "https://external-api.other.svc.cluster.local/v2"

	web := service("web", "storefront", "web.storefront", "web")
	web.Environment = types.MappingWithEquals{
		"KEYCLOAK_URL": &keycloakURL,
		"HEALTH_URL":   &healthURL,
		"EXTERNAL_URL": &externalURL,
	}
	keycloak := service("keycloak", "auth", "keycloak.auth")

	return &bundle.Bundle{
		Project: &types.Project{
			Name: "shop",
			Services: types.Services{
				"web":      web,
				"keycloak": keycloak,
			},
		},
		Files: []*bundle.File{{
			Path:    "configmaps/web/application.yaml",
			Content: "auth:\n  issuer: https://keycloak.auth.svc/realms/shop\n",
		}},
		Caddy: []*caddy.Entry{{
			Site:     "shop.example.test",
			Upstream: "web.storefront.svc.cluster.local:8080",
		}},
	}
}

func TestRun_FlattensAllSubstrates(t *testing.T) {
	b := testBundle()

	report, err := Run(b)
	require.NoError(t, err)
	require.Empty(t, report.Diagnostics)

	env := b.Project.Services["web"].Environment
	assert.Equal(t, "https://keycloak/realms/shop", *env["KEYCLOAK_URL"])
	assert.Equal(t, "http://keycloak/health", *env["HEALTH_URL"])
	assert.Equal(t, "https://external-api.other.svc.cluster.local/v2", *env["EXTERNAL_URL"],
		"unknown names pass through untouched")

	assert.Equal(t, "auth:\n  issuer: https://keycloak/realms/shop\n", b.Files[0].Content)
	assert.Equal(t, "web:8080", b.Caddy[0].Upstream)

	assert.Equal(t, 2, report.Rewrites[SubstrateEnvironment])
	assert.Equal(t, 1, report.Rewrites[SubstrateFiles])
	assert.Equal(t, 1, report.Rewrites[SubstrateCaddy])
}

func TestRun_StripsAliasesFromEveryService(t *testing.T) {
	b := testBundle()

	_, err := Run(b)
	require.NoError(t, err)

	for name, svc := range b.Project.Services {
		assert.Nil(t, svc.Networks, "service %s", name)
	}
}

func TestRun_Idempotent(t *testing.T) {
	b := testBundle()

	_, err := Run(b)
	require.NoError(t, err)

	env := *b.Project.Services["web"].Environment["KEYCLOAK_URL"]
	file := b.Files[0].Content
	upstream := b.Caddy[0].Upstream

	second, err := Run(b)
	require.NoError(t, err)

	assert.Equal(t, 0, second.TotalRewrites(), "second run must change nothing")
	assert.Empty(t, second.Diagnostics)
	assert.Equal(t, env, *b.Project.Services["web"].Environment["KEYCLOAK_URL"])
	assert.Equal(t, file, b.Files[0].Content)
	assert.Equal(t, upstream, b.Caddy[0].Upstream)
}

func TestRun_CollisionAbortsBeforeRewriting(t *testing.T) {
	b := testBundle()
	for _, name := range []string{"web", "keycloak"} {
		cfg := b.Project.Services[name].Networks["cluster"]
		cfg.Aliases = append(cfg.Aliases, "shared")
	}

	report, err := Run(b)
	require.Error(t, err)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, ErrAliasCollision)

	env := b.Project.Services["web"].Environment
	assert.Equal(t, "https://keycloak.auth.svc.cluster.local/realms/shop", *env["KEYCLOAK_URL"],
		"failed run must not touch the bundle")
	assert.Contains(t, b.Project.Services["web"].Networks["cluster"].Aliases, "web.storefront")
}

func TestRun_DiagnosticsReportedNotFatal(t *testing.T) {
	b := testBundle()
	b.Caddy = append(b.Caddy, &caddy.Entry{Site: "broken.example.test"})

	report, err := Run(b)
	require.NoError(t, err)

	require.Len(t, report.Diagnostics, 1)
	assert.ErrorIs(t, report.Diagnostics[0], caddy.ErrMalformedDirective)
	assert.Contains(t, report.Diagnostics[0].Error(), "broken.example.test")
	assert.Equal(t, "web:8080", b.Caddy[0].Upstream, "healthy entries still rewrite")
}

func TestRun_NullCaddyEntryRecovered(t *testing.T) {
	b := testBundle()
	b.Caddy = append(b.Caddy, nil)

	report, err := Run(b)
	require.NoError(t, err)

	require.Len(t, report.Diagnostics, 1)
	assert.ErrorIs(t, report.Diagnostics[0], caddy.ErrMalformedDirective)
	assert.Contains(t, report.Diagnostics[0].Error(), "null")
	assert.Equal(t, "web:8080", b.Caddy[0].Upstream, "healthy entries still rewrite")
}

func TestRun_ReportIdentity(t *testing.T) {
	report, err := Run(testBundle())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(report.RunID, "run_"))
	assert.Len(t, report.RunID, len("run_")+8)
	assert.Equal(t, 2, report.Services)
	assert.Equal(t, 8, report.Variants)
	assert.Equal(t, 4, report.TotalRewrites())
}

func TestRun_EmptyBundle(t *testing.T) {
	report, err := Run(&bundle.Bundle{})
	require.NoError(t, err)

	assert.Equal(t, 0, report.Services)
	assert.Equal(t, 0, report.Variants)
	assert.Equal(t, 0, report.TotalRewrites())
	assert.Empty(t, report.Diagnostics)
}

func TestTransformIdentity(t *testing.T) {
	assert.Equal(t, "flatten-internal-urls", TransformName)
	assert.Equal(t, 200, TransformPriority)
}
