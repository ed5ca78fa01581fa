package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkube/unkube/internal/core/flatten"
)

// =============================================================================
// Acceptance Tests: Failure Behavior
// =============================================================================

// TestE2E_CollisionAbortsPipeline verifies an ambiguous topology fails the
// run and leaves the bundle directory byte-identical.
func TestE2E_CollisionAbortsPipeline(t *testing.T) {
	dir := WriteBundleDir(t, map[string]string{
		"compose.yaml": `name: broken
services:
  api:
    image: demo/api:1.0.0
    environment:
      PEER_URL: http://web.default.svc.cluster.local:3000
    networks:
      cluster:
        aliases:
          - shared
  web:
    image: demo/web:1.0.0
    networks:
      cluster:
        aliases:
          - shared
networks:
  cluster: {}
`,
	})
	before := SnapshotDir(t, dir)

	err := RunPipeline(t, dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, flatten.ErrAliasCollision)
	assert.Contains(t, err.Error(), "api")
	assert.Contains(t, err.Error(), "web")

	assert.Equal(t, before, SnapshotDir(t, dir), "failed run must not touch the bundle")
}

// TestE2E_MalformedProxyEntryRecovered verifies a bad proxy entry degrades
// to a diagnostic: the run succeeds, the bad entry survives untouched, and
// every other entry still rewrites.
func TestE2E_MalformedProxyEntryRecovered(t *testing.T) {
	dir := WriteBundleDir(t, map[string]string{
		"compose.yaml": `name: partial
services:
  api:
    image: demo/api:1.0.0
`,
		"caddy.yaml": `- site: good.example.test
  upstream: api.default.svc.cluster.local:8080
- site: broken.example.test
  upstream: ""
  directives:
    - encode gzip
`,
	})

	require.NoError(t, RunPipeline(t, dir))

	caddyOut := ReadBundleFile(t, dir, "caddy.yaml")
	assert.Contains(t, caddyOut, "api:8080")
	assert.Contains(t, caddyOut, "broken.example.test")
	assert.Contains(t, caddyOut, "encode gzip")
}

// TestE2E_NullProxyEntryRecovered verifies a null list item in caddy.yaml
// degrades to a diagnostic the same way: the run succeeds, the null
// round-trips, and the healthy entry still rewrites.
func TestE2E_NullProxyEntryRecovered(t *testing.T) {
	dir := WriteBundleDir(t, map[string]string{
		"compose.yaml": `name: partial
services:
  api:
    image: demo/api:1.0.0
`,
		"caddy.yaml": `- site: good.example.test
  upstream: api.default.svc.cluster.local:8080
- ~
`,
	})

	require.NoError(t, RunPipeline(t, dir))

	caddyOut := ReadBundleFile(t, dir, "caddy.yaml")
	assert.Contains(t, caddyOut, "api:8080")
	assert.Contains(t, caddyOut, "null")
}
