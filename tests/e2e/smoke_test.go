package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Smoke Tests
// =============================================================================

// TestE2E_MinimalBundle runs the pipeline over the smallest possible bundle:
// one compose file, no configmaps, no proxy entries.
func TestE2E_MinimalBundle(t *testing.T) {
	dir := WriteBundleDir(t, map[string]string{
		"compose.yaml": `name: demo
services:
  app:
    image: demo/app:1.0.0
    environment:
      SELF_URL: http://app.default.svc.cluster.local:9000
`,
	})

	require.NoError(t, RunPipeline(t, dir))

	out := ReadBundleFile(t, dir, "compose.yaml")
	assert.Contains(t, out, "http://app:9000")
	assert.NotContains(t, out, "svc.cluster.local")
}

// TestE2E_BundleWithoutReferences stays a no-op end to end.
func TestE2E_BundleWithoutReferences(t *testing.T) {
	dir := WriteBundleDir(t, map[string]string{
		"compose.yaml": `name: plain
services:
  app:
    image: demo/app:1.0.0
  worker:
    image: demo/worker:1.0.0
`,
	})

	require.NoError(t, RunPipeline(t, dir))

	out := ReadBundleFile(t, dir, "compose.yaml")
	assert.Contains(t, out, "demo/app:1.0.0")
	assert.Contains(t, out, "demo/worker:1.0.0")
}
