// Package e2e exercises the full pipeline over real bundle directories.
package e2e

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unkube/unkube/internal/shell/bundlefs"
	"github.com/unkube/unkube/internal/shell/pipeline"
)

// =============================================================================
// Bundle Directory Helpers
// =============================================================================

// WriteBundleDir lays out a bundle directory from a path -> content map.
// Paths use forward slashes relative to the bundle root.
func WriteBundleDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	return dir
}

// RunPipeline loads the bundle, applies the registered transforms, and
// saves the result, the same way cmd/unkube drives a run.
func RunPipeline(t *testing.T, dir string) error {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	b, err := bundlefs.Load(dir)
	if err != nil {
		return err
	}

	registry := pipeline.NewRegistry(logger)
	require.NoError(t, registry.Register(pipeline.NewStage(logger)))

	if err := registry.Run(b); err != nil {
		return err
	}
	return bundlefs.Save(dir, b)
}

// ReadBundleFile reads one file from the bundle directory.
func ReadBundleFile(t *testing.T, dir, rel string) string {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(content)
}

// SnapshotDir captures every file under dir for byte-identity comparison.
func SnapshotDir(t *testing.T, dir string) map[string]string {
	t.Helper()

	snap := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		snap[filepath.ToSlash(rel)] = string(content)
		return nil
	})
	require.NoError(t, err)
	return snap
}
