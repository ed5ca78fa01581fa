package bundlefs

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/unkube/unkube/internal/core/bundle"
	"github.com/unkube/unkube/internal/core/caddy"
	"github.com/unkube/unkube/internal/core/compose"
)

// Bundle directory layout.
const (
	// ComposeFile is the compose document, required in every bundle.
	ComposeFile = "compose.yaml"

	// CaddyFile holds the reverse-proxy entries as a YAML list.
	CaddyFile = "caddy.yaml"

	// ConfigmapsDir is the tree of configmap-derived files services mount.
	ConfigmapsDir = "configmaps"
)

// =============================================================================
// Loading
// =============================================================================

// Load reads a bundle directory into memory. compose.yaml is required; a
// missing configmaps/ tree or caddy.yaml yields empty slices, not errors.
func Load(dir string) (*bundle.Bundle, error) {
	composePath := filepath.Join(dir, ComposeFile)
	content, err := os.ReadFile(composePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewBundleError("load", composePath, ErrMissingCompose)
		}
		return nil, NewBundleError("load", composePath, err)
	}

	project, err := compose.LoadProject(string(content))
	if err != nil {
		return nil, NewBundleError("load", composePath, err)
	}

	files, err := loadConfigmaps(dir)
	if err != nil {
		return nil, err
	}

	entries, err := loadCaddy(dir)
	if err != nil {
		return nil, err
	}

	return &bundle.Bundle{Project: project, Files: files, Caddy: entries}, nil
}

// loadConfigmaps walks the configmaps tree. Paths are recorded relative to
// the bundle root with forward slashes, in the walk's lexical order.
func loadConfigmaps(dir string) ([]*bundle.File, error) {
	root := filepath.Join(dir, ConfigmapsDir)
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	var files []*bundle.File
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, &bundle.File{
			Path:    filepath.ToSlash(rel),
			Content: string(content),
		})
		return nil
	})
	if err != nil {
		return nil, NewBundleError("load", root, err)
	}
	return files, nil
}

func loadCaddy(dir string) ([]*caddy.Entry, error) {
	path := filepath.Join(dir, CaddyFile)
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, NewBundleError("load", path, err)
	}

	var entries []*caddy.Entry
	if err := yaml.Unmarshal(content, &entries); err != nil {
		return nil, NewBundleError("load", path, err)
	}
	return entries, nil
}

// =============================================================================
// Saving
// =============================================================================

// Save writes a bundle back to its directory. Files whose content did not
// change are left alone, so an unchanged bundle saves without touching disk.
func Save(dir string, b *bundle.Bundle) error {
	if b == nil || b.Project == nil {
		return NewBundleError("save", dir, ErrNoProject)
	}

	composePath := filepath.Join(dir, ComposeFile)
	data, err := compose.MarshalProject(b.Project)
	if err != nil {
		return NewBundleError("save", composePath, err)
	}
	if err := writeIfChanged(composePath, data); err != nil {
		return err
	}

	for _, f := range b.Files {
		if !safeRelPath(f.Path) {
			return NewBundleError("save", f.Path, ErrUnsafePath)
		}
		path := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := writeIfChanged(path, []byte(f.Content)); err != nil {
			return err
		}
	}

	if len(b.Caddy) > 0 {
		caddyPath := filepath.Join(dir, CaddyFile)
		data, err := yaml.Marshal(b.Caddy)
		if err != nil {
			return NewBundleError("save", caddyPath, err)
		}
		if err := writeIfChanged(caddyPath, data); err != nil {
			return err
		}
	}
	return nil
}

// writeIfChanged writes data to path unless the file already holds exactly
// that content, creating parent directories as needed.
func writeIfChanged(path string, data []byte) error {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, data) {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return NewBundleError("save", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return NewBundleError("save", path, err)
	}
	return nil
}

// safeRelPath reports whether a bundle-relative file path stays inside the
// bundle directory.
func safeRelPath(p string) bool {
	if p == "" || filepath.IsAbs(p) {
		return false
	}
	clean := filepath.Clean(filepath.FromSlash(p))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return false
	}
	return true
}
