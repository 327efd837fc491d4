// Package manifestfile reads and writes plugin manifest files on disk.
package manifestfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"

	"github.com/voxelview/vx/internal/core/manifest"
)

// IsManifestPath reports whether a path looks like a manifest file.
func IsManifestPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads and decodes the manifest at path.
func Load(path string) (*manifest.Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	m, err := manifest.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Save writes m to path atomically, so a watcher or a concurrently
// starting viewer never observes a half-written manifest.
func Save(path string, m *manifest.Manifest) error {
	data, err := m.MarshalBytes()
	if err != nil {
		return err
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}
