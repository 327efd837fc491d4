// Package builtins embeds the viewer's own contribution manifest: the
// built-in file reader, the per-layer-type writers, and the sample
// dataset catalog. It is registered like any installed plugin.
package builtins

import (
	_ "embed"

	"github.com/voxelview/vx/internal/core/manifest"
	"github.com/voxelview/vx/internal/core/registry"
)

//go:embed builtins.yaml
var raw []byte

// PluginName is the plugin name of the embedded builtins manifest.
const PluginName = "voxelview"

// Load decodes the embedded builtins manifest.
func Load() (*manifest.Manifest, error) {
	return manifest.Parse(raw)
}

// Register loads the builtins manifest into reg.
func Register(reg *registry.Registry) error {
	m, err := Load()
	if err != nil {
		return err
	}
	return reg.Register(m)
}
