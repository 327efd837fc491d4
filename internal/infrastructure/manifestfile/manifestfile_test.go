package manifestfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelview/vx/internal/core/manifest"
)

func TestIsManifestPath(t *testing.T) {
	assert.True(t, IsManifestPath("plugin.yaml"))
	assert.True(t, IsManifestPath("plugin.yml"))
	assert.True(t, IsManifestPath("PLUGIN.YAML"))
	assert.False(t, IsManifestPath("plugin.json"))
	assert.False(t, IsManifestPath("plugin.yaml.bak"))
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	m := &manifest.Manifest{
		Name:        "disk-test",
		DisplayName: "Disk Test",
		Contributions: manifest.Contributions{
			Commands: []manifest.Command{
				{ID: "disk-test.get_reader", Title: "Open", Exec: "disktest:GetReader"},
			},
			Readers: []manifest.Reader{
				{Command: "disk-test.get_reader", FilenamePatterns: []string{"*.npy"}},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, Save(path, m))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m, back)
}

func TestSave_ReplacesExistingFileAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: old\n"), 0o644))

	m := &manifest.Manifest{Name: "new"}
	require.NoError(t, Save(path, m))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "new", back.Name)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open manifest")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("name: [oops\n"), 0o644))
	_, err = Load(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad, "error names the offending file")
}
