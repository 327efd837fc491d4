package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxelview/vx/internal/core/registry"
)

func validManifestYAML(name string) string {
	return fmt.Sprintf(`name: %s
contributions:
  commands:
    - id: %s.get_reader
      title: Open files
      exec: %s:GetReader
  readers:
    - command: %s.get_reader
      filename_patterns: ['*.tif']
`, name, name, name, name)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestScanner_FindsFlatAndNestedManifests(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "alpha.yaml"), validManifestYAML("alpha"))
	writeFile(t, filepath.Join(dir, "beta", "manifest.yaml"), validManifestYAML("beta"))
	writeFile(t, filepath.Join(dir, "gamma", "manifest.yml"), validManifestYAML("gamma"))
	// Non-manifest clutter is ignored.
	writeFile(t, filepath.Join(dir, "README.md"), "not a manifest")
	writeFile(t, filepath.Join(dir, "empty-plugin", "notes.txt"), "nothing here")

	found, problems, err := NewScanner([]string{dir}).Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, problems)

	var names []string
	for _, f := range found {
		names = append(names, f.Manifest.Name)
	}
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, names)
}

func TestScanner_ReportsProblemsAndKeepsScanning(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "good.yaml"), validManifestYAML("good"))
	writeFile(t, filepath.Join(dir, "broken.yaml"), "name: [this is not\n")
	writeFile(t, filepath.Join(dir, "dangling.yaml"), `name: dangling
contributions:
  readers:
    - command: dangling.nope
      filename_patterns: ['*.tif']
`)

	found, problems, err := NewScanner([]string{dir}).Scan(context.Background())
	require.NoError(t, err)

	require.Len(t, found, 1)
	assert.Equal(t, "good", found[0].Manifest.Name)

	require.Len(t, problems, 2)
	assert.Equal(t, filepath.Join(dir, "broken.yaml"), problems[0].Path)
	assert.Equal(t, filepath.Join(dir, "dangling.yaml"), problems[1].Path)
	assert.Contains(t, problems[1].Err.Error(), "not declared")
}

func TestScanner_MissingDirectoryIsNotAnError(t *testing.T) {
	found, problems, err := NewScanner([]string{filepath.Join(t.TempDir(), "nope")}).Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Empty(t, problems)
}

func TestScanner_MultipleDirectoriesMergeDeterministically(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeFile(t, filepath.Join(dirA, "one.yaml"), validManifestYAML("one"))
	writeFile(t, filepath.Join(dirB, "two.yaml"), validManifestYAML("two"))

	found, problems, err := NewScanner([]string{dirA, dirB}).Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, problems)
	require.Len(t, found, 2)

	paths := []string{found[0].Path, found[1].Path}
	assert.IsIncreasing(t, paths, "results are sorted by path")
}

func TestPopulate_RegistersAndRecordsConflicts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a-first.yaml"), validManifestYAML("dup"))
	writeFile(t, filepath.Join(dir, "b-second.yaml"), validManifestYAML("dup"))
	writeFile(t, filepath.Join(dir, "solo.yaml"), validManifestYAML("solo"))

	reg := registry.New()
	registered, problems, err := NewScanner([]string{dir}).Populate(context.Background(), reg)
	require.NoError(t, err)

	require.Len(t, registered, 2, "first dup wins, second becomes a problem")
	assert.Equal(t, []string{"dup", "solo"}, reg.Plugins())

	require.Len(t, problems, 1)
	assert.Equal(t, filepath.Join(dir, "b-second.yaml"), problems[0].Path)
	assert.Contains(t, problems[0].Err.Error(), "already registered")
}

func TestScan_HonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewScanner([]string{t.TempDir()}).Scan(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
