package manifest

import (
	"path"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleManifest = `
name: tissue-tools
display_name: Tissue Tools
contributions:
  commands:
    - id: tissue-tools.get_reader
      title: Open tissue stacks
      exec: tissuetools:GetReader
    - id: tissue-tools.write_mask
      title: Save segmentation mask
      exec: tissuetools:WriteMask
    - id: tissue-tools.data.demo
      title: Demo tissue stack
      exec: tissuetools:DemoData
    - id: tissue-tools.threshold
      title: Threshold widget
      exec: tissuetools:Threshold
      enablement: active_layer_type == 'image'
  readers:
    - command: tissue-tools.get_reader
      filename_patterns: ['*.tif', '*.tiff', '*.lsm']
      accepts_directories: true
  writers:
    - command: tissue-tools.write_mask
      layer_types: ['labels']
      filename_extensions: ['.tif']
      display_name: mask
  sample_data:
    - key: demo
      display_name: Demo tissue stack
      command: tissue-tools.data.demo
  widgets:
    - command: tissue-tools.threshold
      display_name: Threshold
  menus:
    layers/segment:
      - command: tissue-tools.threshold
        when: num_layers > 0
`

func TestDecode_FullManifest(t *testing.T) {
	m, err := Decode(strings.NewReader(sampleManifest))
	require.NoError(t, err)

	assert.Equal(t, "tissue-tools", m.Name)
	assert.Equal(t, "Tissue Tools", m.DisplayName)
	assert.Len(t, m.Contributions.Commands, 4)
	assert.Len(t, m.Contributions.Readers, 1)
	assert.Len(t, m.Contributions.Writers, 1)
	assert.Len(t, m.Contributions.SampleData, 1)
	assert.Len(t, m.Contributions.Widgets, 1)

	reader := m.Contributions.Readers[0]
	assert.Equal(t, "tissue-tools.get_reader", reader.Command)
	assert.Equal(t, []string{"*.tif", "*.tiff", "*.lsm"}, reader.FilenamePatterns)
	assert.True(t, reader.AcceptsDirectories)

	writer := m.Contributions.Writers[0]
	assert.Equal(t, []string{".tif"}, writer.FilenameExtensions)
	assert.Equal(t, "mask", writer.DisplayName)

	items, ok := m.Contributions.Menus["layers/segment"]
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "tissue-tools.threshold", items[0].Command)
	assert.Equal(t, "num_layers > 0", items[0].When)

	cmd, ok := m.Command("tissue-tools.threshold")
	require.True(t, ok)
	assert.Equal(t, "active_layer_type == 'image'", cmd.Enablement)
}

func TestDecode_RejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader(`
name: typo-plugin
contributions:
  commmands:
    - id: typo-plugin.x
      title: X
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commmands")
}

func TestDecode_RequiresName(t *testing.T) {
	_, err := Decode(strings.NewReader(`display_name: Anonymous`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestValidate_Violations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(m *Manifest)
		wantErr string
	}{
		{
			name:    "Valid_NoError",
			mutate:  func(m *Manifest) {},
			wantErr: "",
		},
		{
			name: "DuplicateCommandID",
			mutate: func(m *Manifest) {
				m.Contributions.Commands = append(m.Contributions.Commands, m.Contributions.Commands[0])
			},
			wantErr: "duplicate id",
		},
		{
			name: "CommandOutsideNamespace",
			mutate: func(m *Manifest) {
				m.Contributions.Commands[0].ID = "other.get_reader"
				m.Contributions.Readers[0].Command = "other.get_reader"
			},
			wantErr: "namespaced",
		},
		{
			name: "MissingCommandTitle",
			mutate: func(m *Manifest) {
				m.Contributions.Commands[1].Title = ""
			},
			wantErr: "title is required",
		},
		{
			name: "ReaderReferencesUndeclaredCommand",
			mutate: func(m *Manifest) {
				m.Contributions.Readers[0].Command = "tissue-tools.nope"
			},
			wantErr: `command "tissue-tools.nope" is not declared`,
		},
		{
			name: "ReaderWithInvalidPattern",
			mutate: func(m *Manifest) {
				m.Contributions.Readers[0].FilenamePatterns = []string{"*.tif", "[unclosed"}
			},
			wantErr: "syntax error in pattern",
		},
		{
			name: "ReaderWithNothingToMatch",
			mutate: func(m *Manifest) {
				m.Contributions.Readers[0].FilenamePatterns = nil
				m.Contributions.Readers[0].AcceptsDirectories = false
			},
			wantErr: "no filename_patterns",
		},
		{
			name: "WriterExtensionWithoutDot",
			mutate: func(m *Manifest) {
				m.Contributions.Writers[0].FilenameExtensions = []string{"tif"}
			},
			wantErr: "must begin with a dot",
		},
		{
			name: "WriterWithUnknownLayerType",
			mutate: func(m *Manifest) {
				m.Contributions.Writers[0].LayerTypes = []string{"hologram"}
			},
			wantErr: "unknown layer type",
		},
		{
			name: "WriterWithoutLayerTypes",
			mutate: func(m *Manifest) {
				m.Contributions.Writers[0].LayerTypes = nil
			},
			wantErr: "layer_types is required",
		},
		{
			name: "WriterConstrainsTypeTwice",
			mutate: func(m *Manifest) {
				m.Contributions.Writers[0].LayerTypes = []string{"labels", "labels+"}
			},
			wantErr: "constrained more than once",
		},
		{
			name: "SampleDataWithoutKey",
			mutate: func(m *Manifest) {
				m.Contributions.SampleData[0].Key = ""
			},
			wantErr: "key is required",
		},
		{
			name: "WidgetReferencesUndeclaredCommand",
			mutate: func(m *Manifest) {
				m.Contributions.Widgets[0].Command = "tissue-tools.gone"
			},
			wantErr: "not declared",
		},
		{
			name: "MenuItemReferencesUndeclaredCommand",
			mutate: func(m *Manifest) {
				m.Contributions.Menus["layers/segment"][0].Command = "tissue-tools.gone"
			},
			wantErr: "not declared",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode(strings.NewReader(sampleManifest))
			require.NoError(t, err)

			tt.mutate(m)
			err = m.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidate_ReportsEveryViolation(t *testing.T) {
	m, err := Decode(strings.NewReader(sampleManifest))
	require.NoError(t, err)

	m.Contributions.Writers[0].FilenameExtensions = []string{"tif"}
	m.Contributions.Readers[0].Command = "tissue-tools.nope"

	err = m.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must begin with a dot")
	assert.Contains(t, err.Error(), "is not declared")
}

func TestCheckPattern(t *testing.T) {
	tests := []struct {
		pattern string
		valid   bool
	}{
		{"*.tif", true},
		{"*", true},
		{"data-??.npy", true},
		{"[abc]*.csv", true},
		{"[a-z].dat", true},
		{`\*.literal`, true},
		{"", false},
		{"[unclosed", false},
		{"[]", false},
		{"[a-]", false},
		{"[-a]", false},
		{`trailing\`, false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			err := CheckPattern(tt.pattern)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCheckPattern_AgreesWithMatcher(t *testing.T) {
	// A pattern that passes validation must never be one the matcher
	// rejects as malformed (and so would silently match nothing).
	for _, pattern := range []string{"[a-]", "[-a]", "a[", `a\`} {
		t.Run(pattern, func(t *testing.T) {
			_, matchErr := path.Match(pattern, "a")
			require.ErrorIs(t, matchErr, path.ErrBadPattern)
			assert.Error(t, CheckPattern(pattern))
		})
	}
}

func TestParseLayerConstraint(t *testing.T) {
	tests := []struct {
		input   string
		want    LayerConstraint
		wantErr bool
	}{
		{input: "image", want: LayerConstraint{Type: "image", Min: 1, Max: 1}},
		{input: "labels+", want: LayerConstraint{Type: "labels", Min: 1, Max: -1}},
		{input: "points?", want: LayerConstraint{Type: "points", Min: 0, Max: 1}},
		{input: "tracks*", want: LayerConstraint{Type: "tracks", Min: 0, Max: -1}},
		{input: "hologram", wantErr: true},
		{input: "image++", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLayerConstraint(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLayerConstraint_Satisfied(t *testing.T) {
	exact, _ := ParseLayerConstraint("image")
	atLeastOne, _ := ParseLayerConstraint("image+")
	optional, _ := ParseLayerConstraint("image?")
	any, _ := ParseLayerConstraint("image*")

	assert.False(t, exact.Satisfied(0))
	assert.True(t, exact.Satisfied(1))
	assert.False(t, exact.Satisfied(2))

	assert.False(t, atLeastOne.Satisfied(0))
	assert.True(t, atLeastOne.Satisfied(1))
	assert.True(t, atLeastOne.Satisfied(7))

	assert.True(t, optional.Satisfied(0))
	assert.True(t, optional.Satisfied(1))
	assert.False(t, optional.Satisfied(2))

	assert.True(t, any.Satisfied(0))
	assert.True(t, any.Satisfied(42))
}
