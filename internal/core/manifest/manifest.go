// Package manifest defines the plugin contribution manifest of the
// Voxelview image viewer: the declarative YAML document through which a
// plugin registers commands, file readers, file writers, sample datasets,
// widgets, and menu placements with the host application.
package manifest

import "strings"

// Manifest is the root of a plugin contribution document.
type Manifest struct {
	Name          string        `yaml:"name"`
	DisplayName   string        `yaml:"display_name,omitempty"`
	Contributions Contributions `yaml:"contributions"`
}

// Contributions groups every contribution type a plugin can declare.
type Contributions struct {
	Commands   []Command             `yaml:"commands,omitempty"`
	Readers    []Reader              `yaml:"readers,omitempty"`
	Writers    []Writer              `yaml:"writers,omitempty"`
	SampleData []SampleData          `yaml:"sample_data,omitempty"`
	Widgets    []Widget              `yaml:"widgets,omitempty"`
	Menus      map[string][]MenuItem `yaml:"menus,omitempty"`
}

// Command declares a callable the host can invoke. Every other
// contribution type references a command by its id. Ids are namespaced:
// the segment before the first dot must equal the manifest name.
type Command struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	// Exec is an opaque callable reference resolved by the plugin
	// loader at runtime.
	Exec       string `yaml:"exec,omitempty"`
	Enablement string `yaml:"enablement,omitempty"`
}

// Reader binds a command to the filename patterns it can open.
// Patterns are case-sensitive shell-style globs matched against the
// filename component of a path.
type Reader struct {
	Command            string   `yaml:"command"`
	FilenamePatterns   []string `yaml:"filename_patterns"`
	AcceptsDirectories bool     `yaml:"accepts_directories,omitempty"`
}

// Writer binds a command to the layer types it can save and the output
// filename extensions it produces. DisplayName distinguishes variants
// of the same format (lossless, lossy). An empty extension list means
// the writer accepts any output path.
type Writer struct {
	Command            string   `yaml:"command"`
	LayerTypes         []string `yaml:"layer_types"`
	FilenameExtensions []string `yaml:"filename_extensions,omitempty"`
	DisplayName        string   `yaml:"display_name,omitempty"`
}

// SampleData binds a stable key and display name to a command that
// produces sample content.
type SampleData struct {
	Key         string `yaml:"key"`
	DisplayName string `yaml:"display_name"`
	Command     string `yaml:"command"`
}

// Widget binds a command to a dockable widget shown under DisplayName.
type Widget struct {
	Command     string `yaml:"command"`
	DisplayName string `yaml:"display_name"`
}

// MenuItem places a command in the menu identified by its map key in
// Contributions.Menus. When is an optional visibility predicate.
type MenuItem struct {
	Command string `yaml:"command"`
	When    string `yaml:"when,omitempty"`
}

// Command returns the declared command with the given id.
func (m *Manifest) Command(id string) (Command, bool) {
	for _, c := range m.Contributions.Commands {
		if c.ID == id {
			return c, true
		}
	}
	return Command{}, false
}

// CommandIDs returns the ids of all declared commands in declaration order.
func (m *Manifest) CommandIDs() []string {
	ids := make([]string, 0, len(m.Contributions.Commands))
	for _, c := range m.Contributions.Commands {
		ids = append(ids, c.ID)
	}
	return ids
}

// Namespace returns the namespace segment of a command id, the part
// before the first dot.
func Namespace(id string) string {
	ns, _, _ := strings.Cut(id, ".")
	return ns
}
