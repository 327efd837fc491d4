// Package registry aggregates the contributions of every discovered
// plugin manifest into one queryable structure: the in-memory side of
// plugin discovery. Lookups are safe for concurrent use so a filesystem
// watcher can swap plugins while the host resolves readers and writers.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/voxelview/vx/internal/core/manifest"
	"github.com/voxelview/vx/internal/core/match"
)

// CommandEntry is a declared command together with the plugin that owns it.
type CommandEntry struct {
	Plugin  string
	Command manifest.Command
}

// ReaderMatch is a reader contribution that accepted a path, with the
// pattern that matched and its ranking score.
type ReaderMatch struct {
	Plugin      string
	Reader      manifest.Reader
	Pattern     string
	Specificity int
}

// WriterMatch is a writer contribution compatible with a save request.
type WriterMatch struct {
	Plugin string
	Writer manifest.Writer
}

// SampleEntry is a sample dataset contribution with its owning plugin.
type SampleEntry struct {
	Plugin string
	Sample manifest.SampleData
}

// WidgetEntry is a widget contribution with its owning plugin.
type WidgetEntry struct {
	Plugin string
	Widget manifest.Widget
}

// MenuEntry is a menu placement with its owning plugin.
type MenuEntry struct {
	Plugin string
	Item   manifest.MenuItem
}

// Registry holds registered plugin manifests keyed by plugin name.
type Registry struct {
	mu       sync.RWMutex
	plugins  map[string]*manifest.Manifest
	order    []string
	commands map[string]CommandEntry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		plugins:  make(map[string]*manifest.Manifest),
		commands: make(map[string]CommandEntry),
	}
}

// Register validates m and adds its contributions. Registration fails
// if a plugin with the same name is already registered or if any
// command id collides with one declared by another plugin.
func (r *Registry) Register(m *manifest.Manifest) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("plugin %q: %w", m.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plugins[m.Name]; exists {
		return fmt.Errorf("plugin %q is already registered", m.Name)
	}
	for _, c := range m.Contributions.Commands {
		if prev, exists := r.commands[c.ID]; exists {
			return fmt.Errorf("command %q declared by both %q and %q", c.ID, prev.Plugin, m.Name)
		}
	}

	r.plugins[m.Name] = m
	r.order = append(r.order, m.Name)
	for _, c := range m.Contributions.Commands {
		r.commands[c.ID] = CommandEntry{Plugin: m.Name, Command: c}
	}
	return nil
}

// Unregister removes a plugin and all of its contributions. It reports
// whether the plugin was registered.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, exists := r.plugins[name]
	if !exists {
		return false
	}
	delete(r.plugins, name)
	for _, c := range m.Contributions.Commands {
		delete(r.commands, c.ID)
	}
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Plugins returns registered plugin names in registration order.
func (r *Registry) Plugins() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Manifest returns the registered manifest for a plugin name.
func (r *Registry) Manifest(name string) (*manifest.Manifest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.plugins[name]
	return m, ok
}

// Command resolves a command id across all registered plugins.
func (r *Registry) Command(id string) (CommandEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.commands[id]
	return e, ok
}

// Commands returns every registered command in registration order.
func (r *Registry) Commands() []CommandEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []CommandEntry
	for _, name := range r.order {
		for _, c := range r.plugins[name].Contributions.Commands {
			out = append(out, CommandEntry{Plugin: name, Command: c})
		}
	}
	return out
}

// ReadersFor returns the readers accepting the given path, most
// specific pattern first. Ties keep registration and declaration order.
func (r *Registry) ReadersFor(path string, isDir bool) []ReaderMatch {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []ReaderMatch
	for _, name := range r.order {
		for _, rd := range r.plugins[name].Contributions.Readers {
			pattern, ok := match.ReaderAccepts(rd, path, isDir)
			if !ok {
				continue
			}
			out = append(out, ReaderMatch{
				Plugin:      name,
				Reader:      rd,
				Pattern:     pattern,
				Specificity: match.Specificity(pattern),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Specificity > out[j].Specificity
	})
	return out
}

// WritersFor returns the writers that can save the given layer types to
// the given path. An empty path skips the extension check.
func (r *Registry) WritersFor(layerTypes []string, path string) []WriterMatch {
	counts := match.CountLayers(layerTypes)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []WriterMatch
	for _, name := range r.order {
		for _, w := range r.plugins[name].Contributions.Writers {
			if !match.WriterHandlesLayers(w, counts) {
				continue
			}
			if path != "" && !match.WriterAccepts(w, path) {
				continue
			}
			out = append(out, WriterMatch{Plugin: name, Writer: w})
		}
	}
	return out
}

// SampleData returns every sample dataset contribution.
func (r *Registry) SampleData() []SampleEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []SampleEntry
	for _, name := range r.order {
		for _, s := range r.plugins[name].Contributions.SampleData {
			out = append(out, SampleEntry{Plugin: name, Sample: s})
		}
	}
	return out
}

// Widgets returns every widget contribution.
func (r *Registry) Widgets() []WidgetEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []WidgetEntry
	for _, name := range r.order {
		for _, w := range r.plugins[name].Contributions.Widgets {
			out = append(out, WidgetEntry{Plugin: name, Widget: w})
		}
	}
	return out
}

// MenuItems returns menu placements grouped by menu key.
func (r *Registry) MenuItems() map[string][]MenuEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]MenuEntry)
	for _, name := range r.order {
		for menu, items := range r.plugins[name].Contributions.Menus {
			for _, item := range items {
				out[menu] = append(out[menu], MenuEntry{Plugin: name, Item: item})
			}
		}
	}
	return out
}
