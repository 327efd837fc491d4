package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/voxelview/vx/internal/core/manifest"
	"github.com/voxelview/vx/internal/core/registry"
	"github.com/voxelview/vx/internal/infrastructure/logging"
	"github.com/voxelview/vx/internal/infrastructure/manifestfile"
)

// Watcher keeps a registry in sync with manifest files while they are
// created, rewritten, or removed under the scanner's directories.
type Watcher struct {
	scanner *Scanner
	reg     *registry.Registry
	log     zerolog.Logger
	// roots are the configured plugin directories; plugin
	// subdirectories holding a nested manifest.yaml sit one level
	// below a root and are watched individually.
	roots map[string]bool

	mu sync.Mutex
	// byPath maps a manifest path to the plugin name it registered, so
	// a removed file can be unregistered without re-reading it.
	byPath map[string]string
}

// NewWatcher creates a watcher over the scanner's directories feeding reg.
func NewWatcher(scanner *Scanner, reg *registry.Registry) *Watcher {
	roots := make(map[string]bool, len(scanner.dirs))
	for _, dir := range scanner.dirs {
		roots[filepath.Clean(dir)] = true
	}
	return &Watcher{
		scanner: scanner,
		reg:     reg,
		log:     logging.WithComponent("watcher"),
		roots:   roots,
		byPath:  make(map[string]string),
	}
}

// Run populates the registry, then blocks processing filesystem events
// until ctx is cancelled. The initial scan's problems are returned
// immediately; later unreadable or rejected rewrites are logged and the
// previous registration for that path is kept.
func (w *Watcher) Run(ctx context.Context) ([]Problem, error) {
	found, problems, err := w.scanner.Populate(ctx, w.reg)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	for _, f := range found {
		w.byPath[filepath.Clean(f.Path)] = f.Manifest.Name
	}
	w.mu.Unlock()

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return problems, fmt.Errorf("start watcher: %w", err)
	}
	defer fw.Close()

	watching := 0
	for _, dir := range w.scanner.dirs {
		if err := fw.Add(dir); err != nil {
			w.log.Warn().Str("dir", dir).Err(err).Msg("cannot watch directory")
			continue
		}
		watching++

		// Existing plugin subdirectories carry nested manifests the
		// root watch cannot see.
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			sub := filepath.Join(dir, entry.Name())
			if err := fw.Add(sub); err != nil {
				w.log.Warn().Str("dir", sub).Err(err).Msg("cannot watch plugin directory")
			}
		}
	}
	if watching == 0 {
		return problems, fmt.Errorf("no plugin directory could be watched")
	}

	for {
		select {
		case <-ctx.Done():
			return problems, ctx.Err()
		case event, ok := <-fw.Events:
			if !ok {
				return problems, nil
			}
			w.handle(fw, event)
		case err, ok := <-fw.Errors:
			if !ok {
				return problems, nil
			}
			w.log.Warn().Err(err).Msg("watch error")
		}
	}
}

func (w *Watcher) handle(fw *fsnotify.Watcher, event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if w.roots[filepath.Dir(path)] {
				w.watchPluginDir(fw, path)
			}
			return
		}
	}

	if !w.isManifestPath(path) {
		// A removed plugin directory takes its nested manifest with it.
		if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
			w.forgetUnder(path)
		}
		return
	}

	switch {
	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		w.forget(path)
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		w.reload(path)
	}
}

// isManifestPath reports whether path is a manifest location the
// scanner would consider: any yaml file directly in a configured
// directory, or a manifest.yaml/manifest.yml one level down.
func (w *Watcher) isManifestPath(path string) bool {
	if !manifestfile.IsManifestPath(path) {
		return false
	}
	if w.roots[filepath.Dir(path)] {
		return true
	}
	switch filepath.Base(path) {
	case "manifest.yaml", "manifest.yml":
		return true
	}
	return false
}

// watchPluginDir starts watching a newly created plugin directory and
// picks up a manifest that may already be inside it, since its write
// event can predate the watch.
func (w *Watcher) watchPluginDir(fw *fsnotify.Watcher, dir string) {
	if err := fw.Add(dir); err != nil {
		w.log.Warn().Str("dir", dir).Err(err).Msg("cannot watch plugin directory")
		return
	}
	for _, name := range []string{"manifest.yaml", "manifest.yml"} {
		nested := filepath.Join(dir, name)
		if _, err := os.Stat(nested); err == nil {
			w.reload(nested)
			return
		}
	}
}

// reload replaces the registration backed by path with the file's
// current content. If the new content cannot be loaded or registered,
// the previous registration stays.
func (w *Watcher) reload(path string) {
	m, err := manifestfile.Load(path)
	if err != nil {
		w.log.Warn().Str("path", path).Err(err).Msg("manifest unreadable, keeping previous registration")
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	var prev *manifest.Manifest
	if prevName, ok := w.byPath[path]; ok {
		prev, _ = w.reg.Manifest(prevName)
		w.reg.Unregister(prevName)
		delete(w.byPath, path)
	}
	if err := w.reg.Register(m); err != nil {
		w.log.Warn().Str("path", path).Err(err).Msg("manifest rejected, keeping previous registration")
		if prev != nil && w.reg.Register(prev) == nil {
			w.byPath[path] = prev.Name
		}
		return
	}
	w.byPath[path] = m.Name
	w.log.Info().Str("plugin", m.Name).Str("path", path).Msg("plugin reloaded")
}

func (w *Watcher) forget(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if name, ok := w.byPath[path]; ok {
		w.reg.Unregister(name)
		delete(w.byPath, path)
		w.log.Info().Str("plugin", name).Str("path", path).Msg("plugin removed")
	}
}

// forgetUnder unregisters every manifest registered from inside dir.
func (w *Watcher) forgetUnder(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	prefix := dir + string(filepath.Separator)
	for path, name := range w.byPath {
		if strings.HasPrefix(path, prefix) {
			w.reg.Unregister(name)
			delete(w.byPath, path)
			w.log.Info().Str("plugin", name).Str("path", path).Msg("plugin removed")
		}
	}
}
