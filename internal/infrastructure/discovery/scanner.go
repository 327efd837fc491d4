// Package discovery finds installed plugin manifests on the filesystem
// and keeps a contribution registry in sync with them.
package discovery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/voxelview/vx/internal/core/manifest"
	"github.com/voxelview/vx/internal/core/registry"
	"github.com/voxelview/vx/internal/infrastructure/config"
	"github.com/voxelview/vx/internal/infrastructure/logging"
	"github.com/voxelview/vx/internal/infrastructure/manifestfile"
)

// Problem records a manifest that could not be loaded or registered.
// Discovery skips problems instead of failing the whole scan.
type Problem struct {
	Path string
	Err  error
}

// Found is a successfully decoded manifest and where it came from.
type Found struct {
	Path     string
	Manifest *manifest.Manifest
}

// Scanner locates plugin manifests in a set of directories. A manifest
// is either a *.yaml/*.yml file directly in the directory or a
// <plugin>/manifest.yaml one level down.
type Scanner struct {
	dirs []string
}

// NewScanner creates a scanner over the given directories. Paths may
// use a leading ~/ for the home directory.
func NewScanner(dirs []string) *Scanner {
	expanded := make([]string, len(dirs))
	for i, d := range dirs {
		expanded[i] = config.ExpandPath(d)
	}
	return &Scanner{dirs: expanded}
}

// Scan walks all configured directories concurrently and decodes every
// manifest it finds. Missing directories are skipped; unreadable or
// malformed manifests are reported as problems.
func (s *Scanner) Scan(ctx context.Context) ([]Found, []Problem, error) {
	var (
		mu       sync.Mutex
		found    []Found
		problems []Problem
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, dir := range s.dirs {
		dir := dir
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, p := scanDir(dir)
			mu.Lock()
			found = append(found, f...)
			problems = append(problems, p...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	// Deterministic order regardless of directory scheduling.
	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
	sort.Slice(problems, func(i, j int) bool { return problems[i].Path < problems[j].Path })
	return found, problems, nil
}

// Populate scans and registers every valid manifest into reg.
// Registration conflicts become problems like any other bad manifest.
func (s *Scanner) Populate(ctx context.Context, reg *registry.Registry) ([]Found, []Problem, error) {
	found, problems, err := s.Scan(ctx)
	if err != nil {
		return nil, nil, err
	}

	log := logging.WithComponent("discovery")
	registered := found[:0]
	for _, f := range found {
		if err := reg.Register(f.Manifest); err != nil {
			problems = append(problems, Problem{Path: f.Path, Err: err})
			continue
		}
		log.Debug().Str("plugin", f.Manifest.Name).Str("path", f.Path).Msg("registered plugin")
		registered = append(registered, f)
	}
	for _, p := range problems {
		log.Warn().Str("path", p.Path).Err(p.Err).Msg("skipping manifest")
	}
	return registered, problems, nil
}

func scanDir(dir string) ([]Found, []Problem) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, []Problem{{Path: dir, Err: err}}
	}

	var (
		found    []Found
		problems []Problem
	)
	load := func(path string) {
		m, err := manifestfile.Load(path)
		if err != nil {
			problems = append(problems, Problem{Path: path, Err: err})
			return
		}
		if err := m.Validate(); err != nil {
			problems = append(problems, Problem{Path: path, Err: fmt.Errorf("invalid manifest: %w", err)})
			return
		}
		found = append(found, Found{Path: path, Manifest: m})
	}

	for _, entry := range entries {
		if entry.IsDir() {
			for _, name := range []string{"manifest.yaml", "manifest.yml"} {
				nested := filepath.Join(dir, entry.Name(), name)
				if _, err := os.Stat(nested); err == nil {
					load(nested)
					break
				}
			}
			continue
		}
		if manifestfile.IsManifestPath(entry.Name()) {
			load(filepath.Join(dir, entry.Name()))
		}
	}
	return found, problems
}
