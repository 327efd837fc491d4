// Package match implements the contribution matching semantics of the
// plugin manifest: case-sensitive shell-style glob matching for reader
// filename patterns and case-sensitive suffix matching for writer
// filename extensions.
package match

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/voxelview/vx/internal/core/manifest"
)

// Pattern reports whether the filename component of p matches the glob
// pattern. Matching is case-sensitive: "sample.PNG" does not match
// "*.png". Malformed patterns match nothing.
func Pattern(pattern, p string) bool {
	ok, err := path.Match(pattern, filepath.Base(filepath.ToSlash(p)))
	return err == nil && ok
}

// ReaderAccepts reports whether a reader contribution accepts the given
// path, returning the first matching pattern. Directories only match
// readers that accept directories; for those, glob patterns are not
// consulted.
func ReaderAccepts(r manifest.Reader, p string, isDir bool) (pattern string, ok bool) {
	if isDir {
		return "", r.AcceptsDirectories
	}
	for _, pat := range r.FilenamePatterns {
		if Pattern(pat, p) {
			return pat, true
		}
	}
	return "", false
}

// WriterAccepts reports whether a writer contribution can produce the
// given output path. Extensions are matched as case-sensitive suffixes;
// a writer with no declared extensions accepts any path.
func WriterAccepts(w manifest.Writer, p string) bool {
	if len(w.FilenameExtensions) == 0 {
		return true
	}
	for _, ext := range w.FilenameExtensions {
		if strings.HasSuffix(p, ext) {
			return true
		}
	}
	return false
}

// WriterHandlesLayers reports whether a writer's layer constraints
// cover a set of layers, given as a count per layer-type tag. Every
// present type must be constrained and every constraint's multiplicity
// must be satisfied by the corresponding count.
func WriterHandlesLayers(w manifest.Writer, counts map[string]int) bool {
	constrained := make(map[string]bool, len(w.LayerTypes))
	for _, lt := range w.LayerTypes {
		c, err := manifest.ParseLayerConstraint(lt)
		if err != nil {
			return false
		}
		constrained[c.Type] = true
		if !c.Satisfied(counts[c.Type]) {
			return false
		}
	}
	for typ, n := range counts {
		if n > 0 && !constrained[typ] {
			return false
		}
	}
	return true
}

// Specificity scores a glob pattern for ranking competing readers: the
// number of literal characters in the pattern. Wildcards count nothing
// and a character class counts one, so a plain filename outranks
// "*.tif", which outranks "*".
func Specificity(pattern string) int {
	n := 0
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*', '?':
		case '[':
			for i < len(pattern) && pattern[i] != ']' {
				if pattern[i] == '\\' {
					i++
				}
				i++
			}
			n++
		case '\\':
			i++
			n++
		default:
			n++
		}
	}
	return n
}

// CountLayers folds a list of layer-type tags into a count per type.
func CountLayers(types []string) map[string]int {
	counts := make(map[string]int, len(types))
	for _, t := range types {
		counts[t]++
	}
	return counts
}
