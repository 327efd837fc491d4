package manifest

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// Validate checks the static well-formedness of the manifest and
// returns every violation joined into a single error:
//
//   - command ids are unique, non-empty, and namespaced under the
//     manifest name;
//   - every reader/writer/sample_data/widget/menu contribution
//     references a declared command id;
//   - reader filename_patterns are non-empty, syntactically valid globs;
//   - writer filename_extensions begin with a dot;
//   - writer layer_types parse against the known layer vocabulary, with
//     at most one constraint per type.
func (m *Manifest) Validate() error {
	var issues []error
	fail := func(format string, args ...any) {
		issues = append(issues, fmt.Errorf(format, args...))
	}

	if m.Name == "" {
		fail("manifest name is required")
	}

	declared := make(map[string]bool, len(m.Contributions.Commands))
	for i, c := range m.Contributions.Commands {
		switch {
		case c.ID == "":
			fail("command %d: id is required", i)
		case declared[c.ID]:
			fail("command %q: duplicate id", c.ID)
		default:
			declared[c.ID] = true
			if m.Name != "" && Namespace(c.ID) != m.Name {
				fail("command %q: id must be namespaced under %q", c.ID, m.Name)
			}
		}
		if c.Title == "" {
			fail("command %q: title is required", c.ID)
		}
	}

	ref := func(kind string, i int, command string) {
		if command == "" {
			fail("%s %d: command is required", kind, i)
			return
		}
		if !declared[command] {
			fail("%s %d: command %q is not declared", kind, i, command)
		}
	}

	for i, r := range m.Contributions.Readers {
		ref("reader", i, r.Command)
		if len(r.FilenamePatterns) == 0 && !r.AcceptsDirectories {
			fail("reader %d: declares no filename_patterns and does not accept directories", i)
		}
		for _, p := range r.FilenamePatterns {
			if err := CheckPattern(p); err != nil {
				fail("reader %d: pattern %q: %v", i, p, err)
			}
		}
	}

	for i, w := range m.Contributions.Writers {
		ref("writer", i, w.Command)
		if len(w.LayerTypes) == 0 {
			fail("writer %d: layer_types is required", i)
		}
		seen := make(map[string]bool, len(w.LayerTypes))
		for _, lt := range w.LayerTypes {
			c, err := ParseLayerConstraint(lt)
			if err != nil {
				fail("writer %d: %v", i, err)
				continue
			}
			if seen[c.Type] {
				fail("writer %d: layer type %q constrained more than once", i, c.Type)
			}
			seen[c.Type] = true
		}
		for _, ext := range w.FilenameExtensions {
			if !strings.HasPrefix(ext, ".") {
				fail("writer %d: extension %q must begin with a dot", i, ext)
			}
		}
	}

	for i, s := range m.Contributions.SampleData {
		ref("sample_data", i, s.Command)
		if s.Key == "" {
			fail("sample_data %d: key is required", i)
		}
		if s.DisplayName == "" {
			fail("sample_data %d: display_name is required", i)
		}
	}

	for i, w := range m.Contributions.Widgets {
		ref("widget", i, w.Command)
		if w.DisplayName == "" {
			fail("widget %d: display_name is required", i)
		}
	}

	for menu, items := range m.Contributions.Menus {
		for i, item := range items {
			ref(fmt.Sprintf("menu %q item", menu), i, item.Command)
		}
	}

	return errors.Join(issues...)
}

// CheckPattern verifies that a glob pattern is well formed. The check
// is delegated to path.Match so that exactly the patterns the matcher
// rejects as malformed fail validation; path.Match reports a bad
// pattern regardless of the name it is matched against.
func CheckPattern(pattern string) error {
	if pattern == "" {
		return errors.New("pattern is empty")
	}
	if _, err := path.Match(pattern, ""); err != nil {
		return err
	}
	return nil
}
