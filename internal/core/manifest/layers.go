package manifest

import (
	"fmt"
	"strings"
)

// LayerTypes is the vocabulary of layer-type tags a writer constraint
// may reference.
var LayerTypes = []string{
	"image",
	"labels",
	"points",
	"shapes",
	"surface",
	"tracks",
	"vectors",
}

// LayerConstraint is a parsed writer layer_types entry: a layer type
// plus how many layers of that type the writer accepts. Max < 0 means
// unbounded.
type LayerConstraint struct {
	Type string
	Min  int
	Max  int
}

// ParseLayerConstraint parses a layer_types entry. A bare type means
// exactly one layer; the suffixes follow glob multiplicity: "image+"
// one or more, "image?" zero or one, "image*" zero or more.
func ParseLayerConstraint(s string) (LayerConstraint, error) {
	c := LayerConstraint{Type: s, Min: 1, Max: 1}
	switch {
	case strings.HasSuffix(s, "+"):
		c = LayerConstraint{Type: strings.TrimSuffix(s, "+"), Min: 1, Max: -1}
	case strings.HasSuffix(s, "?"):
		c = LayerConstraint{Type: strings.TrimSuffix(s, "?"), Min: 0, Max: 1}
	case strings.HasSuffix(s, "*"):
		c = LayerConstraint{Type: strings.TrimSuffix(s, "*"), Min: 0, Max: -1}
	}

	for _, known := range LayerTypes {
		if c.Type == known {
			return c, nil
		}
	}
	return LayerConstraint{}, fmt.Errorf("unknown layer type %q", s)
}

// Satisfied reports whether a count of layers of the constraint's type
// falls within its bounds.
func (c LayerConstraint) Satisfied(count int) bool {
	if count < c.Min {
		return false
	}
	return c.Max < 0 || count <= c.Max
}
