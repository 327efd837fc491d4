package manifest

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Decode reads a single manifest document from r. Unknown fields are
// rejected so typos in contribution keys surface as errors instead of
// silently dropped contributions.
func Decode(r io.Reader) (*Manifest, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if m.Name == "" {
		return nil, fmt.Errorf("decode manifest: missing required field %q", "name")
	}
	return &m, nil
}

// Parse decodes a manifest from raw bytes.
func Parse(data []byte) (*Manifest, error) {
	return Decode(bytes.NewReader(data))
}

// Encode writes m to w as YAML. Field order follows the struct
// declaration, so encoding a decoded manifest yields a normalized
// document with identical content.
func (m *Manifest) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return enc.Close()
}

// MarshalBytes returns the normalized YAML rendering of m.
func (m *Manifest) MarshalBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
