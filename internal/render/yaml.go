package render

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/icdtree/internal/hierarchy"
)

// WriteYAML renders f as YAML with the same shape as the JSON document.
func WriteYAML(w io.Writer, f *hierarchy.Forest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(f)); err != nil {
		_ = enc.Close()
		return fmt.Errorf("encode yaml document: %w", err)
	}
	return enc.Close()
}
