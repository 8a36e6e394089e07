package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/salmonumbrella/icdtree/internal/hierarchy"
)

// WriteJSON renders f as indented JSON. Non-ASCII text and HTML characters
// are written as-is.
func WriteJSON(w io.Writer, f *hierarchy.Forest) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(NewDocument(f))
}

// ReadJSON parses a document written by WriteJSON.
func ReadJSON(r io.Reader) (*hierarchy.Forest, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode json document: %w", err)
	}
	return doc.Forest(), nil
}
