package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/salmonumbrella/icdtree/internal/hierarchy"
)

// Format is a document format written by the build and convert commands.
type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
	FormatYAML Format = "yaml"
)

// BaseName is the file name, without extension, of every written document.
const BaseName = "icd10cm_hierarchy"

// ParseFormats expands a --format value. "both" selects JSON and XML, "all"
// adds YAML. A comma-separated list is accepted.
func ParseFormats(s string) ([]Format, error) {
	var formats []Format
	seen := map[Format]bool{}
	add := func(f Format) {
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}

	for _, part := range strings.Split(s, ",") {
		switch Format(strings.ToLower(strings.TrimSpace(part))) {
		case "both", "":
			add(FormatJSON)
			add(FormatXML)
		case "all":
			add(FormatJSON)
			add(FormatXML)
			add(FormatYAML)
		case FormatJSON:
			add(FormatJSON)
		case FormatXML:
			add(FormatXML)
		case FormatYAML, "yml":
			add(FormatYAML)
		default:
			return nil, fmt.Errorf("invalid --format %q (expected json|xml|yaml|both|all)", part)
		}
	}
	return formats, nil
}

// FileName returns the document file name for a format.
func (f Format) FileName() string {
	return BaseName + "." + string(f)
}

// ContentType returns the MIME type used when uploading a document.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatXML:
		return "application/xml"
	case FormatYAML:
		return "application/yaml"
	default:
		return "application/octet-stream"
	}
}

// Write renders f in the given format.
func Write(w io.Writer, format Format, f *hierarchy.Forest) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, f)
	case FormatXML:
		return WriteXML(w, f)
	case FormatYAML:
		return WriteYAML(w, f)
	default:
		return fmt.Errorf("unsupported document format: %s", format)
	}
}

// Read parses a rendered document, picking the decoder from the file name.
func Read(r io.Reader, name string) (*hierarchy.Forest, error) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".json"):
		return ReadJSON(r)
	case strings.HasSuffix(lower, ".xml"):
		return ReadXML(r)
	default:
		return nil, fmt.Errorf("unsupported document %s (expected .json or .xml)", name)
	}
}
