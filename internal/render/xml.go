package render

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/salmonumbrella/icdtree/internal/hierarchy"
)

type xmlDocument struct {
	XMLName xml.Name  `xml:"icd10cm"`
	Codes   []xmlCode `xml:"code"`
}

type xmlCode struct {
	Value    string       `xml:"value,attr"`
	Level    int          `xml:"level,attr"`
	Name     string       `xml:"name"`
	Children *xmlChildren `xml:"children,omitempty"`
}

type xmlChildren struct {
	Codes []xmlCode `xml:"code"`
}

// WriteXML renders f as an indented XML document with a declaration.
func WriteXML(w io.Writer, f *hierarchy.Forest) error {
	doc := xmlDocument{}
	for _, root := range f.Roots() {
		doc.Codes = append(doc.Codes, newXMLCode(f, root))
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode xml document: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func newXMLCode(f *hierarchy.Forest, id hierarchy.NodeID) xmlCode {
	n := f.Node(id)
	c := xmlCode{Value: n.Code, Level: n.Level, Name: n.Name}
	children := f.Children(id)
	if len(children) == 0 {
		return c
	}
	c.Children = &xmlChildren{}
	for _, child := range children {
		c.Children.Codes = append(c.Children.Codes, newXMLCode(f, child))
	}
	return c
}

// ReadXML parses a document written by WriteXML.
func ReadXML(r io.Reader) (*hierarchy.Forest, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode xml document: %w", err)
	}
	return Document{ICD10CM: CodeList{Codes: fromXMLCodes(doc.Codes)}}.Forest(), nil
}

func fromXMLCodes(in []xmlCode) []Code {
	if len(in) == 0 {
		return nil
	}
	out := make([]Code, 0, len(in))
	for _, c := range in {
		code := Code{Code: c.Value, Name: c.Name, Level: c.Level}
		if c.Children != nil {
			code.Children = fromXMLCodes(c.Children.Codes)
		}
		out = append(out, code)
	}
	return out
}
