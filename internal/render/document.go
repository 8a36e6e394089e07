// Package render turns a code forest into JSON, XML, YAML and text, and reads
// rendered JSON and XML back into a forest.
//
// Every renderer walks the forest in pre-order and emits children in the
// order they were attached.
package render

import (
	"github.com/salmonumbrella/icdtree/internal/hierarchy"
)

// RootElement is the top-level key of every rendered document.
const RootElement = "icd10cm"

// Document is the JSON and YAML shape of a forest.
type Document struct {
	ICD10CM CodeList `json:"icd10cm" yaml:"icd10cm"`
}

// CodeList holds the root codes.
type CodeList struct {
	Codes []Code `json:"codes" yaml:"codes"`
}

// Code is one rendered node.
type Code struct {
	Code     string `json:"code" yaml:"code"`
	Name     string `json:"name" yaml:"name"`
	Level    int    `json:"level" yaml:"level"`
	Children []Code `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewDocument converts a forest into its rendered shape.
func NewDocument(f *hierarchy.Forest) Document {
	roots := f.Roots()
	codes := make([]Code, 0, len(roots))
	for _, root := range roots {
		codes = append(codes, newCode(f, root))
	}
	return Document{ICD10CM: CodeList{Codes: codes}}
}

func newCode(f *hierarchy.Forest, id hierarchy.NodeID) Code {
	n := f.Node(id)
	c := Code{Code: n.Code, Name: n.Name, Level: n.Level}
	for _, child := range f.Children(id) {
		c.Children = append(c.Children, newCode(f, child))
	}
	return c
}

// Forest rebuilds a forest from a rendered document. Levels and names are
// taken as written.
func (d Document) Forest() *hierarchy.Forest {
	asm := hierarchy.NewAssembler()
	for _, c := range d.ICD10CM.Codes {
		asm.AddRoot(addCode(asm, c))
	}
	return asm.Forest()
}

func addCode(asm *hierarchy.Assembler, c Code) hierarchy.NodeID {
	id := asm.Add(hierarchy.Node{
		Code:        c.Code,
		Name:        c.Name,
		Level:       c.Level,
		Placeholder: c.Name == hierarchy.Placeholder(c.Code),
	})
	for _, child := range c.Children {
		asm.Attach(id, addCode(asm, child))
	}
	return id
}
