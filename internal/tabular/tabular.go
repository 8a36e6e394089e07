// Package tabular reads the ICD-10-CM tabular XML, where the hierarchy is
// already given by nested diag elements.
package tabular

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/salmonumbrella/icdtree/internal/hierarchy"
)

type diag struct {
	Name  string `xml:"name"`
	Desc  string `xml:"desc"`
	Diags []diag `xml:"diag"`
}

type section struct {
	ID    string `xml:"id,attr"`
	Diags []diag `xml:"diag"`
}

// Summary describes what a read produced.
type Summary struct {
	Sections   int `json:"sections" yaml:"sections"`
	Codes      int `json:"codes" yaml:"codes"`
	Duplicates int `json:"duplicates" yaml:"duplicates"`
	Skipped    int `json:"skipped" yaml:"skipped"`
}

// ReadFile reads a tabular document from disk.
func ReadFile(path string) (*hierarchy.Forest, Summary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, Summary{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer file.Close()
	return Read(file)
}

// Read builds a forest from the diag elements of every section, at any
// depth of the document. Roots and children keep document order. A code seen
// a second time is dropped together with its subtree. Diag elements without a
// name are skipped.
func Read(r io.Reader) (*hierarchy.Forest, Summary, error) {
	var sum Summary
	asm := hierarchy.NewAssembler()
	dec := xml.NewDecoder(r)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, sum, fmt.Errorf("failed to parse tabular document: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "section" {
			continue
		}

		var sec section
		if err := dec.DecodeElement(&sec, &start); err != nil {
			return nil, sum, fmt.Errorf("failed to parse section %d: %w", sum.Sections+1, err)
		}
		sum.Sections++
		for _, d := range sec.Diags {
			if id, ok := addDiag(asm, d, &sum); ok {
				asm.AddRoot(id)
			}
		}
	}

	return asm.Forest(), sum, nil
}

func addDiag(asm *hierarchy.Assembler, d diag, sum *Summary) (hierarchy.NodeID, bool) {
	code := strings.TrimSpace(d.Name)
	if code == "" {
		sum.Skipped++
		return hierarchy.NoNode, false
	}
	if _, exists := asm.Lookup(code); exists {
		sum.Duplicates++
		return hierarchy.NoNode, false
	}

	n := hierarchy.Node{Code: code, Level: hierarchy.Level(code), Name: strings.TrimSpace(d.Desc)}
	if n.Name == "" {
		n.Name = hierarchy.Placeholder(code)
		n.Placeholder = true
	}
	id := asm.Add(n)
	sum.Codes++

	for _, child := range d.Diags {
		if childID, ok := addDiag(asm, child, sum); ok {
			asm.Attach(id, childID)
		}
	}
	return id, true
}
