// Package codelist reads the list of codes a hierarchy is built from.
package codelist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/salmonumbrella/icdtree/internal/hierarchy"
)

// List is a parsed code list.
type List struct {
	// Codes in input order, duplicates included.
	Codes []string
	// Descriptions given inline after a tab. The first description for a
	// code wins.
	Descriptions hierarchy.Catalog
	// Duplicates counts repeated codes.
	Duplicates int
}

// ReadFile reads a code list from path, or from stdin when path is "-".
func ReadFile(path string, stdin io.Reader) (*List, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, fmt.Errorf("empty input source")
	}
	if trimmed == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		return Parse(stdin)
	}

	file, err := os.Open(trimmed)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", trimmed, err)
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads one code per line. Blank lines and lines starting with '#' are
// skipped. Text after the first tab is the code's description.
func Parse(r io.Reader) (*List, error) {
	list := &List{Descriptions: make(hierarchy.Catalog)}
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		// Split before trimming so a line with only a description keeps its
		// empty code.
		code, desc, _ := strings.Cut(scanner.Text(), "\t")
		code = strings.TrimSpace(code)
		desc = strings.TrimSpace(desc)
		if code == "" || strings.HasPrefix(code, "#") {
			continue
		}

		if seen[code] {
			list.Duplicates++
		}
		seen[code] = true
		list.Codes = append(list.Codes, code)

		if desc != "" {
			if _, exists := list.Descriptions[code]; !exists {
				list.Descriptions[code] = desc
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return list, nil
}

// FromCodes wraps a literal list of codes.
func FromCodes(codes []string) *List {
	list := &List{Codes: append([]string(nil), codes...), Descriptions: make(hierarchy.Catalog)}
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		if seen[code] {
			list.Duplicates++
		}
		seen[code] = true
	}
	return list
}

// Normalized returns a copy with every code rewritten to dotted form.
// Spellings that collapse to the same code count as duplicates, and the
// first description still wins.
func (l *List) Normalized() *List {
	out := &List{Codes: make([]string, 0, len(l.Codes)), Descriptions: make(hierarchy.Catalog)}
	seen := make(map[string]bool, len(l.Codes))
	for _, code := range l.Codes {
		norm := hierarchy.Normalize(code)
		if seen[norm] {
			out.Duplicates++
		}
		seen[norm] = true
		out.Codes = append(out.Codes, norm)

		if desc, ok := l.Descriptions[code]; ok {
			if _, exists := out.Descriptions[norm]; !exists {
				out.Descriptions[norm] = desc
			}
		}
	}
	return out
}
