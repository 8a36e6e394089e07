package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// TSVSource answers lookups from a tab-separated file of code and name
// columns. A leading "code" header row is skipped and the first row for a
// code wins.
type TSVSource struct {
	entries map[string]string
}

// LoadTSV reads a TSV description file.
func LoadTSV(path string) (*TSVSource, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer file.Close()
	return ParseTSV(file)
}

// ParseTSV reads TSV rows from r.
func ParseTSV(r io.Reader) (*TSVSource, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	src := &TSVSource{entries: make(map[string]string)}
	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse tsv: %w", err)
		}

		code := strings.TrimSpace(record[0])
		if first {
			first = false
			if strings.EqualFold(code, "code") {
				continue
			}
		}
		if code == "" {
			continue
		}
		if _, exists := src.entries[code]; exists {
			continue
		}
		name := ""
		if len(record) > 1 {
			name = strings.TrimSpace(record[1])
		}
		src.entries[code] = name
	}
	return src, nil
}

// Lookup returns the row for code.
func (s *TSVSource) Lookup(_ context.Context, code string) (Entry, error) {
	name, ok := s.entries[code]
	if !ok {
		return Entry{}, fmt.Errorf("%s: %w", code, ErrNotFound)
	}
	return Entry{Code: code, Name: name}, nil
}

// Len returns the number of codes in the file.
func (s *TSVSource) Len() int {
	return len(s.entries)
}
