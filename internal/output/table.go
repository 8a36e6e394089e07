package output

import (
	"fmt"
	"reflect"
	"text/tabwriter"
)

// Table represents a pre-rendered table for table output formatting.
type Table struct {
	Headers []string   `json:"headers,omitempty" yaml:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty" yaml:"rows,omitempty"`
}

func (p *Printer) printTable(data interface{}) error {
	if table, ok := data.(Table); ok {
		return p.writeTable(table)
	}

	v := indirect(reflect.ValueOf(data))
	if !v.IsValid() {
		return nil
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return fmt.Errorf("table format requires a list of items")
	}
	if v.Len() == 0 {
		return nil
	}
	return p.writeTable(buildTable(v))
}

func (p *Printer) writeTable(t Table) error {
	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}

	writeRow(t.Headers)
	for _, row := range t.Rows {
		writeRow(row)
	}
	return w.Flush()
}

// buildTable uses the json field names of a struct slice as headers. Other
// element kinds get a single value column.
func buildTable(v reflect.Value) Table {
	first := indirect(v.Index(0))
	if first.Kind() != reflect.Struct {
		t := Table{Headers: []string{"value"}}
		for i := 0; i < v.Len(); i++ {
			t.Rows = append(t.Rows, []string{fmt.Sprint(v.Index(i).Interface())})
		}
		return t
	}

	fields := structFields(first.Type())
	t := Table{Headers: make([]string, 0, len(fields))}
	for _, f := range fields {
		t.Headers = append(t.Headers, f.name)
	}

	for i := 0; i < v.Len(); i++ {
		item := indirect(v.Index(i))
		if item.Kind() != reflect.Struct {
			t.Rows = append(t.Rows, []string{fmt.Sprint(v.Index(i).Interface())})
			continue
		}
		row := make([]string, 0, len(fields))
		for _, f := range fields {
			row = append(row, fmt.Sprint(item.Field(f.index).Interface()))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
