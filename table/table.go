// Package table provides a minimal in-memory columnar table: growable typed
// column builders, immutable columns with null tracking, and a table of
// equal-length columns in a fixed order.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Table is an ordered collection of equal-length columns with unique names.
type Table struct {
	cols  []*Column
	index map[string]int
}

// New builds a table from finished columns. All columns must have the same
// length and distinct names.
func New(cols ...*Column) (*Table, error) {
	t := &Table{cols: cols, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if c.Len() != cols[0].Len() {
			return nil, fmt.Errorf("table: column %q has %d rows, expected %d",
				c.Name(), c.Len(), cols[0].Len())
		}
		if _, dup := t.index[c.Name()]; dup {
			return nil, fmt.Errorf("table: duplicate column name %q", c.Name())
		}
		t.index[c.Name()] = i
	}
	return t, nil
}

// Shape returns (row count, column count).
func (t *Table) Shape() (int, int) {
	if len(t.cols) == 0 {
		return 0, 0
	}
	return t.cols[0].Len(), len(t.cols)
}

// Columns returns the columns in schema order.
func (t *Table) Columns() []*Column { return t.cols }

// Column returns the named column, or nil if absent.
func (t *Table) Column(name string) *Column {
	if i, ok := t.index[name]; ok {
		return t.cols[i]
	}
	return nil
}

// Names returns the column names in schema order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name()
	}
	return names
}

// Concat joins tables with identical schemas, preserving argument order.
func Concat(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, fmt.Errorf("table: nothing to concat")
	}
	width := len(tables[0].cols)
	for _, tb := range tables {
		if len(tb.cols) != width {
			return nil, fmt.Errorf("table: concat width mismatch: %d vs %d", len(tb.cols), width)
		}
	}
	out := make([]*Column, width)
	parts := make([]*Column, len(tables))
	for i := 0; i < width; i++ {
		for j, tb := range tables {
			parts[j] = tb.cols[i]
		}
		c, err := concatColumns(parts)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return New(out...)
}

// WriteCSV writes the table as CSV with a header row. Null cells are
// written as empty fields.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return err
	}
	rows, _ := t.Shape()
	rec := make([]string, len(t.cols))
	for i := 0; i < rows; i++ {
		for j, c := range t.cols {
			rec[j] = c.cellString(i)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// cellString formats cell i for text output; null becomes "".
func (c *Column) cellString(i int) string {
	if !c.present[i] {
		return ""
	}
	switch c.typ {
	case Bool:
		return strconv.FormatBool(c.boolVals[i])
	case Int64:
		return strconv.FormatInt(c.intVals[i], 10)
	case Float64:
		return strconv.FormatFloat(c.floatVals[i], 'g', -1, 64)
	default:
		return c.strVals[i]
	}
}
