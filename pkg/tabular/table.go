// Package tabular holds an in-memory table of string cells and codecs that
// move it to and from CSV and spreadsheet streams.
package tabular

import (
	"fmt"
	"slices"
	"strconv"
)

// Table is a rectangular grid of string cells with named columns.
type Table struct {
	Columns []string
	Rows    [][]string
}

// New returns an empty table with the given column names.
func New(columns ...string) *Table {
	return &Table{Columns: slices.Clone(columns)}
}

// Append adds a row. The row must have one cell per column.
func (t *Table) Append(row ...string) error {
	if len(row) != len(t.Columns) {
		return fmt.Errorf("row has %d cells, table has %d columns", len(row), len(t.Columns))
	}
	t.Rows = append(t.Rows, slices.Clone(row))
	return nil
}

// NumRows returns the number of data rows, excluding the header.
func (t *Table) NumRows() int { return len(t.Rows) }

// NumColumns returns the number of columns.
func (t *Table) NumColumns() int { return len(t.Columns) }

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	return slices.Index(t.Columns, name)
}

// Column returns a copy of the cells of the named column.
func (t *Table) Column(name string) ([]string, bool) {
	i := t.ColumnIndex(name)
	if i < 0 {
		return nil, false
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out, true
}

// Validate reports the first row whose width differs from the header.
func (t *Table) Validate() error {
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d cells, table has %d columns", i+1, len(row), len(t.Columns))
		}
	}
	return nil
}

// positionalColumns names n columns "0", "1", ... for headerless input.
func positionalColumns(n int) []string {
	cols := make([]string, n)
	for i := range cols {
		cols[i] = strconv.Itoa(i)
	}
	return cols
}
