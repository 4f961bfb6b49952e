// Package table provides the in-memory tabular dataset the pipeline stages
// pass between each other. A Table is an ordered header plus rows of string
// cells, the raw form a CSV file arrives in; transformations always return
// a new Table and never mutate their receiver.
package table

import (
	"fmt"
	"strconv"
	"strings"
)

// Table is an ordered collection of uniformly-schemed rows. Row order is
// insertion order; cells are kept as raw strings and parsed on access.
type Table struct {
	header []string
	index  map[string]int
	rows   [][]string
}

// New creates an empty table with the given header. Column names must be
// unique.
func New(header []string) (*Table, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column name: %s", name)
		}
		index[name] = i
	}
	return &Table{
		header: append([]string(nil), header...),
		index:  index,
		rows:   nil,
	}, nil
}

// Columns returns a copy of the header in column order
func (t *Table) Columns() []string {
	return append([]string(nil), t.header...)
}

// NumRows returns the number of data rows
func (t *Table) NumRows() int {
	return len(t.rows)
}

// NumColumns returns the number of columns
func (t *Table) NumColumns() int {
	return len(t.header)
}

// HasColumn reports whether the table carries the named column
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// ColumnIndex returns the position of the named column, or -1
func (t *Table) ColumnIndex(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// AppendRow adds a row. Short rows are padded with empty cells so every row
// matches the header width; long rows are rejected.
func (t *Table) AppendRow(cells []string) error {
	if len(cells) > len(t.header) {
		return fmt.Errorf("row has %d cells, header has %d columns", len(cells), len(t.header))
	}
	row := make([]string, len(t.header))
	copy(row, cells)
	t.rows = append(t.rows, row)
	return nil
}

// Row returns a view of the i-th data row
func (t *Table) Row(i int) Row {
	return Row{t: t, cells: t.rows[i]}
}

// Cell returns the raw cell value at (row, column name). The second return
// is false when the column does not exist.
func (t *Table) Cell(row int, column string) (string, bool) {
	i, ok := t.index[column]
	if !ok {
		return "", false
	}
	return t.rows[row][i], true
}

// SetCell rewrites one cell in place. It is the only mutating accessor and
// is reserved for the stage that owns the table it is building.
func (t *Table) SetCell(row int, column string, value string) error {
	i, ok := t.index[column]
	if !ok {
		return fmt.Errorf("unknown column: %s", column)
	}
	t.rows[row][i] = value
	return nil
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	out, _ := New(t.header)
	out.rows = make([][]string, len(t.rows))
	for i, row := range t.rows {
		out.rows[i] = append([]string(nil), row...)
	}
	return out
}

// AppendColumn returns a new table with an extra column holding the given
// values, one per row. It fails when the name is already taken or the value
// count does not match the row count.
func (t *Table) AppendColumn(name string, values []string) (*Table, error) {
	if t.HasColumn(name) {
		return nil, fmt.Errorf("column already exists: %s", name)
	}
	if len(values) != len(t.rows) {
		return nil, fmt.Errorf("column %s has %d values for %d rows", name, len(values), len(t.rows))
	}
	out, err := New(append(t.Columns(), name))
	if err != nil {
		return nil, err
	}
	out.rows = make([][]string, len(t.rows))
	for i, row := range t.rows {
		out.rows[i] = append(append([]string(nil), row...), values[i])
	}
	return out, nil
}

// IsMissing reports whether a raw cell counts as a missing value
func IsMissing(cell string) bool {
	switch strings.TrimSpace(cell) {
	case "", "NA", "N/A", "NaN", "nan", "null":
		return true
	}
	return false
}

// Row is a read-only view of one table row
type Row struct {
	t     *Table
	cells []string
}

// Get returns the raw cell under the named column, or "" when absent
func (r Row) Get(column string) string {
	i, ok := r.t.index[column]
	if !ok {
		return ""
	}
	return r.cells[i]
}

// Float parses the named cell as a float64
func (r Row) Float(column string) (float64, error) {
	raw := strings.TrimSpace(r.Get(column))
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", column, err)
	}
	return v, nil
}

// Int parses the named cell as an int64
func (r Row) Int(column string) (int64, error) {
	raw := strings.TrimSpace(r.Get(column))
	v, err := strconv.ParseInt(strings.ReplaceAll(raw, ",", ""), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %w", column, err)
	}
	return v, nil
}

// Cells returns a copy of the raw row cells in column order
func (r Row) Cells() []string {
	return append([]string(nil), r.cells...)
}
