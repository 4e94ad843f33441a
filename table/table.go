package table

import (
	"strconv"

	"github.com/zeebo/errs"

	"github.com/opdss/nbkit/contracts/iterator"
)

// Error is the class of table shape errors.
var Error = errs.Class("table")

// Table is an in-memory dataset of named columns and rows of cells.
// Cells are nil, bool, int64, float64 or string.
type Table struct {
	columns []string
	index   map[string]int //列名到下标
	rows    [][]any
}

// New returns a table with the given columns and no rows. Repeated names get a
// ".N" suffix so every column stays addressable.
func New(columns ...string) *Table {
	t := &Table{
		columns: make([]string, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, c := range columns {
		name := c
		for n := 1; ; n++ {
			if _, dup := t.index[name]; !dup {
				break
			}
			name = c + "." + strconv.Itoa(n)
		}
		t.index[name] = len(t.columns)
		t.columns = append(t.columns, name)
	}
	return t
}

// FromRecords builds a table from row maps. Keys missing from a record become nil cells,
// keys not listed in columns are ignored.
func FromRecords(columns []string, records []map[string]any) *Table {
	t := New(columns...)
	for _, rec := range records {
		row := make([]any, len(t.columns))
		for i, c := range t.columns {
			row[i] = rec[c]
		}
		t.rows = append(t.rows, row)
	}
	return t
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.columns)
}

// IsEmpty reports whether the table holds no cells at all.
func (t *Table) IsEmpty() bool {
	return len(t.columns) == 0 || len(t.rows) == 0
}

// Append adds a row. The row must have one cell per column.
func (t *Table) Append(row ...any) error {
	if len(row) != len(t.columns) {
		return Error.New("row has %d cells, table has %d columns", len(row), len(t.columns))
	}
	t.rows = append(t.rows, append([]any(nil), row...))
	return nil
}

// Row returns the cells of row i. The slice must not be modified.
func (t *Table) Row(i int) []any {
	return t.rows[i]
}

// Value returns the cell at row i in column col.
func (t *Table) Value(i int, col string) (any, bool) {
	j, ok := t.index[col]
	if !ok || i < 0 || i >= len(t.rows) {
		return nil, false
	}
	return t.rows[i][j], true
}

// Column returns a copy of every cell in col.
func (t *Table) Column(col string) ([]any, bool) {
	j, ok := t.index[col]
	if !ok {
		return nil, false
	}
	out := make([]any, len(t.rows))
	for i := range t.rows {
		out[i] = t.rows[i][j]
	}
	return out, true
}

// Record returns row i keyed by column name.
func (t *Table) Record(i int) map[string]any {
	rec := make(map[string]any, len(t.columns))
	for j, c := range t.columns {
		rec[c] = t.rows[i][j]
	}
	return rec
}

// Rows returns an iterator over the rows.
func (t *Table) Rows() iterator.Iterator[[]any] {
	return &rowIterator{rows: t.rows}
}

// Strings renders row i with Render.
func (t *Table) Strings(i int) []string {
	out := make([]string, len(t.columns))
	for j, v := range t.rows[i] {
		out[j] = Render(v)
	}
	return out
}

// Equal reports whether both tables have the same columns and, cell by cell, the
// same kind of value with the same rendering. int64(2) and 2.0 differ, and so do
// the string "2" and int64(2).
func (t *Table) Equal(o *Table) bool {
	if t == nil || o == nil {
		return t == o
	}
	if len(t.columns) != len(o.columns) || len(t.rows) != len(o.rows) {
		return false
	}
	for i := range t.columns {
		if t.columns[i] != o.columns[i] {
			return false
		}
	}
	for i := range t.rows {
		for j := range t.rows[i] {
			a, b := t.rows[i][j], o.rows[i][j]
			if kindOf(a) != kindOf(b) || Render(a) != Render(b) {
				return false
			}
		}
	}
	return true
}

type rowIterator struct {
	rows  [][]any
	index int
}

func (it *rowIterator) Next() bool {
	return it.index < len(it.rows)
}

func (it *rowIterator) Value() []any {
	defer func() {
		it.index++
	}()
	if it.index < len(it.rows) {
		return it.rows[it.index]
	}
	return nil
}
