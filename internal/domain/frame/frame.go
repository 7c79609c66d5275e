// Package frame defines record sets: ordered columns, ordered rows and a
// row index, plus the geo variant that knows which columns hold geometries.
//
// Frames are treated as values. Every transformation returns a new frame
// and leaves the receiver untouched.
package frame

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/leengari/geojoin/internal/domain/data"
	"github.com/leengari/geojoin/internal/domain/errs"
)

// RecordSet is anything with rows, columns and a row index
type RecordSet interface {
	Len() int
	Columns() []string
	Index() Index
}

// Frame is a plain record set
type Frame struct {
	columns []string
	rows    []data.Row
	index   Index
}

// New builds a frame with a range index. Rows are copied; cells for
// columns a row does not carry read as nil.
func New(columns []string, rows []data.Row) (*Frame, error) {
	seen := make(map[string]bool, len(columns))
	for _, c := range columns {
		if seen[c] {
			return nil, &errs.ValueError{Param: "columns", Value: c, Reason: "duplicate column name"}
		}
		seen[c] = true
	}

	cols := make([]string, len(columns))
	copy(cols, columns)

	copied := make([]data.Row, len(rows))
	for i, r := range rows {
		copied[i] = r.Copy()
	}

	return &Frame{columns: cols, rows: copied, index: RangeIndex(len(rows))}, nil
}

// MustNew is New that panics on error
func MustNew(columns []string, rows []data.Row) *Frame {
	f, err := New(columns, rows)
	if err != nil {
		panic(err)
	}
	return f
}

// Len returns the number of rows
func (f *Frame) Len() int {
	return len(f.rows)
}

// Columns returns the column names in order
func (f *Frame) Columns() []string {
	out := make([]string, len(f.columns))
	copy(out, f.columns)
	return out
}

// HasColumn reports whether name is a column
func (f *Frame) HasColumn(name string) bool {
	for _, c := range f.columns {
		if c == name {
			return true
		}
	}
	return false
}

// Index returns the row index
func (f *Frame) Index() Index {
	return f.index
}

// Row returns the row at pos. The row is shared and must not be modified.
func (f *Frame) Row(pos int) data.Row {
	return f.rows[pos]
}

// Value returns one cell
func (f *Frame) Value(pos int, column string) interface{} {
	return f.rows[pos][column]
}

// Column returns every value of one column
func (f *Frame) Column(name string) ([]interface{}, error) {
	if !f.HasColumn(name) {
		return nil, &errs.ColumnNotFoundError{Column: name}
	}
	out := make([]interface{}, len(f.rows))
	for i, r := range f.rows {
		out[i] = r[name]
	}
	return out, nil
}

// Copy returns a deep copy of the row structure
func (f *Frame) Copy() *Frame {
	rows := make([]data.Row, len(f.rows))
	for i, r := range f.rows {
		rows[i] = r.Copy()
	}
	return &Frame{columns: f.Columns(), rows: rows, index: f.index}
}

// WithIndex replaces the row index
func (f *Frame) WithIndex(idx Index) (*Frame, error) {
	if idx.Len() != f.Len() {
		return nil, errors.Newf("index has %d labels, frame has %d rows", idx.Len(), f.Len())
	}
	out := f.Copy()
	out.index = idx
	return out, nil
}

// RenameIndex renames the index levels
func (f *Frame) RenameIndex(name IndexName) (*Frame, error) {
	idx, err := f.index.Renamed(name)
	if err != nil {
		return nil, err
	}
	out := f.Copy()
	out.index = idx
	return out, nil
}

// ResetIndex moves the index levels into leading columns and replaces the
// index with 0..n-1. Unnamed levels become "index" (or "level_0" when
// "index" is taken) for a scalar index and "level_<i>" for a composite one.
func (f *Frame) ResetIndex() (*Frame, error) {
	names := f.resetColumnNames()

	for _, n := range names {
		if f.HasColumn(n) {
			return nil, &errs.ValueError{
				Param:  "reset_index",
				Value:  n,
				Reason: fmt.Sprintf("cannot insert %s, already exists", n),
			}
		}
	}

	rows := make([]data.Row, len(f.rows))
	for i, r := range f.rows {
		row := r.Copy()
		label := f.index.Label(i)
		for j, n := range names {
			row[n] = label[j]
		}
		rows[i] = row
	}

	columns := make([]string, 0, len(names)+len(f.columns))
	columns = append(columns, names...)
	columns = append(columns, f.columns...)

	return &Frame{columns: columns, rows: rows, index: RangeIndex(len(rows))}, nil
}

func (f *Frame) resetColumnNames() []string {
	parts := f.index.Name().Parts()
	names := make([]string, len(parts))

	if !f.index.Name().IsComposite() {
		switch {
		case parts[0] != "":
			names[0] = parts[0]
		case f.HasColumn("index"):
			names[0] = "level_0"
		default:
			names[0] = "index"
		}
		return names
	}

	for i, p := range parts {
		if p == "" {
			p = fmt.Sprintf("level_%d", i)
		}
		names[i] = p
	}
	return names
}

// SetIndex moves columns into the index. One column gives a scalar index,
// several give a composite index named after them.
func (f *Frame) SetIndex(columns ...string) (*Frame, error) {
	if len(columns) == 0 {
		return nil, &errs.ValueError{Param: "set_index", Reason: "no columns given"}
	}
	for _, c := range columns {
		if !f.HasColumn(c) {
			return nil, &errs.ColumnNotFoundError{Column: c}
		}
	}

	labels := make([]data.Label, len(f.rows))
	for i, r := range f.rows {
		l := make(data.Label, len(columns))
		for j, c := range columns {
			l[j] = r[c]
		}
		labels[i] = l
	}

	name := ScalarName(columns[0])
	if len(columns) > 1 {
		name = CompositeName(columns...)
	}

	idx, err := NewIndex(name, labels)
	if err != nil {
		return nil, err
	}

	out := f.Drop(columns...)
	out.index = idx
	return out, nil
}

// Drop removes columns. Unknown names are ignored.
func (f *Frame) Drop(columns ...string) *Frame {
	drop := make(map[string]bool, len(columns))
	for _, c := range columns {
		drop[c] = true
	}

	kept := make([]string, 0, len(f.columns))
	for _, c := range f.columns {
		if !drop[c] {
			kept = append(kept, c)
		}
	}

	rows := make([]data.Row, len(f.rows))
	for i, r := range f.rows {
		row := make(data.Row, len(kept))
		for _, c := range kept {
			if v, ok := r[c]; ok {
				row[c] = v
			}
		}
		rows[i] = row
	}

	return &Frame{columns: kept, rows: rows, index: f.index}
}
