package data

// Row represents a single record
// Key = column name, Value = cell value
type Row map[string]interface{}

// Copy creates a shallow copy of the row so callers can rename or drop
// keys without touching the source. Cell values are immutable.
func (r Row) Copy() Row {
	copy := make(Row, len(r))
	for k, v := range r {
		copy[k] = v
	}
	return copy
}

// Get returns the cell value and whether the column is present
func (r Row) Get(column string) (interface{}, bool) {
	v, ok := r[column]
	return v, ok
}
