package data

import (
	"fmt"
	"strings"
)

// Label is the identifier of one row. A scalar index yields labels of
// length 1, a composite index yields one part per level.
type Label []interface{}

// ScalarLabel wraps a single identifier value
func ScalarLabel(v interface{}) Label {
	return Label{v}
}

// Arity returns the number of parts
func (l Label) Arity() int {
	return len(l)
}

// Scalar returns the only part of a scalar label
func (l Label) Scalar() interface{} {
	if len(l) != 1 {
		return nil
	}
	return l[0]
}

// IsNull reports whether every part is nil
func (l Label) IsNull() bool {
	for _, p := range l {
		if p != nil {
			return false
		}
	}
	return true
}

// Equal compares labels part by part
func (l Label) Equal(other Label) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders scalar labels bare and composite ones as a tuple
func (l Label) String() string {
	if len(l) == 1 {
		return fmt.Sprint(l[0])
	}
	parts := make([]string, len(l))
	for i, p := range l {
		parts[i] = fmt.Sprint(p)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
