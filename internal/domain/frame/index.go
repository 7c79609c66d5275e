package frame

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/leengari/geojoin/internal/domain/data"
)

// IndexName names the levels of a row index. A scalar index has one
// (possibly empty) name; a composite index has one name per level.
type IndexName struct {
	parts     []string
	composite bool
}

// ScalarName names a single-level index. "" means unnamed.
func ScalarName(name string) IndexName {
	return IndexName{parts: []string{name}}
}

// CompositeName names a multi-level index
func CompositeName(names ...string) IndexName {
	parts := make([]string, len(names))
	copy(parts, names)
	return IndexName{parts: parts, composite: true}
}

// IsComposite reports whether the index has named levels
func (n IndexName) IsComposite() bool {
	return n.composite
}

// Arity returns the number of levels
func (n IndexName) Arity() int {
	if len(n.parts) == 0 {
		return 1
	}
	return len(n.parts)
}

// Name returns the name of a scalar index ("" when unnamed or composite)
func (n IndexName) Name() string {
	if n.composite || len(n.parts) == 0 {
		return ""
	}
	return n.parts[0]
}

// Parts returns the level names
func (n IndexName) Parts() []string {
	if len(n.parts) == 0 {
		return []string{""}
	}
	out := make([]string, len(n.parts))
	copy(out, n.parts)
	return out
}

// Equal compares names level by level
func (n IndexName) Equal(other IndexName) bool {
	if n.IsComposite() != other.IsComposite() {
		return false
	}
	a, b := n.Parts(), other.Parts()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (n IndexName) String() string {
	if n.composite {
		return "(" + strings.Join(n.parts, ", ") + ")"
	}
	return n.Name()
}

// Index holds the identifier of every row
type Index struct {
	name   IndexName
	labels []data.Label
}

// NewIndex builds an index. Every label must have the arity of name.
func NewIndex(name IndexName, labels []data.Label) (Index, error) {
	arity := name.Arity()
	out := make([]data.Label, len(labels))
	for i, l := range labels {
		if len(l) != arity {
			return Index{}, errors.Newf("index label %d has %d parts, index %q has %d levels",
				i, len(l), name.String(), arity)
		}
		c := make(data.Label, len(l))
		copy(c, l)
		out[i] = c
	}
	return Index{name: name, labels: out}, nil
}

// RangeIndex returns the unnamed index 0..n-1
func RangeIndex(n int) Index {
	labels := make([]data.Label, n)
	for i := range labels {
		labels[i] = data.ScalarLabel(int64(i))
	}
	return Index{name: ScalarName(""), labels: labels}
}

// Name returns the level names
func (idx Index) Name() IndexName {
	return idx.name
}

// Len returns the number of labels
func (idx Index) Len() int {
	return len(idx.labels)
}

// Label returns the identifier at position pos
func (idx Index) Label(pos int) data.Label {
	return idx.labels[pos]
}

// Labels returns a copy of all identifiers
func (idx Index) Labels() []data.Label {
	out := make([]data.Label, len(idx.labels))
	copy(out, idx.labels)
	return out
}

// Renamed returns the same labels under a new name of equal arity
func (idx Index) Renamed(name IndexName) (Index, error) {
	if name.Arity() != idx.name.Arity() {
		return Index{}, errors.Newf("cannot rename %d-level index with %d names",
			idx.name.Arity(), name.Arity())
	}
	return Index{name: name, labels: idx.labels}, nil
}

// IsRange reports whether the index is the unnamed 0..n-1 sequence
func (idx Index) IsRange() bool {
	if idx.name.IsComposite() || idx.name.Name() != "" {
		return false
	}
	for i, l := range idx.labels {
		if v, ok := l.Scalar().(int64); !ok || v != int64(i) {
			return false
		}
	}
	return true
}
