package geometry

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Predicate is a binary spatial relationship
type Predicate int

const (
	PredicateIntersects Predicate = iota // a and b share at least one point
	PredicateContains                    // b lies inside a
	PredicateWithin                      // a lies inside b
)

// Predicates lists every predicate in declaration order
var Predicates = []Predicate{PredicateIntersects, PredicateContains, PredicateWithin}

// String returns the operator name used on the command line and in SQL
func (p Predicate) String() string {
	switch p {
	case PredicateIntersects:
		return "intersects"
	case PredicateContains:
		return "contains"
	case PredicateWithin:
		return "within"
	default:
		return fmt.Sprintf("Predicate(%d)", int(p))
	}
}

// ParsePredicate maps an operator name to its predicate
func ParsePredicate(s string) (Predicate, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "intersects":
		return PredicateIntersects, nil
	case "contains":
		return PredicateContains, nil
	case "within":
		return PredicateWithin, nil
	}
	return 0, errors.Newf("unknown spatial predicate %q", s)
}

// Converse returns the predicate q with q(b, a) == p(a, b)
func (p Predicate) Converse() Predicate {
	switch p {
	case PredicateContains:
		return PredicateWithin
	case PredicateWithin:
		return PredicateContains
	}
	return p
}

// Eval evaluates p(a, b)
func (p Predicate) Eval(a, b Geometry) (bool, error) {
	switch p {
	case PredicateIntersects:
		return a.Intersects(b), nil
	case PredicateContains:
		return a.Contains(b)
	case PredicateWithin:
		return a.Within(b)
	}
	return false, errors.Newf("unknown spatial predicate %d", int(p))
}
