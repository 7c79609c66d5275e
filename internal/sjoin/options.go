package sjoin

import (
	"github.com/leengari/geojoin/internal/domain/errs"
	"github.com/leengari/geojoin/internal/geometry"
)

// How is the relational join mode
type How string

const (
	HowInner How = "inner" // only rows with a match on both sides
	HowLeft  How = "left"  // every left row, NULLs for unmatched right columns
	HowRight How = "right" // every right row, NULLs for unmatched left columns
)

// String returns the mode name
func (h How) String() string {
	return string(h)
}

// Op is the spatial predicate name
type Op string

const (
	OpIntersects Op = "intersects"
	OpContains   Op = "contains"
	OpWithin     Op = "within"
)

var allowedHows = []string{string(HowLeft), string(HowRight), string(HowInner)}
var allowedOps = predicateNames()

func predicateNames() []string {
	names := make([]string, len(geometry.Predicates))
	for i, p := range geometry.Predicates {
		names[i] = p.String()
	}
	return names
}

// Options configures a join. Zero fields take their defaults.
type Options struct {
	How     How    // default inner
	Op      Op     // default intersects
	LSuffix string // default "left"
	RSuffix string // default "right"

	// KeepIndexColumn keeps the bookkeeping identifier column of the side
	// that does not provide the result index (index_right for inner and
	// left joins, index_left for right joins).
	KeepIndexColumn bool
}

// DefaultOptions returns inner/intersects with left/right suffixes
func DefaultOptions() Options {
	return Options{
		How:     HowInner,
		Op:      OpIntersects,
		LSuffix: "left",
		RSuffix: "right",
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.How == "" {
		o.How = d.How
	}
	if o.Op == "" {
		o.Op = d.Op
	}
	if o.LSuffix == "" {
		o.LSuffix = d.LSuffix
	}
	if o.RSuffix == "" {
		o.RSuffix = d.RSuffix
	}
	return o
}

func (o Options) validateHow() error {
	switch o.How {
	case HowInner, HowLeft, HowRight:
		return nil
	}
	return errs.NewInvalidChoice("how", string(o.How), allowedHows...)
}

func (o Options) predicate() (geometry.Predicate, error) {
	switch o.Op {
	case OpIntersects:
		return geometry.PredicateIntersects, nil
	case OpContains:
		return geometry.PredicateContains, nil
	case OpWithin:
		return geometry.PredicateWithin, nil
	}
	return 0, errs.NewInvalidChoice("op", string(o.Op), allowedOps...)
}

// indexColumn is the bookkeeping column holding a side's identifiers
func indexColumn(suffix string) string {
	return "index_" + suffix
}
