package sjoin

import (
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/leengari/geojoin/internal/geometry"
	"github.com/leengari/geojoin/internal/spatialindex"
)

// Pair is a (left position, right position) candidate
type Pair struct {
	Left  int
	Right int
}

// chooseIndexSide picks the side whose spatial index is used: the right
// side if its index already exists, or if the left has none and the right
// has more rows. Otherwise the left side.
func chooseIndexSide(leftHasIndex, rightHasIndex bool, leftRows, rightRows int) (indexRight bool) {
	return rightHasIndex || (!leftHasIndex && rightRows > leftRows)
}

// candidates queries idx with every non-empty geometry of the probing
// side. When indexRight is true idx covers right and left probes it, and
// the other way around otherwise. Pairs come back sorted.
func candidates(idx *spatialindex.Index, left, right []geometry.Geometry, indexRight bool) []Pair {
	pairs := make([]Pair, 0)

	probe := right
	if indexRight {
		probe = left
	}

	for pos, g := range probe {
		if g.IsEmpty() {
			continue
		}
		for _, hit := range idx.Query(g) {
			if indexRight {
				pairs = append(pairs, Pair{Left: pos, Right: hit})
			} else {
				pairs = append(pairs, Pair{Left: hit, Right: pos})
			}
		}
	}

	sortPairs(pairs)
	return pairs
}

func sortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Left != pairs[j].Left {
			return pairs[i].Left < pairs[j].Left
		}
		return pairs[i].Right < pairs[j].Right
	})
}

// refine keeps the pairs for which pred(left, right) holds
func refine(pairs []Pair, left, right []geometry.Geometry, pred geometry.Predicate) ([]Pair, error) {
	kept := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		ok, err := pred.Eval(left[p.Left], right[p.Right])
		if err != nil {
			return nil, errors.Wrapf(err, "evaluate %s on pair (%d, %d)", pred, p.Left, p.Right)
		}
		if ok {
			kept = append(kept, p)
		}
	}
	return kept, nil
}
