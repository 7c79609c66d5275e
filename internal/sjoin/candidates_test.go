package sjoin

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/leengari/geojoin/internal/geometry"
	"github.com/leengari/geojoin/internal/spatialindex"
)

func TestChooseIndexSide(t *testing.T) {
	tests := []struct {
		name                string
		leftHas, rightHas   bool
		leftRows, rightRows int
		wantRight           bool
	}{
		{"right already indexed", false, true, 10, 1, true},
		{"both indexed", true, true, 10, 1, true},
		{"left indexed", true, false, 1, 10, false},
		{"right larger", false, false, 1, 10, true},
		{"equal sizes", false, false, 5, 5, false},
		{"left larger", false, false, 10, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := chooseIndexSide(tt.leftHas, tt.rightHas, tt.leftRows, tt.rightRows)
			assert.Equal(t, got, tt.wantRight)
		})
	}
}

func TestCandidatesBothDirectionsAgree(t *testing.T) {
	left := []geometry.Geometry{
		geometry.MustParseWKT("LINESTRING(0 0,2 2)"),
		geometry.Empty(),
		geometry.MustParseWKT("POINT(50 50)"),
	}
	right := []geometry.Geometry{
		geometry.MustParseWKT("LINESTRING(1 0,3 4)"),
		geometry.MustParseWKT("POINT(50 50)"),
		geometry.Empty(),
	}

	ridx, err := spatialindex.Build(right)
	assert.NilError(t, err)
	lidx, err := spatialindex.Build(left)
	assert.NilError(t, err)

	want := []Pair{{Left: 0, Right: 0}, {Left: 2, Right: 1}}
	assert.DeepEqual(t, candidates(ridx, left, right, true), want)
	assert.DeepEqual(t, candidates(lidx, left, right, false), want)
}

func TestCandidatesEmptyIsNotNil(t *testing.T) {
	idx, err := spatialindex.Build(nil)
	assert.NilError(t, err)

	pairs := candidates(idx, []geometry.Geometry{geometry.MustParseWKT("POINT(0 0)")}, nil, true)
	assert.Assert(t, pairs != nil)
	assert.Equal(t, len(pairs), 0)
}

func TestRefineDropsBoundingBoxFalsePositives(t *testing.T) {
	// the point sits inside the line's bounding box but off the line
	left := []geometry.Geometry{geometry.MustParseWKT("LINESTRING(0 0,10 10)")}
	right := []geometry.Geometry{
		geometry.MustParseWKT("POINT(8 2)"),
		geometry.MustParseWKT("POINT(5 5)"),
	}

	pairs := []Pair{{0, 0}, {0, 1}}
	kept, err := refine(pairs, left, right, geometry.PredicateIntersects)
	assert.NilError(t, err)
	assert.DeepEqual(t, kept, []Pair{{0, 1}})
}
