package spatialindex

import (
	"testing"

	"github.com/paulmach/orb"
	"gotest.tools/v3/assert"

	"github.com/leengari/geojoin/internal/geometry"
)

func TestQueryOverlap(t *testing.T) {
	geoms := []geometry.Geometry{
		geometry.MustParseWKT("LINESTRING(1 0,3 4)"),
		geometry.MustParseWKT("LINESTRING(0 0,6 7)"),
		geometry.MustParseWKT("POINT(100 100)"),
	}

	idx, err := Build(geoms)
	assert.NilError(t, err)
	assert.Equal(t, idx.Len(), 3)

	assert.DeepEqual(t, idx.Query(geometry.MustParseWKT("LINESTRING(0 0,2 2)")), []int{0, 1})
	assert.DeepEqual(t, idx.Query(geometry.MustParseWKT("POINT(100 100)")), []int{2})
	assert.DeepEqual(t, idx.Query(geometry.MustParseWKT("POINT(50 50)")), []int{})
}

func TestQueryTouchingBoxes(t *testing.T) {
	idx, err := Build([]geometry.Geometry{
		geometry.MustParseWKT("POLYGON((0 0,1 0,1 1,0 1,0 0))"),
	})
	assert.NilError(t, err)

	// shares only the corner (1 1)
	assert.DeepEqual(t, idx.Query(geometry.MustParseWKT("POLYGON((1 1,2 1,2 2,1 2,1 1))")), []int{0})
}

func TestEmptyGeometriesAreSkipped(t *testing.T) {
	idx, err := Build([]geometry.Geometry{
		geometry.Empty(),
		geometry.MustParseWKT("POINT(1 1)"),
	})
	assert.NilError(t, err)
	assert.Equal(t, idx.Len(), 1)

	assert.DeepEqual(t, idx.Query(geometry.MustParseWKT("POINT(1 1)")), []int{1})
	assert.DeepEqual(t, idx.Query(geometry.Empty()), []int{})
}

func TestEmptyIndex(t *testing.T) {
	idx, err := Build(nil)
	assert.NilError(t, err)
	assert.Equal(t, idx.Len(), 0)
	assert.DeepEqual(t, idx.Query(geometry.MustParseWKT("POINT(0 0)")), []int{})
}

func TestManyGeometries(t *testing.T) {
	geoms := make([]geometry.Geometry, 0, 200)
	for i := 0; i < 200; i++ {
		g, err := geometry.FromOrb(orb.Point{float64(i), float64(i)})
		assert.NilError(t, err)
		geoms = append(geoms, g)
	}

	idx, err := Build(geoms)
	assert.NilError(t, err)
	assert.DeepEqual(t, idx.Query(geometry.MustParseWKT("LINESTRING(10 10,12 12)")), []int{10, 11, 12})
}
