package geometry

import (
	"encoding/hex"
	"testing"

	"github.com/paulmach/orb"
	"gotest.tools/v3/assert"
)

func TestParseHeuristic(t *testing.T) {
	point := MustParseWKT("POINT(1 2)")
	b, err := point.WKB()
	assert.NilError(t, err)

	tests := []struct {
		name  string
		input string
	}{
		{"wkt", "POINT(1 2)"},
		{"ewkt", "SRID=4326;POINT(1 2)"},
		{"hex wkb", hex.EncodeToString(b)},
		{"geojson", `{"type":"Point","coordinates":[1,2]}`},
		{"padded", "  POINT(1 2)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Parse(tt.input)
			assert.NilError(t, err)
			assert.Assert(t, g.Equal(point), "got %s", g)
		})
	}
}

func TestParseEWKTSRID(t *testing.T) {
	g, srid, err := ParseEWKT("SRID=3857;LINESTRING(0 0,1 1)")
	assert.NilError(t, err)
	assert.Equal(t, srid, 3857)
	assert.Equal(t, g.Type(), "LineString")

	_, _, err = ParseEWKT("SRID=3857 LINESTRING(0 0,1 1)")
	assert.ErrorContains(t, err, "failed to find ; character")
}

func TestParseEmpty(t *testing.T) {
	for _, s := range []string{"", "   ", "POINT EMPTY", "GEOMETRYCOLLECTION EMPTY", "polygon empty"} {
		g, err := Parse(s)
		assert.NilError(t, err)
		assert.Assert(t, g.IsEmpty(), "input %q", s)
	}
	assert.Equal(t, Empty().WKT(), "GEOMETRYCOLLECTION EMPTY")
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse("POINT(1")
	assert.Assert(t, err != nil)

	_, err = Parse("0zz")
	assert.ErrorContains(t, err, "decode hex")
}

func TestFromOrbEmptyCollections(t *testing.T) {
	g, err := FromOrb(orb.LineString{})
	assert.NilError(t, err)
	assert.Assert(t, g.IsEmpty())

	g, err = FromOrb(orb.Collection{orb.MultiPoint{}})
	assert.NilError(t, err)
	assert.Assert(t, g.IsEmpty())
}

func TestWKTRoundTrip(t *testing.T) {
	g := MustParseWKT("POINT(1 2)")
	assert.Equal(t, g.WKT(), "POINT(1 2)")
	assert.Equal(t, g.String(), "POINT(1 2)")

	b, ok := MustParseWKT("LINESTRING(0 0,2 3)").Bound()
	assert.Assert(t, ok)
	assert.DeepEqual(t, b, orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{2, 3}})
}

func TestIntersects(t *testing.T) {
	l0 := MustParseWKT("LINESTRING(0 0,2 2)")
	l1 := MustParseWKT("LINESTRING(1 0,1 3)")
	r0 := MustParseWKT("LINESTRING(1 0,3 4)")
	far := MustParseWKT("LINESTRING(10 10,11 11)")

	assert.Assert(t, l0.Intersects(r0))
	assert.Assert(t, l0.Intersects(l1))
	assert.Assert(t, !l0.Intersects(far))
	assert.Assert(t, !l0.Intersects(Empty()))
	assert.Assert(t, !Empty().Intersects(Empty()))
}

func TestContainsWithin(t *testing.T) {
	square := MustParseWKT("POLYGON((0 0,10 0,10 10,0 10,0 0))")
	inside := MustParseWKT("POINT(5 5)")
	edge := MustParseWKT("POINT(0 5)")
	outside := MustParseWKT("POINT(50 50)")

	ok, err := square.Contains(inside)
	assert.NilError(t, err)
	assert.Assert(t, ok)

	ok, err = square.Contains(edge)
	assert.NilError(t, err)
	assert.Assert(t, !ok, "boundary point is not contained")

	ok, err = square.Contains(outside)
	assert.NilError(t, err)
	assert.Assert(t, !ok)

	ok, err = inside.Within(square)
	assert.NilError(t, err)
	assert.Assert(t, ok)

	ok, err = square.Within(inside)
	assert.NilError(t, err)
	assert.Assert(t, !ok)
}

func TestPredicate(t *testing.T) {
	for _, p := range Predicates {
		parsed, err := ParsePredicate(p.String())
		assert.NilError(t, err)
		assert.Equal(t, parsed, p)
	}

	_, err := ParsePredicate("touches")
	assert.ErrorContains(t, err, "unknown spatial predicate")

	assert.Equal(t, PredicateContains.Converse(), PredicateWithin)
	assert.Equal(t, PredicateWithin.Converse(), PredicateContains)
	assert.Equal(t, PredicateIntersects.Converse(), PredicateIntersects)
}

func TestPredicateConverseAgrees(t *testing.T) {
	square := MustParseWKT("POLYGON((0 0,10 0,10 10,0 10,0 0))")
	pts := []Geometry{
		MustParseWKT("POINT(5 5)"),
		MustParseWKT("POINT(0 5)"),
		MustParseWKT("POINT(50 50)"),
	}

	for _, p := range Predicates {
		for _, pt := range pts {
			fwd, err := p.Eval(square, pt)
			assert.NilError(t, err)
			back, err := p.Converse().Eval(pt, square)
			assert.NilError(t, err)
			assert.Equal(t, fwd, back, "%s on %s", p, pt)
		}
	}
}

func TestFromValue(t *testing.T) {
	g, ok := FromValue(nil)
	assert.Assert(t, ok)
	assert.Assert(t, g.IsEmpty())

	p := MustParseWKT("POINT(1 1)")
	g, ok = FromValue(&p)
	assert.Assert(t, ok)
	assert.Assert(t, g.Equal(p))

	_, ok = FromValue("POINT(1 1)")
	assert.Assert(t, !ok)
}
