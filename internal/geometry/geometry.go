// Package geometry holds the immutable geometry value stored in geometry
// columns. The planar model and the text/binary encodings come from orb;
// exact DE-9IM predicates are delegated to simplefeatures.
package geometry

import (
	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/encoding/wkt"
	sfgeom "github.com/peterstace/simplefeatures/geom"
)

// emptyWKT is how an empty geometry is rendered
const emptyWKT = "GEOMETRYCOLLECTION EMPTY"

// Geometry is an immutable geometry value. The zero value is the empty
// geometry, which is also what a NULL cell in a geometry column means.
type Geometry struct {
	g  orb.Geometry    // nil when empty
	sf sfgeom.Geometry // prepared once for predicate evaluation
}

// Empty returns the empty geometry
func Empty() Geometry {
	return Geometry{}
}

// FromOrb wraps an orb geometry. Geometries without coordinates become
// the empty geometry.
func FromOrb(g orb.Geometry) (Geometry, error) {
	if g == nil || orbIsEmpty(g) {
		return Empty(), nil
	}

	b, err := wkb.Marshal(g)
	if err != nil {
		return Geometry{}, errors.Wrapf(err, "geometry: encode %s", g.GeoJSONType())
	}

	sf, err := sfgeom.UnmarshalWKB(b)
	if err != nil {
		return Geometry{}, errors.Wrapf(err, "geometry: prepare %s", g.GeoJSONType())
	}

	return Geometry{g: g, sf: sf}, nil
}

// MustFromOrb is FromOrb that panics on error
func MustFromOrb(g orb.Geometry) Geometry {
	geom, err := FromOrb(g)
	if err != nil {
		panic(err)
	}
	return geom
}

func orbIsEmpty(g orb.Geometry) bool {
	switch v := g.(type) {
	case orb.LineString:
		return len(v) == 0
	case orb.Ring:
		return len(v) == 0
	case orb.Polygon:
		return len(v) == 0 || len(v[0]) == 0
	case orb.MultiPoint:
		return len(v) == 0
	case orb.MultiLineString:
		return len(v) == 0
	case orb.MultiPolygon:
		return len(v) == 0
	case orb.Collection:
		for _, c := range v {
			if !orbIsEmpty(c) {
				return false
			}
		}
		return true
	}
	return false
}

// IsEmpty reports whether the geometry has no points
func (g Geometry) IsEmpty() bool {
	return g.g == nil
}

// Orb returns the underlying orb geometry, nil when empty
func (g Geometry) Orb() orb.Geometry {
	return g.g
}

// Type returns the GeoJSON type name
func (g Geometry) Type() string {
	if g.g == nil {
		return "GeometryCollection"
	}
	return g.g.GeoJSONType()
}

// Bound returns the bounding box. ok is false for the empty geometry.
func (g Geometry) Bound() (b orb.Bound, ok bool) {
	if g.g == nil {
		return orb.Bound{}, false
	}
	return g.g.Bound(), true
}

// WKT renders the geometry as well-known text
func (g Geometry) WKT() string {
	if g.g == nil {
		return emptyWKT
	}
	return wkt.MarshalString(g.g)
}

// String implements fmt.Stringer
func (g Geometry) String() string {
	return g.WKT()
}

// WKB encodes the geometry as well-known binary
func (g Geometry) WKB() ([]byte, error) {
	if g.g == nil {
		return g.sf.AsBinary(), nil
	}
	b, err := wkb.Marshal(g.g)
	if err != nil {
		return nil, errors.Wrap(err, "geometry: encode wkb")
	}
	return b, nil
}

// Equal reports whether both geometries have the same type and coordinates
func (g Geometry) Equal(other Geometry) bool {
	if g.g == nil || other.g == nil {
		return g.g == nil && other.g == nil
	}
	return orb.Equal(g.g, other.g)
}

// Intersects reports whether the geometries share at least one point.
// The empty geometry intersects nothing.
func (g Geometry) Intersects(other Geometry) bool {
	if !g.boundsOverlap(other) {
		return false
	}
	return sfgeom.Intersects(g.sf, other.sf)
}

// Contains reports whether other lies inside g with at least one interior
// point in common.
func (g Geometry) Contains(other Geometry) (bool, error) {
	if !g.boundsOverlap(other) {
		return false, nil
	}
	ok, err := sfgeom.Contains(g.sf, other.sf)
	if err != nil {
		return false, errors.Wrap(err, "geometry: contains")
	}
	return ok, nil
}

// Within is Contains with the operands swapped
func (g Geometry) Within(other Geometry) (bool, error) {
	if !g.boundsOverlap(other) {
		return false, nil
	}
	ok, err := sfgeom.Within(g.sf, other.sf)
	if err != nil {
		return false, errors.Wrap(err, "geometry: within")
	}
	return ok, nil
}

func (g Geometry) boundsOverlap(other Geometry) bool {
	a, ok := g.Bound()
	if !ok {
		return false
	}
	b, ok := other.Bound()
	if !ok {
		return false
	}
	return a.Intersects(b)
}

// FromValue interprets a geometry column cell. nil cells are empty.
// ok is false for values of any other type.
func FromValue(v interface{}) (g Geometry, ok bool) {
	switch x := v.(type) {
	case nil:
		return Empty(), true
	case Geometry:
		return x, true
	case *Geometry:
		if x == nil {
			return Empty(), true
		}
		return *x, true
	}
	return Geometry{}, false
}
