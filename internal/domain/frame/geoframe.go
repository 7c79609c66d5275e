package frame

import (
	"fmt"
	"sync"

	"github.com/leengari/geojoin/internal/domain/errs"
	"github.com/leengari/geojoin/internal/geometry"
	"github.com/leengari/geojoin/internal/spatialindex"
)

// GeoColumnSpec declares a geometry column
type GeoColumnSpec struct {
	Name string
	CRS  string // e.g. "EPSG:4326"; empty when unknown
}

// GeoColumn is a geometry column with its lazily built spatial index
type GeoColumn struct {
	Name string
	CRS  string

	mu     sync.Mutex
	sindex *spatialindex.Index
}

// HasIndex reports whether the spatial index has been built
func (c *GeoColumn) HasIndex() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sindex != nil
}

// GeoFrame is a record set with one or more geometry columns. Geometry
// cells are geometry.Geometry values or nil.
type GeoFrame struct {
	*Frame
	geoms []*GeoColumn
}

// NewGeoFrame marks columns of f as geometry columns. Text cells are
// decoded with geometry.Parse; any other non-geometry value is an error.
func NewGeoFrame(f *Frame, specs ...GeoColumnSpec) (*GeoFrame, error) {
	out := f.Copy()
	cols := make([]*GeoColumn, 0, len(specs))
	seen := make(map[string]bool, len(specs))

	for _, s := range specs {
		if !f.HasColumn(s.Name) {
			return nil, &errs.ColumnNotFoundError{Column: s.Name}
		}
		if seen[s.Name] {
			return nil, &errs.ValueError{Param: "geometry", Value: s.Name, Reason: "duplicate geometry column"}
		}
		seen[s.Name] = true

		for pos, row := range out.rows {
			g, err := asGeometry(row[s.Name])
			if err != nil {
				return nil, &errs.GeometryError{Row: pos, Column: s.Name, Value: textOf(row[s.Name]), Err: err}
			}
			row[s.Name] = g
		}
		cols = append(cols, &GeoColumn{Name: s.Name, CRS: s.CRS})
	}

	return &GeoFrame{Frame: out, geoms: cols}, nil
}

// MustNewGeoFrame is NewGeoFrame that panics on error
func MustNewGeoFrame(f *Frame, specs ...GeoColumnSpec) *GeoFrame {
	gf, err := NewGeoFrame(f, specs...)
	if err != nil {
		panic(err)
	}
	return gf
}

func asGeometry(v interface{}) (interface{}, error) {
	if g, ok := geometry.FromValue(v); ok {
		if v == nil {
			return nil, nil
		}
		return g, nil
	}
	switch x := v.(type) {
	case string:
		return geometry.Parse(x)
	case []byte:
		return geometry.ParseWKB(x)
	}
	return nil, &errs.TypeError{Param: "geometry cell", Expected: "geometry, text or wkb", Got: fmt.Sprintf("%T", v)}
}

func textOf(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// GeometryColumns returns the geometry column names in declaration order
func (g *GeoFrame) GeometryColumns() []string {
	out := make([]string, len(g.geoms))
	for i, c := range g.geoms {
		out[i] = c.Name
	}
	return out
}

// GeoColumn returns the geometry column called name
func (g *GeoFrame) GeoColumn(name string) (*GeoColumn, bool) {
	for _, c := range g.geoms {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// IsGeometryColumn reports whether name is a geometry column
func (g *GeoFrame) IsGeometryColumn(name string) bool {
	_, ok := g.GeoColumn(name)
	return ok
}

// CRS returns the CRS of a geometry column ("" if unknown)
func (g *GeoFrame) CRS(name string) string {
	if c, ok := g.GeoColumn(name); ok {
		return c.CRS
	}
	return ""
}

// Specs returns the geometry column declarations
func (g *GeoFrame) Specs() []GeoColumnSpec {
	out := make([]GeoColumnSpec, len(g.geoms))
	for i, c := range g.geoms {
		out[i] = GeoColumnSpec{Name: c.Name, CRS: c.CRS}
	}
	return out
}

// Geometry returns one geometry cell
func (g *GeoFrame) Geometry(pos int, column string) geometry.Geometry {
	geom, _ := geometry.FromValue(g.Value(pos, column))
	return geom
}

// Geometries returns every geometry of a geometry column
func (g *GeoFrame) Geometries(column string) ([]geometry.Geometry, error) {
	if !g.IsGeometryColumn(column) {
		if !g.HasColumn(column) {
			return nil, &errs.ColumnNotFoundError{Column: column}
		}
		return nil, errs.NewNotGeometryColumn("column", column)
	}
	out := make([]geometry.Geometry, g.Len())
	for i := range out {
		out[i] = g.Geometry(i, column)
	}
	return out, nil
}

// HasSpatialIndex reports whether the spatial index of column is built
func (g *GeoFrame) HasSpatialIndex(column string) bool {
	c, ok := g.GeoColumn(column)
	return ok && c.HasIndex()
}

// SpatialIndex returns the spatial index of column, building it on first use
func (g *GeoFrame) SpatialIndex(column string) (*spatialindex.Index, error) {
	c, ok := g.GeoColumn(column)
	if !ok {
		if !g.HasColumn(column) {
			return nil, &errs.ColumnNotFoundError{Column: column}
		}
		return nil, errs.NewNotGeometryColumn("column", column)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sindex != nil {
		return c.sindex, nil
	}

	geoms, err := g.Geometries(column)
	if err != nil {
		return nil, err
	}
	idx, err := spatialindex.Build(geoms)
	if err != nil {
		return nil, err
	}
	c.sindex = idx
	return idx, nil
}

// derive wraps a transformed frame, keeping the geometry columns that
// survived. Spatial indexes are not carried over.
func (g *GeoFrame) derive(f *Frame) *GeoFrame {
	cols := make([]*GeoColumn, 0, len(g.geoms))
	for _, c := range g.geoms {
		if f.HasColumn(c.Name) {
			cols = append(cols, &GeoColumn{Name: c.Name, CRS: c.CRS})
		}
	}
	return &GeoFrame{Frame: f, geoms: cols}
}

// Copy returns a deep copy without spatial indexes
func (g *GeoFrame) Copy() *GeoFrame {
	return g.derive(g.Frame.Copy())
}

// WithIndex replaces the row index
func (g *GeoFrame) WithIndex(idx Index) (*GeoFrame, error) {
	f, err := g.Frame.WithIndex(idx)
	if err != nil {
		return nil, err
	}
	return g.derive(f), nil
}

// RenameIndex renames the index levels
func (g *GeoFrame) RenameIndex(name IndexName) (*GeoFrame, error) {
	f, err := g.Frame.RenameIndex(name)
	if err != nil {
		return nil, err
	}
	return g.derive(f), nil
}

// ResetIndex moves the index into leading columns
func (g *GeoFrame) ResetIndex() (*GeoFrame, error) {
	f, err := g.Frame.ResetIndex()
	if err != nil {
		return nil, err
	}
	return g.derive(f), nil
}

// SetIndex moves columns into the index
func (g *GeoFrame) SetIndex(columns ...string) (*GeoFrame, error) {
	f, err := g.Frame.SetIndex(columns...)
	if err != nil {
		return nil, err
	}
	return g.derive(f), nil
}

// Drop removes columns, geometry columns included
func (g *GeoFrame) Drop(columns ...string) *GeoFrame {
	return g.derive(g.Frame.Drop(columns...))
}
