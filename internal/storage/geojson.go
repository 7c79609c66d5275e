package storage

import (
	"io"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb/geojson"

	"github.com/leengari/geojoin/internal/domain/data"
	"github.com/leengari/geojoin/internal/domain/frame"
	"github.com/leengari/geojoin/internal/geometry"
)

// DefaultGeometryColumn names the geometry column of a feature collection
const DefaultGeometryColumn = "geometry"

// GeoJSONOptions controls how a feature collection becomes a GeoFrame
type GeoJSONOptions struct {
	GeometryColumn string // defaults to "geometry"
	CRS            string
	Index          []string // property columns moved into the row index
}

// ReadGeoJSON reads a FeatureCollection. Property keys become columns in
// sorted order followed by the geometry column. When every feature has
// an id and no Index is given, the ids become the row index.
func ReadGeoJSON(r io.Reader, opts GeoJSONOptions) (*frame.GeoFrame, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse feature collection")
	}
	return FromFeatureCollection(fc, opts)
}

// FromFeatureCollection converts a decoded FeatureCollection
func FromFeatureCollection(fc *geojson.FeatureCollection, opts GeoJSONOptions) (*frame.GeoFrame, error) {
	geomCol := opts.GeometryColumn
	if geomCol == "" {
		geomCol = DefaultGeometryColumn
	}

	keys := make(map[string]bool)
	for _, f := range fc.Features {
		for k := range f.Properties {
			keys[k] = true
		}
	}
	if keys[geomCol] {
		return nil, errors.Newf("property %q clashes with the geometry column", geomCol)
	}

	columns := make([]string, 0, len(keys)+1)
	for k := range keys {
		columns = append(columns, k)
	}
	sort.Strings(columns)
	columns = append(columns, geomCol)

	rows := make([]data.Row, len(fc.Features))
	labels := make([]data.Label, len(fc.Features))
	allIDs := len(fc.Features) > 0

	for i, f := range fc.Features {
		row := make(data.Row, len(columns))
		for k, v := range f.Properties {
			row[k] = normalizeJSON(v)
		}

		if f.Geometry != nil {
			g, err := geometry.FromOrb(f.Geometry)
			if err != nil {
				return nil, errors.Wrapf(err, "feature %d", i)
			}
			row[geomCol] = g
		}
		rows[i] = row

		if f.ID == nil {
			allIDs = false
		} else {
			labels[i] = data.ScalarLabel(normalizeJSON(f.ID))
		}
	}

	f, err := frame.New(columns, rows)
	if err != nil {
		return nil, err
	}
	gf, err := frame.NewGeoFrame(f, frame.GeoColumnSpec{Name: geomCol, CRS: opts.CRS})
	if err != nil {
		return nil, err
	}

	switch {
	case len(opts.Index) > 0:
		return gf.SetIndex(opts.Index...)
	case allIDs:
		idx, err := frame.NewIndex(frame.ScalarName(""), labels)
		if err != nil {
			return nil, err
		}
		return gf.WithIndex(idx)
	}
	return gf, nil
}

// ToFeatureCollection converts gf into features. The first geometry
// column is the feature geometry; other geometry columns are written as
// WKT properties. The row label becomes the feature id.
func ToFeatureCollection(gf *frame.GeoFrame) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	geomCol := ""
	if cols := gf.GeometryColumns(); len(cols) > 0 {
		geomCol = cols[0]
	}

	for pos := 0; pos < gf.Len(); pos++ {
		g := gf.Geometry(pos, geomCol)

		feature := geojson.NewFeature(g.Orb())
		label := gf.Index().Label(pos)
		if label.Arity() == 1 {
			feature.ID = label.Scalar()
		} else {
			feature.ID = label.String()
		}

		for _, c := range gf.Columns() {
			if c == geomCol {
				continue
			}
			v := gf.Value(pos, c)
			if mg, ok := v.(geometry.Geometry); ok {
				v = mg.WKT()
			}
			feature.Properties[c] = v
		}
		fc.Append(feature)
	}
	return fc
}

// WriteGeoJSON writes gf as a FeatureCollection
func WriteGeoJSON(w io.Writer, gf *frame.GeoFrame) error {
	b, err := ToFeatureCollection(gf).MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
