// Package export writes GeoFrames to columnar formats. Geometry columns
// are encoded as WKB; a labelled row index becomes leading columns.
package export

import (
	"github.com/leengari/geojoin/internal/domain/frame"
	"github.com/leengari/geojoin/internal/storage"
)

type column struct {
	name   string
	typ    string
	crs    string
	values []interface{}
}

func columnsOf(gf *frame.GeoFrame) ([]column, error) {
	flat, err := storage.WithIndexColumns(gf)
	if err != nil {
		return nil, err
	}

	cols := make([]column, 0, len(flat.Columns()))
	for _, name := range flat.Columns() {
		values, err := flat.Column(name)
		if err != nil {
			return nil, err
		}
		c := column{name: name, values: values, typ: storage.InferType(values)}
		if flat.IsGeometryColumn(name) {
			c.typ = storage.TypeGeometry
			c.crs = flat.CRS(name)
		}
		cols = append(cols, c)
	}
	return cols, nil
}
