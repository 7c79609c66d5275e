package export

import (
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/parquet-go/parquet-go"

	"github.com/leengari/geojoin/internal/domain/frame"
	"github.com/leengari/geojoin/internal/geometry"
	"github.com/leengari/geojoin/internal/storage"
)

const parquetBatchSize = 1000

// WriteParquet writes the frame as a Parquet file. Every column is
// optional so nil cells survive as nulls.
func WriteParquet(w io.Writer, gf *frame.GeoFrame) error {
	cols, err := columnsOf(gf)
	if err != nil {
		return err
	}

	// Build schema as a group of named columns
	group := make(parquet.Group, len(cols))
	byName := make(map[string]column, len(cols))
	for _, c := range cols {
		group[c.name] = parquet.Optional(parquetNode(c.typ))
		byName[c.name] = c
	}
	schema := parquet.NewSchema("geoframe", group)

	// Group fields are ordered by name. Leaf column indexes follow that order.
	fields := schema.Fields()
	ordered := make([]column, len(fields))
	for i, f := range fields {
		ordered[i] = byName[f.Name()]
	}

	pw := parquet.NewWriter(w, schema)

	rows := make([]parquet.Row, 0, parquetBatchSize)
	for pos := 0; pos < gf.Len(); pos++ {
		row := make(parquet.Row, len(ordered))
		for j, c := range ordered {
			v, err := parquetValue(c.values[pos], c.typ)
			if err != nil {
				pw.Close()
				return errors.Wrapf(err, "column %s row %d", c.name, pos)
			}
			def := 1
			if v.IsNull() {
				def = 0
			}
			row[j] = v.Level(0, def, j)
		}
		rows = append(rows, row)

		// Flush batch when full
		if len(rows) >= parquetBatchSize {
			if _, err := pw.WriteRows(rows); err != nil {
				pw.Close()
				return errors.Wrapf(err, "failed to write rows at %d", pos-len(rows)+1)
			}
			rows = rows[:0]
		}
	}

	// Write remaining rows
	if len(rows) > 0 {
		if _, err := pw.WriteRows(rows); err != nil {
			pw.Close()
			return errors.Wrap(err, "failed to write final rows")
		}
	}

	return pw.Close()
}

func parquetNode(typ string) parquet.Node {
	switch typ {
	case storage.TypeInt64:
		return parquet.Leaf(parquet.Int64Type)
	case storage.TypeFloat64:
		return parquet.Leaf(parquet.DoubleType)
	case storage.TypeBool:
		return parquet.Leaf(parquet.BooleanType)
	case storage.TypeGeometry:
		return parquet.Leaf(parquet.ByteArrayType)
	}
	return parquet.String()
}

func parquetValue(v interface{}, typ string) (parquet.Value, error) {
	if v == nil {
		return parquet.NullValue(), nil
	}

	switch typ {
	case storage.TypeInt64:
		if i, ok := asInt64(v); ok {
			return parquet.Int64Value(i), nil
		}
	case storage.TypeFloat64:
		if f, ok := asFloat64(v); ok {
			return parquet.DoubleValue(f), nil
		}
	case storage.TypeBool:
		if b, ok := v.(bool); ok {
			return parquet.BooleanValue(b), nil
		}
	case storage.TypeGeometry:
		g, ok := v.(geometry.Geometry)
		if !ok {
			return parquet.NullValue(), nil
		}
		b, err := g.WKB()
		if err != nil {
			return parquet.Value{}, err
		}
		return parquet.ByteArrayValue(b), nil
	default:
		return parquet.ByteArrayValue([]byte(fmt.Sprint(v))), nil
	}
	return parquet.NullValue(), nil
}
