package export

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/cockroachdb/errors"

	"github.com/leengari/geojoin/internal/domain/frame"
	"github.com/leengari/geojoin/internal/geometry"
	"github.com/leengari/geojoin/internal/storage"
)

// ToArrow converts the frame to an Arrow record. The caller is
// responsible for calling Release() on the returned Record.
func ToArrow(gf *frame.GeoFrame, mem memory.Allocator) (arrow.Record, error) {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	cols, err := columnsOf(gf)
	if err != nil {
		return nil, err
	}

	fields := make([]arrow.Field, len(cols))
	arrays := make([]arrow.Array, len(cols))
	release := func(n int) {
		for _, a := range arrays[:n] {
			a.Release()
		}
	}

	for i, c := range cols {
		fields[i] = arrow.Field{Name: c.name, Type: arrowType(c.typ), Nullable: true}
		if c.typ == storage.TypeGeometry {
			fields[i].Metadata = arrow.NewMetadata([]string{"encoding", "crs"}, []string{"WKB", c.crs})
		}

		arr, err := buildArray(c, mem)
		if err != nil {
			release(i)
			return nil, errors.Wrapf(err, "column %s", c.name)
		}
		arrays[i] = arr
	}

	schema := arrow.NewSchema(fields, nil)
	record := array.NewRecord(schema, arrays, int64(gf.Len()))

	// Release arrays (Record retains them)
	release(len(arrays))

	return record, nil
}

// WriteArrow writes the frame as an Arrow IPC file
func WriteArrow(w io.Writer, gf *frame.GeoFrame) error {
	mem := memory.DefaultAllocator

	record, err := ToArrow(gf, mem)
	if err != nil {
		return err
	}
	defer record.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(record.Schema()), ipc.WithAllocator(mem))
	if err != nil {
		return errors.Wrap(err, "failed to open arrow writer")
	}
	if err := fw.Write(record); err != nil {
		fw.Close()
		return errors.Wrap(err, "failed to write arrow record")
	}
	return fw.Close()
}

func arrowType(typ string) arrow.DataType {
	switch typ {
	case storage.TypeInt64:
		return arrow.PrimitiveTypes.Int64
	case storage.TypeFloat64:
		return arrow.PrimitiveTypes.Float64
	case storage.TypeBool:
		return arrow.FixedWidthTypes.Boolean
	case storage.TypeGeometry:
		return arrow.BinaryTypes.Binary
	}
	return arrow.BinaryTypes.String
}

func buildArray(c column, mem memory.Allocator) (arrow.Array, error) {
	switch c.typ {
	case storage.TypeInt64:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		for _, v := range c.values {
			if i, ok := asInt64(v); ok {
				builder.Append(i)
			} else {
				builder.AppendNull()
			}
		}
		return builder.NewArray(), nil

	case storage.TypeFloat64:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		for _, v := range c.values {
			if f, ok := asFloat64(v); ok {
				builder.Append(f)
			} else {
				builder.AppendNull()
			}
		}
		return builder.NewArray(), nil

	case storage.TypeBool:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		for _, v := range c.values {
			if b, ok := v.(bool); ok {
				builder.Append(b)
			} else {
				builder.AppendNull()
			}
		}
		return builder.NewArray(), nil

	case storage.TypeGeometry:
		builder := array.NewBinaryBuilder(mem, arrow.BinaryTypes.Binary)
		defer builder.Release()
		for _, v := range c.values {
			g, ok := v.(geometry.Geometry)
			if !ok {
				builder.AppendNull()
				continue
			}
			b, err := g.WKB()
			if err != nil {
				return nil, err
			}
			builder.Append(b)
		}
		return builder.NewArray(), nil
	}

	builder := array.NewStringBuilder(mem)
	defer builder.Release()
	for _, v := range c.values {
		if v == nil {
			builder.AppendNull()
		} else {
			builder.Append(fmt.Sprint(v))
		}
	}
	return builder.NewArray(), nil
}

func asInt64(v interface{}) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case int32:
		return int64(x), true
	}
	return 0, false
}

func asFloat64(v interface{}) (float64, bool) {
	if i, ok := asInt64(v); ok {
		return float64(i), true
	}
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	}
	return 0, false
}
