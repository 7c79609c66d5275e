package storage

import (
	"encoding/csv"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/leengari/geojoin/internal/domain/data"
	"github.com/leengari/geojoin/internal/domain/frame"
)

// CSVOptions controls how a delimited file becomes a GeoFrame
type CSVOptions struct {
	Delimiter rune                  // defaults to ','
	Geometry  []frame.GeoColumnSpec // columns holding WKT, EWKT or hex WKB
	Index     []string              // columns moved into the row index
}

// ReadCSV reads a delimited file with a header row. Cell types are
// inferred per cell; geometry columns are parsed.
func ReadCSV(r io.Reader, opts CSVOptions) (*frame.GeoFrame, error) {
	cr := csv.NewReader(r)
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}

	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read csv header")
	}

	geomCols := make(map[string]bool, len(opts.Geometry))
	for _, s := range opts.Geometry {
		geomCols[s.Name] = true
	}

	rows := []data.Row{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read csv line %d", line)
		}

		row := make(data.Row, len(header))
		for i, col := range header {
			if i >= len(rec) {
				row[col] = nil
				continue
			}
			if geomCols[col] {
				row[col] = rec[i]
				continue
			}
			row[col] = parseCell(rec[i])
		}
		rows = append(rows, row)
	}

	f, err := frame.New(header, rows)
	if err != nil {
		return nil, err
	}
	gf, err := frame.NewGeoFrame(f, opts.Geometry...)
	if err != nil {
		return nil, err
	}
	if len(opts.Index) > 0 {
		return gf.SetIndex(opts.Index...)
	}
	return gf, nil
}

// WriteCSV writes gf with a header row. A labelled index is written as
// leading columns and geometries as WKT.
func WriteCSV(w io.Writer, gf *frame.GeoFrame, delimiter rune) error {
	flat, err := WithIndexColumns(gf)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}

	cols := flat.Columns()
	if err := cw.Write(cols); err != nil {
		return err
	}

	rec := make([]string, len(cols))
	for pos := 0; pos < flat.Len(); pos++ {
		for i, c := range cols {
			rec[i] = formatCell(flat.Value(pos, c))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
