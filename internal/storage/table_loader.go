package storage

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/leengari/geojoin/internal/domain/data"
	"github.com/leengari/geojoin/internal/domain/frame"
)

// LoadFrame reads a dataset directory holding meta.json and an optional
// data.json. Geometry cells are stored as WKT. A nil logger means
// slog.Default().
func LoadFrame(path string, logger *slog.Logger) (*frame.GeoFrame, error) {
	if logger == nil {
		logger = slog.Default()
	}
	metaPath := filepath.Join(path, "meta.json")
	dataPath := filepath.Join(path, "data.json")

	metaBytes, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta FrameMeta
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, errors.Wrapf(err, "failed to parse meta for %s", path)
	}

	columns := make([]string, len(meta.Columns))
	for i, c := range meta.Columns {
		columns[i] = c.Name
	}

	rows := []data.Row{}
	if _, err := os.Stat(dataPath); err == nil {
		rows, err = readRows(dataPath)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read rows for %s", meta.Name)
		}
	}

	f, err := frame.New(columns, rows)
	if err != nil {
		return nil, err
	}

	specs := make([]frame.GeoColumnSpec, len(meta.Geometry))
	for i, g := range meta.Geometry {
		specs[i] = frame.GeoColumnSpec{Name: g.Name, CRS: g.CRS}
	}

	gf, err := frame.NewGeoFrame(f, specs...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load geometry for %s", meta.Name)
	}

	if len(meta.Index) > 0 {
		if gf, err = restoreIndex(gf, meta); err != nil {
			return nil, err
		}
	}

	logger.Info("dataset loaded",
		slog.String("dataset", meta.Name),
		slog.Int("rows", gf.Len()),
		slog.Int("geometry_columns", len(specs)),
	)

	return gf, nil
}

func readRows(path string) ([]data.Row, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	dec := json.NewDecoder(fh)
	dec.UseNumber()

	var raw []map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	rows := make([]data.Row, len(raw))
	for i, r := range raw {
		row := make(data.Row, len(r))
		for k, v := range r {
			row[k] = normalizeJSON(v)
		}
		rows[i] = row
	}
	return rows, nil
}

func restoreIndex(gf *frame.GeoFrame, meta FrameMeta) (*frame.GeoFrame, error) {
	out, err := gf.SetIndex(meta.Index...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to restore index for %s", meta.Name)
	}

	names := meta.IndexNames
	if len(names) != len(meta.Index) {
		names = meta.Index
	}

	name := frame.ScalarName(names[0])
	if meta.IndexComposite {
		name = frame.CompositeName(names...)
	}
	return out.RenameIndex(name)
}
