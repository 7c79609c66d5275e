package writer

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/leengari/geojoin/internal/domain/data"
	"github.com/leengari/geojoin/internal/domain/frame"
	"github.com/leengari/geojoin/internal/geometry"
	"github.com/leengari/geojoin/internal/storage"
)

// SaveFrame persists gf as data.json and meta.json under dir/name. Both
// files are written to a temp path first and renamed into place.
func SaveFrame(gf *frame.GeoFrame, dir, name string) error {
	if gf == nil || dir == "" || name == "" {
		return errors.New("cannot save dataset: nil frame or missing path")
	}

	basePath := filepath.Join(dir, name)
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return errors.Wrapf(err, "failed to create dataset directory %s", basePath)
	}

	// 1. Move a labelled index into leading columns
	idxName := gf.Index().Name()
	flat, err := storage.WithIndexColumns(gf)
	if err != nil {
		return errors.Wrapf(err, "failed to flatten index for %s", name)
	}

	meta := storage.FrameMeta{
		Name:     name,
		RowCount: int64(flat.Len()),
	}
	if flat != gf {
		meta.Index = flat.Columns()[:idxName.Arity()]
		meta.IndexNames = idxName.Parts()
		meta.IndexComposite = idxName.IsComposite()
	}

	for _, col := range flat.Columns() {
		values, _ := flat.Column(col)
		typ := storage.InferType(values)
		if flat.IsGeometryColumn(col) {
			typ = storage.TypeGeometry
		}
		meta.Columns = append(meta.Columns, storage.ColumnMeta{Name: col, Type: typ})
	}
	for _, spec := range flat.Specs() {
		meta.Geometry = append(meta.Geometry, storage.GeometryMeta{Name: spec.Name, CRS: spec.CRS})
	}

	// 2. Marshal meta
	metaBytes, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to marshal meta for %s", name)
	}

	// 3. Marshal data (rows), geometry as WKT
	rows := make([]data.Row, flat.Len())
	for i := range rows {
		row := flat.Row(i).Copy()
		for k, v := range row {
			if g, ok := v.(geometry.Geometry); ok {
				row[k] = g.WKT()
			}
		}
		rows[i] = row
	}
	dataBytes, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return errors.Wrapf(err, "failed to marshal rows for %s", name)
	}

	// 4. Write both files using temp + atomic rename
	files := []struct {
		path string
		data []byte
		name string
	}{
		{filepath.Join(basePath, "meta.json"), metaBytes, "meta.json"},
		{filepath.Join(basePath, "data.json"), dataBytes, "data.json"},
	}

	for _, f := range files {
		if err := writeAtomic(f.path, f.data); err != nil {
			return errors.Wrapf(err, "failed to write %s for dataset %s", f.name, name)
		}
	}

	slog.Info("dataset saved",
		slog.String("dataset", name),
		slog.String("path", basePath),
		slog.Int("row_count", len(rows)),
	)

	return nil
}

// SaveCatalog saves every dataset and the catalog meta.json
func SaveCatalog(cat *storage.Catalog) error {
	if cat == nil {
		return errors.New("cannot save nil catalog")
	}

	names := make([]string, 0, len(cat.Datasets))
	for name := range cat.Datasets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := SaveFrame(cat.Datasets[name], cat.Path, name); err != nil {
			slog.Error("failed to save dataset during catalog save",
				slog.String("dataset", name),
				slog.Any("error", err),
			)
			return errors.Wrapf(err, "failed to save dataset %s", name)
		}
	}

	metaBytes, err := json.MarshalIndent(storage.CatalogMeta{
		Name:     cat.Name,
		Version:  1,
		Datasets: names,
	}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal catalog meta")
	}

	if err := writeAtomic(filepath.Join(cat.Path, "meta.json"), metaBytes); err != nil {
		return errors.Wrap(err, "failed to write catalog meta")
	}

	slog.Info("catalog saved",
		slog.String("name", cat.Name),
		slog.String("path", cat.Path),
		slog.Int("dataset_count", len(names)),
	)

	return nil
}

func writeAtomic(path string, b []byte) error {
	tmpPath := path + ".tmp"

	// Write to temp
	if err := os.WriteFile(tmpPath, b, 0644); err != nil {
		return err
	}

	// Atomic replace
	return os.Rename(tmpPath, path)
}
