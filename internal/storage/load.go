package storage

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/leengari/geojoin/internal/domain/frame"
)

// LoadOptions applies to file formats that do not carry their own schema
type LoadOptions struct {
	Geometry  string // geometry column, "geometry" when empty
	CRS       string
	Index     []string
	Delimiter rune
}

// Load reads a dataset directory, a .csv file or a .geojson/.json file
func Load(path string, opts LoadOptions, logger *slog.Logger) (*frame.GeoFrame, error) {
	if logger == nil {
		logger = slog.Default()
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return LoadFrame(path, logger)
	}

	geomCol := opts.Geometry
	if geomCol == "" {
		geomCol = DefaultGeometryColumn
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	var gf *frame.GeoFrame
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".tsv", ".txt":
		delim := opts.Delimiter
		if delim == 0 && ext == ".tsv" {
			delim = '\t'
		}
		gf, err = ReadCSV(fh, CSVOptions{
			Delimiter: delim,
			Geometry:  []frame.GeoColumnSpec{{Name: geomCol, CRS: opts.CRS}},
			Index:     opts.Index,
		})
	case ".geojson", ".json":
		gf, err = ReadGeoJSON(fh, GeoJSONOptions{GeometryColumn: geomCol, CRS: opts.CRS, Index: opts.Index})
	default:
		return nil, errors.Newf("unsupported input format %q", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}

	logger.Info("dataset loaded",
		slog.String("path", path),
		slog.Int("rows", gf.Len()),
	)
	return gf, nil
}
