package storage

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/leengari/geojoin/internal/domain/data"
	"github.com/leengari/geojoin/internal/domain/frame"
	"github.com/leengari/geojoin/internal/geometry"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// =============================================================================
// VALUE INFERENCE
// =============================================================================

func TestParseCell(t *testing.T) {
	assert.Equal(t, parseCell(""), nil)
	assert.Equal(t, parseCell("42"), int64(42))
	assert.Equal(t, parseCell("2.5"), 2.5)
	assert.Equal(t, parseCell("TRUE"), true)
	assert.Equal(t, parseCell("abc"), "abc")
	assert.Equal(t, parseCell("0"), int64(0))
	assert.Equal(t, parseCell("-3"), int64(-3))
	assert.Equal(t, parseCell("0.5"), 0.5)
	assert.Equal(t, parseCell("1e3"), 1000.0)
}

func TestParseCellKeepsIdentifierText(t *testing.T) {
	for _, s := range []string{"007", "-01", "00.5", "nan", "NaN", "inf", "-Inf", "+infinity", "0x1F", "--1"} {
		assert.Equal(t, parseCell(s), s, "cell %q", s)
	}
}

func TestCSVRoundTripKeepsZeroPaddedIDs(t *testing.T) {
	in := "code,label,pt\n007,NaN,POINT(1 1)\n010,inf,POINT(2 2)\n"

	gf, err := ReadCSV(strings.NewReader(in), CSVOptions{
		Delimiter: ',',
		Geometry:  []frame.GeoColumnSpec{{Name: "pt"}},
		Index:     []string{"code"},
	})
	assert.NilError(t, err)
	assert.Equal(t, gf.Index().Label(0).Scalar(), "007")

	var buf bytes.Buffer
	assert.NilError(t, WriteCSV(&buf, gf, ','))
	assert.Equal(t, buf.String(), "code,label,pt\n007,NaN,POINT(1 1)\n010,inf,POINT(2 2)\n")
}

func TestInferType(t *testing.T) {
	assert.Equal(t, InferType([]interface{}{nil, int64(1)}), TypeInt64)
	assert.Equal(t, InferType([]interface{}{int64(1), 2.5}), TypeFloat64)
	assert.Equal(t, InferType([]interface{}{int64(1), "x"}), TypeString)
	assert.Equal(t, InferType([]interface{}{nil}), TypeNull)
	assert.Equal(t, InferType([]interface{}{geometry.Empty()}), TypeGeometry)
}

func TestNormalizeJSON(t *testing.T) {
	assert.Equal(t, normalizeJSON(float64(3)), int64(3))
	assert.Equal(t, normalizeJSON(3.25), 3.25)
	assert.Equal(t, normalizeJSON("s"), "s")
}

// =============================================================================
// CSV
// =============================================================================

func TestReadCSV(t *testing.T) {
	in := "pid|score|pt\np0|1|POINT(5 5)\np1||POINT(25 25)\n"

	gf, err := ReadCSV(strings.NewReader(in), CSVOptions{
		Delimiter: '|',
		Geometry:  []frame.GeoColumnSpec{{Name: "pt", CRS: "EPSG:4326"}},
		Index:     []string{"pid"},
	})
	assert.NilError(t, err)

	assert.DeepEqual(t, gf.Columns(), []string{"score", "pt"})
	assert.Equal(t, gf.Len(), 2)
	assert.Equal(t, gf.Index().Name().Name(), "pid")
	assert.Equal(t, gf.Index().Label(1).Scalar(), "p1")
	assert.Equal(t, gf.Value(0, "score"), int64(1))
	assert.Equal(t, gf.Value(1, "score"), nil)
	assert.Equal(t, gf.CRS("pt"), "EPSG:4326")
	assert.Equal(t, gf.Geometry(1, "pt").WKT(), "POINT(25 25)")
}

func TestReadCSVBadGeometry(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("g\nnot a shape\n"), CSVOptions{
		Geometry: []frame.GeoColumnSpec{{Name: "g"}},
	})
	assert.Assert(t, err != nil)
}

func TestWriteCSVIncludesIndex(t *testing.T) {
	gf, err := ReadCSV(strings.NewReader("pid,pt\np0,POINT(1 2)\n"), CSVOptions{
		Geometry: []frame.GeoColumnSpec{{Name: "pt"}},
		Index:    []string{"pid"},
	})
	assert.NilError(t, err)

	var buf bytes.Buffer
	assert.NilError(t, WriteCSV(&buf, gf, 0))
	assert.Equal(t, buf.String(), "pid,pt\np0,POINT(1 2)\n")
}

// =============================================================================
// GEOJSON
// =============================================================================

const pointsCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": 7, "properties": {"name": "a", "rank": 1},
     "geometry": {"type": "Point", "coordinates": [1, 2]}},
    {"type": "Feature", "id": 9, "properties": {"name": "b", "rank": 2.5},
     "geometry": {"type": "Point", "coordinates": [3, 4]}}
  ]
}`

func TestReadGeoJSONUsesFeatureIDs(t *testing.T) {
	gf, err := ReadGeoJSON(strings.NewReader(pointsCollection), GeoJSONOptions{CRS: "EPSG:4326"})
	assert.NilError(t, err)

	assert.DeepEqual(t, gf.Columns(), []string{"name", "rank", "geometry"})
	assert.DeepEqual(t, gf.GeometryColumns(), []string{"geometry"})
	assert.Equal(t, gf.Index().Label(0).Scalar(), int64(7))
	assert.Equal(t, gf.Value(0, "rank"), int64(1))
	assert.Equal(t, gf.Value(1, "rank"), 2.5)
	assert.Equal(t, gf.Geometry(1, "geometry").WKT(), "POINT(3 4)")
}

func TestReadGeoJSONWithoutIDsKeepsRange(t *testing.T) {
	in := `{"type":"FeatureCollection","features":[
	  {"type":"Feature","properties":{"k":"x"},"geometry":{"type":"Point","coordinates":[0,0]}}]}`

	gf, err := ReadGeoJSON(strings.NewReader(in), GeoJSONOptions{GeometryColumn: "shape"})
	assert.NilError(t, err)
	assert.Assert(t, gf.Index().IsRange())
	assert.DeepEqual(t, gf.GeometryColumns(), []string{"shape"})
}

func TestReadGeoJSONPropertyClash(t *testing.T) {
	in := `{"type":"FeatureCollection","features":[
	  {"type":"Feature","properties":{"geometry":1},"geometry":{"type":"Point","coordinates":[0,0]}}]}`

	_, err := ReadGeoJSON(strings.NewReader(in), GeoJSONOptions{})
	assert.ErrorContains(t, err, "clashes")
}

func TestToFeatureCollection(t *testing.T) {
	gf, err := ReadGeoJSON(strings.NewReader(pointsCollection), GeoJSONOptions{})
	assert.NilError(t, err)

	fc := ToFeatureCollection(gf)
	assert.Equal(t, len(fc.Features), 2)
	assert.Equal(t, fc.Features[1].ID, int64(9))
	assert.Equal(t, fc.Features[1].Properties["name"], "b")
	_, hasGeom := fc.Features[1].Properties["geometry"]
	assert.Check(t, !hasGeom)

	var buf bytes.Buffer
	assert.NilError(t, WriteGeoJSON(&buf, gf))
	assert.Check(t, is.Contains(buf.String(), `"FeatureCollection"`))
}

// =============================================================================
// DATASET DIRECTORIES
// =============================================================================

func writeDataset(t *testing.T, dir, meta, rows string) {
	t.Helper()
	assert.NilError(t, os.MkdirAll(dir, 0755))
	assert.NilError(t, os.WriteFile(filepath.Join(dir, "meta.json"), []byte(meta), 0644))
	if rows != "" {
		assert.NilError(t, os.WriteFile(filepath.Join(dir, "data.json"), []byte(rows), 0644))
	}
}

func TestLoadFrameRestoresIndex(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "zones")
	writeDataset(t, dir, `{
	  "name": "zones",
	  "columns": [{"name": "zone", "type": "string"}, {"name": "n", "type": "int64"}, {"name": "poly", "type": "geometry"}],
	  "geometry": [{"name": "poly", "crs": "EPSG:4326"}],
	  "index": ["zone"],
	  "index_names": [""]
	}`, `[
	  {"zone": "a", "n": 1, "poly": "POLYGON((0 0,1 0,1 1,0 0))"},
	  {"zone": "b", "n": 2, "poly": null}
	]`)

	gf, err := LoadFrame(dir, quietLogger())
	assert.NilError(t, err)

	assert.DeepEqual(t, gf.Columns(), []string{"n", "poly"})
	assert.Equal(t, gf.Index().Name().Name(), "")
	assert.Assert(t, gf.Index().Label(1).Equal(data.ScalarLabel("b")))
	assert.Equal(t, gf.Value(0, "n"), int64(1))
	assert.Equal(t, gf.Value(1, "poly"), nil)
	assert.Equal(t, gf.CRS("poly"), "EPSG:4326")
}

func TestLoadFrameWithoutData(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "empty")
	writeDataset(t, dir, `{"name":"empty","columns":[{"name":"g","type":"geometry"}],"geometry":[{"name":"g"}]}`, "")

	gf, err := LoadFrame(dir, quietLogger())
	assert.NilError(t, err)
	assert.Equal(t, gf.Len(), 0)
}

func TestLoadersAcceptNilLogger(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "one")
	writeDataset(t, dir, `{"name":"one","columns":[{"name":"g","type":"geometry"}],"geometry":[{"name":"g"}]}`, `[{"g":"POINT(0 0)"}]`)

	gf, err := LoadFrame(dir, nil)
	assert.NilError(t, err)
	assert.Equal(t, gf.Len(), 1)

	cat, err := LoadCatalog(root, nil)
	assert.NilError(t, err)
	assert.Equal(t, len(cat.Datasets), 1)

	gf, err = Load(dir, LoadOptions{}, nil)
	assert.NilError(t, err)
	assert.Equal(t, gf.Len(), 1)
}

func TestLoadCatalogSkipsForeignDirectories(t *testing.T) {
	root := t.TempDir()
	writeDataset(t, filepath.Join(root, "one"), `{"name":"one","columns":[{"name":"g","type":"geometry"}],"geometry":[{"name":"g"}]}`, `[{"g":"POINT(0 0)"}]`)
	assert.NilError(t, os.MkdirAll(filepath.Join(root, "scratch"), 0755))
	assert.NilError(t, os.WriteFile(filepath.Join(root, "meta.json"), []byte(`{"name":"demo","version":1}`), 0644))

	cat, err := LoadCatalog(root, quietLogger())
	assert.NilError(t, err)
	assert.Equal(t, cat.Name, "demo")
	assert.Equal(t, len(cat.Datasets), 1)

	gf, ok := cat.Get("one")
	assert.Assert(t, ok)
	assert.Equal(t, gf.Len(), 1)
}

func TestLoadDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "pts.csv")
	assert.NilError(t, os.WriteFile(csvPath, []byte("id,geometry\n1,POINT(0 0)\n"), 0644))
	jsonPath := filepath.Join(dir, "pts.geojson")
	assert.NilError(t, os.WriteFile(jsonPath, []byte(pointsCollection), 0644))

	gf, err := Load(csvPath, LoadOptions{}, quietLogger())
	assert.NilError(t, err)
	assert.DeepEqual(t, gf.GeometryColumns(), []string{"geometry"})

	gf, err = Load(jsonPath, LoadOptions{}, quietLogger())
	assert.NilError(t, err)
	assert.Equal(t, gf.Len(), 2)

	_, err = Load(filepath.Join(dir, "x.shp"), LoadOptions{}, quietLogger())
	assert.Assert(t, err != nil)
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pts.xml")
	assert.NilError(t, os.WriteFile(path, []byte("<x/>"), 0644))

	_, err := Load(path, LoadOptions{}, quietLogger())
	assert.ErrorContains(t, err, "unsupported input format")
}
