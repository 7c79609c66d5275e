package integration

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leengari/geojoin/internal/domain/frame"
	"github.com/leengari/geojoin/internal/storage"
	"github.com/leengari/geojoin/internal/storage/writer"
)

const pointsCSV = `pid|kind|geometry
p0|shop|POINT(5 5)
p1|shop|POINT(25 25)
p2|park|POINT(50 50)
p3|park|POINT(1 1)
`

const zonesGeoJSON = `{"type":"FeatureCollection","features":[
  {"type":"Feature","id":"a","properties":{"name":"first"},
   "geometry":{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,10],[0,0]]]}},
  {"type":"Feature","id":"b","properties":{"name":"second"},
   "geometry":{"type":"Polygon","coordinates":[[[20,20],[30,20],[30,30],[20,30],[20,20]]]}}]}`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestData writes the two datasets as dataset directories under a
// fresh temp dir and returns it
func setupTestData(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	points, err := storage.ReadCSV(strings.NewReader(pointsCSV), storage.CSVOptions{
		Delimiter: '|',
		Geometry:  []frame.GeoColumnSpec{{Name: "geometry", CRS: "EPSG:4326"}},
		Index:     []string{"pid"},
	})
	if err != nil {
		t.Fatalf("Failed to read points: %v", err)
	}
	zones, err := storage.ReadGeoJSON(strings.NewReader(zonesGeoJSON), storage.GeoJSONOptions{CRS: "EPSG:4326"})
	if err != nil {
		t.Fatalf("Failed to read zones: %v", err)
	}

	if err := writer.SaveFrame(points, dir, "points"); err != nil {
		t.Fatalf("Failed to save points: %v", err)
	}
	if err := writer.SaveFrame(zones, dir, "zones"); err != nil {
		t.Fatalf("Failed to save zones: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "points", "data.json")); err != nil {
		t.Fatalf("points dataset not written: %v", err)
	}
	return dir
}
