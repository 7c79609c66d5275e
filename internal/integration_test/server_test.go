package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paulmach/orb/geojson"

	"github.com/leengari/geojoin/internal/config"
	"github.com/leengari/geojoin/internal/network"
	"github.com/leengari/geojoin/internal/storage/manager"
)

func TestServerJSON(t *testing.T) {
	dir := setupTestData(t)

	registry := manager.NewRegistry(dir, quietLogger())
	srv := httptest.NewServer(network.NewServer(config.Default(), registry).Handler())
	defer srv.Close()

	requests := []network.JoinRequest{
		{LeftDataset: "zones", RightDataset: "points", Op: "contains"},
		{LeftDataset: "zones", RightDataset: "points", Op: "contains", How: "right"},
	}
	wantRows := []int{3, 4}

	for i, req := range requests {
		body, err := json.Marshal(req)
		if err != nil {
			t.Fatalf("Failed to encode request: %v", err)
		}

		resp, err := http.Post(srv.URL+"/api/sjoin", "application/json", bytes.NewReader(body))
		if err != nil {
			t.Fatalf("Failed to send request: %v", err)
		}
		raw, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("Failed to read response: %v", err)
		}

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("Request %d: expected 200, got %d: %s", i, resp.StatusCode, raw)
		}

		fc, err := geojson.UnmarshalFeatureCollection(raw)
		if err != nil {
			t.Fatalf("Failed to decode feature collection: %v", err)
		}

		t.Logf("Request: %+v\nFeatures: %d", req, len(fc.Features))

		if len(fc.Features) != wantRows[i] {
			t.Errorf("Request %d: expected %d features, got %d", i, wantRows[i], len(fc.Features))
		}
	}

	// the zones dataset is cached with the index built by the first join
	zones, err := registry.Get("zones")
	if err != nil {
		t.Fatalf("Failed to get zones: %v", err)
	}
	points, err := registry.Get("points")
	if err != nil {
		t.Fatalf("Failed to get points: %v", err)
	}
	if !zones.HasSpatialIndex("geometry") && !points.HasSpatialIndex("geometry") {
		t.Errorf("Expected a cached spatial index on one of the datasets")
	}
}

func TestServerRejectsUnknownDataset(t *testing.T) {
	registry := manager.NewRegistry(t.TempDir(), quietLogger())
	srv := httptest.NewServer(network.NewServer(config.Default(), registry).Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/sjoin", "application/json",
		bytes.NewReader([]byte(`{"left_dataset":"nope","right_dataset":"nope"}`)))
	if err != nil {
		t.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", resp.StatusCode)
	}
}
