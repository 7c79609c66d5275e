package integration

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/leengari/geojoin/internal/sjoin"
	"github.com/leengari/geojoin/internal/storage"
)

// MockObserver captures events for testing
type MockObserver struct {
	mu     sync.Mutex
	Events []sjoin.Event
}

func (m *MockObserver) OnEvent(event sjoin.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// TestIndexReusedAcrossJoins verifies the second join over the same
// loaded frame reuses the spatial index built by the first
func TestIndexReusedAcrossJoins(t *testing.T) {
	dir := setupTestData(t)

	points, err := storage.LoadFrame(filepath.Join(dir, "points"), quietLogger())
	if err != nil {
		t.Fatalf("Failed to load points: %v", err)
	}
	zones, err := storage.LoadFrame(filepath.Join(dir, "zones"), quietLogger())
	if err != nil {
		t.Fatalf("Failed to load zones: %v", err)
	}

	joiner := sjoin.New()
	observer := &MockObserver{}
	joiner.AddObserver(observer)

	for i := 0; i < 2; i++ {
		if _, err := joiner.Join(points, zones, "geometry", "geometry", sjoin.Options{}); err != nil {
			t.Fatalf("Join %d failed: %v", i, err)
		}
	}

	var sides []sjoin.IndexSide
	runIDs := map[string]bool{}
	for _, e := range observer.Events {
		runIDs[e.RunID] = true
		if e.Type == sjoin.EventIndexSide {
			sides = append(sides, e.Data.(sjoin.IndexSide))
		}
	}

	if len(runIDs) != 2 {
		t.Errorf("Expected 2 distinct run IDs, got %d", len(runIDs))
	}
	if len(sides) != 2 {
		t.Fatalf("Expected 2 index_side events, got %d", len(sides))
	}
	if sides[0].Reused {
		t.Errorf("First join should build the index")
	}
	if !sides[1].Reused || sides[1].Right != sides[0].Right {
		t.Errorf("Second join should reuse the same index, got %+v then %+v", sides[0], sides[1])
	}
}
