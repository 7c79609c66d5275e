// Package spatialindex is an R-tree over the bounding boxes of one
// geometry column.
package spatialindex

import (
	"log/slog"
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	"github.com/leengari/geojoin/internal/geometry"
)

const (
	dimensions  = 2
	minChildren = 25
	maxChildren = 50
)

// pad widens every rectangle so that boxes which only touch still
// overlap, and so points and axis-aligned segments form valid rectangles.
const pad = 1e-9

// entry is one indexed geometry
type entry struct {
	pos  int
	rect *rtreego.Rect
}

func (e *entry) Bounds() *rtreego.Rect {
	return e.rect
}

// Index answers bounding-box overlap queries by row position
type Index struct {
	tree *rtreego.Rtree
	size int
}

// Build bulk-loads an index over geoms. Empty geometries are skipped;
// positions refer to the slice.
func Build(geoms []geometry.Geometry) (*Index, error) {
	objs := make([]rtreego.Spatial, 0, len(geoms))

	for pos, g := range geoms {
		b, ok := g.Bound()
		if !ok {
			continue
		}
		rect, err := toRect(b)
		if err != nil {
			return nil, err
		}
		objs = append(objs, &entry{pos: pos, rect: rect})
	}

	tree := rtreego.NewTree(dimensions, minChildren, maxChildren, objs...)

	slog.Debug("spatial index built",
		slog.Int("geometries", len(geoms)),
		slog.Int("indexed", len(objs)),
	)

	return &Index{tree: tree, size: len(objs)}, nil
}

// Len returns the number of indexed geometries
func (idx *Index) Len() int {
	return idx.size
}

// Query returns the ascending positions of indexed geometries whose
// bounding boxes overlap g's. An empty g matches nothing.
func (idx *Index) Query(g geometry.Geometry) []int {
	b, ok := g.Bound()
	if !ok || idx.size == 0 {
		return []int{}
	}

	rect, err := toRect(b)
	if err != nil {
		return []int{}
	}

	hits := idx.tree.SearchIntersect(rect)
	out := make([]int, len(hits))
	for i, h := range hits {
		out[i] = h.(*entry).pos
	}
	sort.Ints(out)
	return out
}

func toRect(b orb.Bound) (*rtreego.Rect, error) {
	p := rtreego.Point{b.Min[0] - pad, b.Min[1] - pad}
	lengths := []float64{
		b.Max[0] - b.Min[0] + 2*pad,
		b.Max[1] - b.Min[1] + 2*pad,
	}
	return rtreego.NewRect(p, lengths)
}
