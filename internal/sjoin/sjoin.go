// Package sjoin joins two geo record sets on a spatial predicate between
// one geometry column of each side.
//
// The join runs in stages: pick the side whose spatial index is used,
// move row identifiers into bookkeeping columns, find candidate pairs by
// bounding box, refine them with the exact predicate, merge rows per join
// mode and restore the original identifiers on the result index.
package sjoin

import (
	"log/slog"
	"time"

	"github.com/leengari/geojoin/internal/domain/frame"
	"github.com/leengari/geojoin/internal/domain/run"
)

// Joiner runs spatial joins and reports their lifecycle to observers
type Joiner struct {
	observers []Observer
}

// New creates a Joiner without observers
func New() *Joiner {
	return &Joiner{
		observers: make([]Observer, 0),
	}
}

// AddObserver registers an observer
func (j *Joiner) AddObserver(observer Observer) {
	j.observers = append(j.observers, observer)
}

// RemoveObserver unregisters an observer
func (j *Joiner) RemoveObserver(observer Observer) {
	for i, o := range j.observers {
		if o == observer {
			j.observers = append(j.observers[:i], j.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event to all registered observers
func (j *Joiner) notify(event Event) {
	event.Timestamp = time.Now()
	for _, observer := range j.observers {
		observer.OnEvent(event)
	}
}

// Join joins left and right without observers. See Joiner.Join.
func Join(left, right frame.RecordSet, lcol, rcol string, opts Options) (*frame.GeoFrame, error) {
	return New().Join(left, right, lcol, rcol, opts)
}

// Join returns the rows of left and right whose lcol and rcol geometries
// satisfy opts.Op, combined per opts.How.
//
// Both inputs must be geo record sets and lcol, rcol geometry columns of
// them. The only effect on the inputs is that the chosen side's spatial
// index gets built if it was not already.
//
// For "within" the two sides trade places after their identifiers have
// been saved: the mode then drives from the right input, and the result
// index of an inner or left join carries the left input's identifiers
// (and the right input's geometry column).
func (j *Joiner) Join(left, right frame.RecordSet, lcol, rcol string, opts Options) (*frame.GeoFrame, error) {
	r := run.New()

	req, err := validate(left, right, lcol, rcol, opts)
	if err != nil {
		return nil, err
	}
	opts = req.opts
	r.Mark(run.StageValidate)

	j.notify(Event{Type: EventJoinStart, RunID: r.ID, Data: StartInfo{
		How:       opts.How,
		Op:        opts.Op,
		LeftRows:  req.left.Len(),
		RightRows: req.right.Len(),
	}})

	if req.crsMismatch != nil {
		j.notify(Event{Type: EventCRSMismatch, RunID: r.ID, Data: *req.crsMismatch})
	}

	// Index side is decided on the caller's frames so an index built here
	// stays available to later joins.
	leftHas := req.left.HasSpatialIndex(lcol)
	rightHas := req.right.HasSpatialIndex(rcol)
	indexRight := chooseIndexSide(leftHas, rightHas, req.left.Len(), req.right.Len())

	indexed, column, reused := req.left, lcol, leftHas
	if indexRight {
		indexed, column, reused = req.right, rcol, rightHas
	}
	tree, err := indexed.SpatialIndex(column)
	if err != nil {
		return nil, err
	}
	r.Mark(run.StageIndex)

	if reused {
		slog.Debug("Reusing existing spatial index", slog.String("column", column))
	}
	j.notify(Event{Type: EventIndexSide, RunID: r.ID, Data: IndexSide{
		Right:   indexRight,
		Reused:  reused,
		Indexed: tree.Len(),
	}})

	l, err := normalize(req.left, lcol, opts.LSuffix)
	if err != nil {
		return nil, err
	}
	rs, err := normalize(req.right, rcol, opts.RSuffix)
	if err != nil {
		return nil, err
	}

	pred := req.pred
	if opts.Op == OpWithin {
		// l.within(r) is evaluated as r.contains(l) on the swapped sides
		l, rs = rs, l
		indexRight = !indexRight
		pred = pred.Converse()
	}

	lgeoms, err := l.gf.Geometries(l.geomCol)
	if err != nil {
		return nil, err
	}
	rgeoms, err := rs.gf.Geometries(rs.geomCol)
	if err != nil {
		return nil, err
	}

	pairs := candidates(tree, lgeoms, rgeoms, indexRight)
	r.Mark(run.StageCandidate)
	j.notify(Event{Type: EventCandidates, RunID: r.ID, Data: len(pairs)})

	matched, err := refine(pairs, lgeoms, rgeoms, pred)
	if err != nil {
		return nil, err
	}
	r.Mark(run.StageRefine)
	j.notify(Event{Type: EventRefined, RunID: r.ID, Data: len(matched)})

	plan, err := planColumns(l, rs, opts.How, opts)
	if err != nil {
		return nil, err
	}
	rows := mergeRows(l, rs, plan, matched, opts.How)
	result, err := assemble(l, rs, plan, rows, opts.How, opts)
	if err != nil {
		return nil, err
	}
	r.Mark(run.StageMerge)

	slog.Info("spatial join completed",
		slog.String("run_id", r.ID),
		slog.Uint64("seq", r.Seq),
		slog.String("how", opts.How.String()),
		slog.String("op", string(opts.Op)),
		slog.Int("candidates", len(pairs)),
		slog.Int("matched", len(matched)),
		slog.Int("result_rows", result.Len()),
	)

	j.notify(Event{Type: EventJoinEnd, RunID: r.ID, Data: EndInfo{
		Seq:     r.Seq,
		Rows:    result.Len(),
		Stages:  r.Completed(),
		Elapsed: r.Elapsed(),
	}})

	return result, nil
}
