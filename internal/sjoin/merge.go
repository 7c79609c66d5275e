package sjoin

import (
	"log/slog"

	"github.com/leengari/geojoin/internal/domain/data"
	"github.com/leengari/geojoin/internal/domain/errs"
	"github.com/leengari/geojoin/internal/domain/frame"
)

// columnPlan maps the columns each side contributes to their output names
type columnPlan struct {
	leftCols, leftOut   []string
	rightCols, rightOut []string
}

// outputName returns the output name of a source column of one side
func (p columnPlan) outputName(fromLeft bool, column string) (string, bool) {
	cols, out := p.rightCols, p.rightOut
	if fromLeft {
		cols, out = p.leftCols, p.leftOut
	}
	for i, c := range cols {
		if c == column {
			return out[i], true
		}
	}
	return "", false
}

// planColumns decides which columns survive and how collisions are
// suffixed. Inner and left joins drop the right join geometry; right
// joins drop the left one.
func planColumns(l, r *side, how How, opts Options) (columnPlan, error) {
	var plan columnPlan

	for _, c := range l.gf.Columns() {
		if how == HowRight && c == l.geomCol {
			continue
		}
		plan.leftCols = append(plan.leftCols, c)
	}
	for _, c := range r.gf.Columns() {
		if how != HowRight && c == r.geomCol {
			continue
		}
		plan.rightCols = append(plan.rightCols, c)
	}

	inRight := make(map[string]bool, len(plan.rightCols))
	for _, c := range plan.rightCols {
		inRight[c] = true
	}
	overlap := make(map[string]bool)
	for _, c := range plan.leftCols {
		if inRight[c] {
			overlap[c] = true
		}
	}

	plan.leftOut = suffixed(plan.leftCols, overlap, opts.LSuffix)
	plan.rightOut = suffixed(plan.rightCols, overlap, opts.RSuffix)

	seen := make(map[string]bool, len(plan.leftOut)+len(plan.rightOut))
	for _, names := range [][]string{plan.leftOut, plan.rightOut} {
		for _, n := range names {
			if seen[n] {
				return columnPlan{}, &errs.ValueError{
					Param:  "suffixes",
					Value:  n,
					Reason: "suffixed column name collides with an existing column",
				}
			}
			seen[n] = true
		}
	}

	return plan, nil
}

func suffixed(cols []string, overlap map[string]bool, suffix string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		if overlap[c] {
			out[i] = c + "_" + suffix
		} else {
			out[i] = c
		}
	}
	return out
}

// combineRows merges one row of each side under the planned names.
// A negative position sets that side's columns to NULL.
func combineRows(l, r *side, plan columnPlan, leftPos, rightPos int) data.JoinedRow {
	joined := data.NewJoinedRow(leftPos, rightPos)

	for i, c := range plan.leftCols {
		if leftPos < 0 {
			joined.Set(plan.leftOut[i], nil)
			continue
		}
		joined.Set(plan.leftOut[i], l.gf.Value(leftPos, c))
	}

	for i, c := range plan.rightCols {
		if rightPos < 0 {
			joined.Set(plan.rightOut[i], nil)
			continue
		}
		joined.Set(plan.rightOut[i], r.gf.Value(rightPos, c))
	}

	return joined
}

// mergeRows applies the join mode to the refined pairs. Inner and left
// joins walk the left rows in order, right joins walk the right rows;
// matches follow in ascending position of the other side.
func mergeRows(l, r *side, plan columnPlan, pairs []Pair, how How) []data.JoinedRow {
	results := make([]data.JoinedRow, 0, len(pairs))

	switch how {
	case HowInner, HowLeft:
		byLeft := make(map[int][]int)
		for _, p := range pairs {
			byLeft[p.Left] = append(byLeft[p.Left], p.Right)
		}
		unmatched := 0
		for leftPos := 0; leftPos < l.gf.Len(); leftPos++ {
			matches := byLeft[leftPos]
			for _, rightPos := range matches {
				results = append(results, combineRows(l, r, plan, leftPos, rightPos))
			}
			if len(matches) == 0 && how == HowLeft {
				unmatched++
				results = append(results, combineRows(l, r, plan, leftPos, -1))
			}
		}
		slog.Debug("merged rows",
			slog.String("how", how.String()),
			slog.Int("result_rows", len(results)),
			slog.Int("unmatched_left", unmatched),
		)

	case HowRight:
		byRight := make(map[int][]int)
		for _, p := range pairs {
			byRight[p.Right] = append(byRight[p.Right], p.Left)
		}
		unmatched := 0
		for rightPos := 0; rightPos < r.gf.Len(); rightPos++ {
			matches := byRight[rightPos]
			for _, leftPos := range matches {
				results = append(results, combineRows(l, r, plan, leftPos, rightPos))
			}
			if len(matches) == 0 {
				unmatched++
				results = append(results, combineRows(l, r, plan, -1, rightPos))
			}
		}
		slog.Debug("merged rows",
			slog.String("how", how.String()),
			slog.Int("result_rows", len(results)),
			slog.Int("unmatched_right", unmatched),
		)
	}

	return results
}

// assemble turns merged rows into the result frame: the owner's
// bookkeeping columns become the index under the caller's original index
// name, the other side's bookkeeping columns are dropped unless kept, and
// geometry columns are re-declared with their CRS.
func assemble(l, r *side, plan columnPlan, rows []data.JoinedRow, how How, opts Options) (*frame.GeoFrame, error) {
	ownerSuffix := opts.LSuffix
	if how == HowRight {
		ownerSuffix = opts.RSuffix
	}

	owner, other := l, r
	ownerIsLeft := true
	if r.suffix == ownerSuffix {
		owner, other = r, l
		ownerIsLeft = false
	}

	remove := make(map[string]bool)
	labelCols := make([]string, len(owner.indexCols))
	for i, c := range owner.indexCols {
		name, _ := plan.outputName(ownerIsLeft, c)
		labelCols[i] = name
		remove[name] = true
	}
	if !opts.KeepIndexColumn {
		for _, c := range other.indexCols {
			if name, ok := plan.outputName(!ownerIsLeft, c); ok {
				remove[name] = true
			}
		}
	}

	columns := make([]string, 0, len(plan.leftOut)+len(plan.rightOut))
	for _, names := range [][]string{plan.leftOut, plan.rightOut} {
		for _, n := range names {
			if !remove[n] {
				columns = append(columns, n)
			}
		}
	}

	out := make([]data.Row, len(rows))
	labels := make([]data.Label, len(rows))
	for i, jr := range rows {
		label := make(data.Label, len(labelCols))
		for j, c := range labelCols {
			label[j] = jr.Data[c]
		}
		labels[i] = label

		row := make(data.Row, len(columns))
		for _, c := range columns {
			row[c] = jr.Data[c]
		}
		out[i] = row
	}

	f, err := frame.New(columns, out)
	if err != nil {
		return nil, err
	}
	idx, err := frame.NewIndex(owner.origName, labels)
	if err != nil {
		return nil, err
	}
	f, err = f.WithIndex(idx)
	if err != nil {
		return nil, err
	}

	return frame.NewGeoFrame(f, geometrySpecs(l, r, plan, how)...)
}

// geometrySpecs lists the surviving geometry columns, the kept join
// column first
func geometrySpecs(l, r *side, plan columnPlan, how How) []frame.GeoColumnSpec {
	keptSide, keptIsLeft := l, true
	if how == HowRight {
		keptSide, keptIsLeft = r, false
	}

	specs := make([]frame.GeoColumnSpec, 0, 2)
	if name, ok := plan.outputName(keptIsLeft, keptSide.geomCol); ok {
		specs = append(specs, frame.GeoColumnSpec{Name: name, CRS: keptSide.gf.CRS(keptSide.geomCol)})
	}

	for _, s := range []struct {
		side   *side
		isLeft bool
	}{{l, true}, {r, false}} {
		for _, c := range s.side.gf.GeometryColumns() {
			if s.side == keptSide && c == keptSide.geomCol {
				continue
			}
			if name, ok := plan.outputName(s.isLeft, c); ok {
				specs = append(specs, frame.GeoColumnSpec{Name: name, CRS: s.side.gf.CRS(c)})
			}
		}
	}

	return specs
}
