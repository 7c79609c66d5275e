package sjoin

import (
	"log/slog"
	"strings"

	"github.com/leengari/geojoin/internal/domain/errs"
	"github.com/leengari/geojoin/internal/domain/frame"
	"github.com/leengari/geojoin/internal/geometry"
)

// request is a validated join call
type request struct {
	left, right *frame.GeoFrame
	lcol, rcol  string
	opts        Options
	pred        geometry.Predicate
	crsMismatch *CRSMismatch
}

// validate checks the inputs in a fixed order and fails on the first
// problem. A CRS mismatch is reported but is not an error.
func validate(left, right frame.RecordSet, lcol, rcol string, opts Options) (*request, error) {
	lgf, ok := left.(*frame.GeoFrame)
	if !ok || lgf == nil {
		return nil, errs.NewNotGeoFrame("left_df", left)
	}
	rgf, ok := right.(*frame.GeoFrame)
	if !ok || rgf == nil {
		return nil, errs.NewNotGeoFrame("right_df", right)
	}

	opts = opts.withDefaults()

	if err := opts.validateHow(); err != nil {
		return nil, err
	}
	pred, err := opts.predicate()
	if err != nil {
		return nil, err
	}
	if opts.LSuffix == opts.RSuffix {
		return nil, &errs.ValueError{
			Param:  "rsuffix",
			Value:  opts.RSuffix,
			Reason: "lsuffix and rsuffix must differ",
		}
	}

	if err := checkGeometryColumn(lgf, "left", "lcol", lcol); err != nil {
		return nil, err
	}
	if err := checkGeometryColumn(rgf, "right", "rcol", rcol); err != nil {
		return nil, err
	}

	req := &request{left: lgf, right: rgf, lcol: lcol, rcol: rcol, opts: opts, pred: pred}

	lcrs, rcrs := lgf.CRS(lcol), rgf.CRS(rcol)
	if !strings.EqualFold(lcrs, rcrs) {
		slog.Warn("CRS of frames being joined does not match",
			slog.String("left_crs", lcrs),
			slog.String("right_crs", rcrs),
		)
		req.crsMismatch = &CRSMismatch{Left: lcrs, Right: rcrs}
	}

	reserved := []string{indexColumn(opts.LSuffix), indexColumn(opts.RSuffix)}
	var clashes []string
	for _, name := range reserved {
		if lgf.HasColumn(name) || rgf.HasColumn(name) {
			clashes = append(clashes, name)
		}
	}
	if len(clashes) > 0 {
		return nil, errs.NewReservedName(strings.Join(reserved, ", "), clashes)
	}

	return req, nil
}

func checkGeometryColumn(gf *frame.GeoFrame, side, param, column string) error {
	if !gf.HasColumn(column) {
		return &errs.ColumnNotFoundError{Frame: side, Column: column}
	}
	if !gf.IsGeometryColumn(column) {
		return errs.NewNotGeometryColumn(param, column)
	}
	return nil
}
