package sjoin

import (
	"fmt"

	"github.com/leengari/geojoin/internal/domain/frame"
)

// side is one input after its row identifiers were moved into
// bookkeeping columns and its index reset to 0..n-1
type side struct {
	gf        *frame.GeoFrame
	geomCol   string
	suffix    string
	indexCols []string        // bookkeeping columns, leading in gf
	origName  frame.IndexName // name of the caller's index
}

// normalize saves the caller's index name, renames the index to the
// reserved bookkeeping name(s) and materializes it as leading columns.
// The caller's frame is not modified.
func normalize(gf *frame.GeoFrame, geomCol, suffix string) (*side, error) {
	origName := gf.Index().Name()
	base := indexColumn(suffix)

	var cols []string
	var name frame.IndexName
	if origName.IsComposite() {
		cols = make([]string, origName.Arity())
		for i := range cols {
			cols[i] = fmt.Sprintf("%s%d", base, i)
		}
		name = frame.CompositeName(cols...)
	} else {
		cols = []string{base}
		name = frame.ScalarName(base)
	}

	renamed, err := gf.Copy().RenameIndex(name)
	if err != nil {
		return nil, err
	}
	reset, err := renamed.ResetIndex()
	if err != nil {
		return nil, err
	}

	return &side{
		gf:        reset,
		geomCol:   geomCol,
		suffix:    suffix,
		indexCols: cols,
		origName:  origName,
	}, nil
}
