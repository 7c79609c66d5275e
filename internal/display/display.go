// Package display renders GeoFrames as text tables for the terminal
package display

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/leengari/geojoin/internal/domain/frame"
	"github.com/leengari/geojoin/internal/geometry"
)

// Config limits what Render prints. Zero values mean no limit.
type Config struct {
	MaxRows   int
	MaxWidth  int  // longest cell before truncation
	ShowTypes bool // mark geometry columns in the header
}

// DefaultConfig is used by the CLI
func DefaultConfig() Config {
	return Config{MaxRows: 50, MaxWidth: 60, ShowTypes: true}
}

// Render writes gf as a table followed by a shape line. The index is the
// first column; nil cells print as NULL.
func Render(w io.Writer, gf *frame.GeoFrame, cfg Config) {
	header := []string{gf.Index().Name().String()}
	for _, col := range gf.Columns() {
		if cfg.ShowTypes && gf.IsGeometryColumn(col) {
			// Show column with type
			header = append(header, fmt.Sprintf("%s (geometry)", col))
		} else {
			header = append(header, col)
		}
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader(header)

	n := gf.Len()
	if cfg.MaxRows > 0 && n > cfg.MaxRows {
		n = cfg.MaxRows
	}

	for pos := 0; pos < n; pos++ {
		row := make([]string, 0, len(header))
		label := gf.Index().Label(pos)
		if label.IsNull() {
			row = append(row, "NULL")
		} else {
			row = append(row, cell(label.String(), cfg.MaxWidth))
		}
		for _, col := range gf.Columns() {
			row = append(row, cell(format(gf.Value(pos, col)), cfg.MaxWidth))
		}
		table.Append(row)
	}
	table.Render()

	if n < gf.Len() {
		fmt.Fprintf(w, "... %d more rows\n", gf.Len()-n)
	}
	fmt.Fprintf(w, "[%d rows x %d columns]\n", gf.Len(), len(gf.Columns()))
}

func format(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case geometry.Geometry:
		return x.WKT()
	}
	return fmt.Sprintf("%v", v)
}

func cell(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
