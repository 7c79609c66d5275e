// Package fixture generates expected outputs for the geometry test data by
// running each binary ST_ function over pairs of WKT inputs.
package fixture

import (
	"fmt"

	"github.com/leengari/geojoin/internal/domain/errs"
)

// Function is one ST_ function with its input and output file names
type Function struct {
	Name            string // suffix after "st_"
	Input           string // file under the data directory
	Output          string // file under the expected directory, prefixed "st_"
	ReturnsGeometry bool   // result is wrapped in st_astext
}

// Functions lists every generated function in generation order
var Functions = []Function{
	{Name: "within", Input: "within.csv", Output: "within.out"},
	{Name: "equals", Input: "equals.csv", Output: "equals.out"},
	{Name: "distance", Input: "distance.csv", Output: "distance.out"},
	{Name: "contains", Input: "contains.csv", Output: "contains.out"},
	{Name: "intersects", Input: "intersects.csv", Output: "intersects.out"},
	{Name: "crosses", Input: "crosses.csv", Output: "crosses.out"},
	{Name: "overlaps", Input: "overlaps.csv", Output: "overlaps.out"},
	{Name: "touches", Input: "touches.csv", Output: "touches.out"},
	{Name: "hausdorffdistance", Input: "hausdorff_distance.csv", Output: "hausdorff_distance.out"},
	{Name: "distancesphere", Input: "distance_sphere.csv", Output: "distance_sphere.out"},
	{Name: "disjoint", Input: "disjoint.csv", Output: "disjoint.out"},
	{Name: "symdifference", Input: "symmetric_difference.csv", Output: "symmetric_difference.out", ReturnsGeometry: true},
	{Name: "difference", Input: "difference.csv", Output: "difference.out", ReturnsGeometry: true},
	{Name: "intersection", Input: "intersection.csv", Output: "intersection.out", ReturnsGeometry: true},
	{Name: "union", Input: "union.csv", Output: "union.out", ReturnsGeometry: true},
}

// SQLName is the PostGIS function name
func (f Function) SQLName() string {
	return "st_" + f.Name
}

// ExpectedFile is the output file name
func (f Function) ExpectedFile() string {
	return "st_" + f.Output
}

// Query returns the select evaluating f over every row of table
func (f Function) Query(table string) string {
	expr := fmt.Sprintf("%s(st_geomfromtext(geos_left), st_geomfromtext(geos_right))", f.SQLName())
	if f.ReturnsGeometry {
		expr = fmt.Sprintf("st_astext(%s)", expr)
	}
	return fmt.Sprintf("select %s from %s order by id", expr, table)
}

// Select returns the functions named in only, in table order. An empty
// list selects everything.
func Select(only []string) ([]Function, error) {
	if len(only) == 0 {
		return Functions, nil
	}

	want := make(map[string]bool, len(only))
	for _, name := range only {
		want[name] = true
	}

	out := make([]Function, 0, len(only))
	for _, f := range Functions {
		if want[f.Name] {
			out = append(out, f)
			delete(want, f.Name)
		}
	}
	for name := range want {
		return nil, errs.NewInvalidChoice("only", name, names()...)
	}
	return out, nil
}

func names() []string {
	out := make([]string, len(Functions))
	for i, f := range Functions {
		out[i] = f.Name
	}
	return out
}
