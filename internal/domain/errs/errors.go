package errs

import (
	"fmt"
	"strings"
)

// TypeError reports an argument of the wrong kind
// (e.g. a plain record set where a geo record set is required)
type TypeError struct {
	Param    string // argument name ("left_df", "lcol", ...)
	Expected string // expected kind
	Got      string // what was passed
}

func (e *TypeError) Error() string {
	parts := []string{fmt.Sprintf("type error: %s", e.Param)}

	if e.Expected != "" {
		parts = append(parts, fmt.Sprintf("expected %s", e.Expected))
	}

	if e.Got != "" {
		parts = append(parts, fmt.Sprintf("got %s", e.Got))
	}

	return strings.Join(parts, " - ")
}

// ValueError reports an argument with an allowed kind but a disallowed value
type ValueError struct {
	Param   string      // argument name
	Value   interface{} // offending value (may be nil)
	Allowed []string    // accepted values, if the set is closed
	Reason  string      // human-readable explanation (optional)
}

func (e *ValueError) Error() string {
	parts := []string{fmt.Sprintf("value error: %s", e.Param)}

	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	if len(e.Allowed) > 0 {
		parts = append(parts, fmt.Sprintf("expected one of [%s]", strings.Join(e.Allowed, ", ")))
	}

	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}

	return strings.Join(parts, " - ")
}

// ColumnNotFoundError reports a missing column
type ColumnNotFoundError struct {
	Frame  string // "left", "right" or a dataset name
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	if e.Frame == "" {
		return fmt.Sprintf("column '%s' not found", e.Column)
	}
	return fmt.Sprintf("column '%s' not found in %s", e.Column, e.Frame)
}

// GeometryError reports a cell that could not be decoded as a geometry
type GeometryError struct {
	Row    int    // row number (0-based), -1 if unknown
	Column string // column name
	Value  string // raw text (may be truncated)
	Err    error
}

func (e *GeometryError) Error() string {
	var parts []string

	parts = append(parts, "geometry error")

	if e.Column != "" {
		parts = append(parts, fmt.Sprintf("column %s", e.Column))
	}

	if e.Row >= 0 {
		parts = append(parts, fmt.Sprintf("at row %d", e.Row))
	}

	if e.Value != "" {
		v := e.Value
		if len(v) > 64 {
			v = v[:64] + "..."
		}
		parts = append(parts, fmt.Sprintf("value=%q", v))
	}

	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	return strings.Join(parts, " - ")
}

func (e *GeometryError) Unwrap() error {
	return e.Err
}

func NewInvalidChoice(param string, value interface{}, allowed ...string) *ValueError {
	return &ValueError{
		Param:   param,
		Value:   value,
		Allowed: allowed,
		Reason:  "invalid choice",
	}
}

func NewReservedName(param string, names []string) *ValueError {
	return &ValueError{
		Param:  param,
		Value:  strings.Join(names, ", "),
		Reason: "reserved bookkeeping column name already present in input",
	}
}

func NewNotGeoFrame(param string, got interface{}) *TypeError {
	return &TypeError{
		Param:    param,
		Expected: "geo record set",
		Got:      fmt.Sprintf("%T", got),
	}
}

func NewNotGeometryColumn(param, column string) *TypeError {
	return &TypeError{
		Param:    param,
		Expected: "geometry column",
		Got:      fmt.Sprintf("non-geometry column '%s'", column),
	}
}
