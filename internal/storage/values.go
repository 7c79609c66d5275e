package storage

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/leengari/geojoin/internal/domain/frame"
	"github.com/leengari/geojoin/internal/geometry"
)

// Column types recorded in meta.json and used by the exporters
const (
	TypeNull     = "null"
	TypeInt64    = "int64"
	TypeFloat64  = "float64"
	TypeBool     = "bool"
	TypeString   = "string"
	TypeGeometry = "geometry"
)

// InferType returns the type shared by every non-nil value. Integers
// mixed with floats widen to float64; any other mix is string.
func InferType(values []interface{}) string {
	t := TypeNull
	for _, v := range values {
		vt := typeOf(v)
		switch {
		case vt == TypeNull:
		case t == TypeNull:
			t = vt
		case t == vt:
		case (t == TypeInt64 && vt == TypeFloat64) || (t == TypeFloat64 && vt == TypeInt64):
			t = TypeFloat64
		default:
			return TypeString
		}
	}
	return t
}

func typeOf(v interface{}) string {
	switch v.(type) {
	case nil:
		return TypeNull
	case int, int32, int64:
		return TypeInt64
	case float32, float64:
		return TypeFloat64
	case bool:
		return TypeBool
	case string:
		return TypeString
	case geometry.Geometry:
		return TypeGeometry
	}
	return TypeString
}

// normalizeJSON converts decoded JSON numbers to int64 when integral and
// float64 otherwise
func normalizeJSON(v interface{}) interface{} {
	switch x := v.(type) {
	case json.Number:
		if i, err := strconv.ParseInt(string(x), 10, 64); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return string(x)
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return int64(x)
		}
		return x
	}
	return v
}

// parseCell infers the value of a text cell: empty is nil, then int64,
// float64 and bool are tried before falling back to the text itself
func parseCell(s string) interface{} {
	if s == "" {
		return nil
	}
	if looksNumeric(s) {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

// looksNumeric reports whether s is plain decimal notation. Text with a
// leading zero such as "007" stays an identifier, and NaN, Inf and hex
// forms are left as text even though strconv accepts them.
func looksNumeric(s string) bool {
	digits := strings.TrimLeft(s, "+-")
	if len(s)-len(digits) > 1 || digits == "" {
		return false
	}
	if c := digits[0]; c != '.' && (c < '0' || c > '9') {
		return false
	}
	if len(digits) > 1 && digits[0] == '0' {
		switch digits[1] {
		case '.', 'e', 'E':
		default:
			return false
		}
	}
	return true
}

// formatCell renders a value for text formats. Geometries become WKT and
// nil becomes "".
func formatCell(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case geometry.Geometry:
		return x.WKT()
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// WithIndexColumns returns gf with a non-trivial index moved into leading
// columns, so flat formats keep the identifiers. Range indexes are dropped.
func WithIndexColumns(gf *frame.GeoFrame) (*frame.GeoFrame, error) {
	if gf.Index().IsRange() {
		return gf, nil
	}
	return gf.ResetIndex()
}
