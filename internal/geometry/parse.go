package geometry

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

const sridPrefix = "SRID="
const sridPrefixLen = len(sridPrefix)

// Parse decodes text in any of the encodings geometry columns carry,
// using the first character as a heuristic the same way PostGIS casts
// text to geometry: '0' is hex WKB, '{' is GeoJSON, anything else EWKT.
// Blank text is the empty geometry.
func Parse(s string) (Geometry, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Empty(), nil
	}

	switch s[0] {
	case '0':
		return ParseWKBHex(s)
	case '{':
		return ParseGeoJSON([]byte(s))
	}

	g, _, err := ParseEWKT(s)
	return g, err
}

// ParseEWKT decodes WKT with an optional "SRID=n;" prefix. srid is 0 when
// no prefix is present.
func ParseEWKT(s string) (g Geometry, srid int, err error) {
	s = strings.TrimSpace(s)
	if len(s) >= sridPrefixLen && strings.EqualFold(s[:sridPrefixLen], sridPrefix) {
		end := strings.Index(s[sridPrefixLen:], ";")
		if end == -1 {
			return Geometry{}, 0, errors.Newf(
				"geometry: failed to find ; character with SRID declaration during EWKT decode: %q", s)
		}
		n, err := strconv.ParseInt(s[sridPrefixLen:sridPrefixLen+end], 10, 32)
		if err != nil {
			return Geometry{}, 0, errors.Wrapf(err, "geometry: invalid SRID in %q", s)
		}
		srid = int(n)
		s = s[sridPrefixLen+end+1:]
	}

	g, err = ParseWKT(s)
	return g, srid, err
}

// ParseWKT decodes well-known text. "<TYPE> EMPTY" is the empty geometry.
func ParseWKT(s string) (Geometry, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(strings.ToUpper(s), "EMPTY") {
		return Empty(), nil
	}

	g, err := wkt.Unmarshal(s)
	if err != nil {
		return Geometry{}, errors.Wrapf(err, "geometry: parse wkt %q", truncate(s))
	}
	return FromOrb(g)
}

// MustParseWKT is ParseWKT that panics on error
func MustParseWKT(s string) Geometry {
	g, err := ParseWKT(s)
	if err != nil {
		panic(err)
	}
	return g
}

// ParseWKB decodes well-known binary
func ParseWKB(b []byte) (Geometry, error) {
	g, err := wkb.Unmarshal(b)
	if err != nil {
		return Geometry{}, errors.Wrap(err, "geometry: parse wkb")
	}
	return FromOrb(g)
}

// ParseWKBHex decodes hex-encoded well-known binary
func ParseWKBHex(s string) (Geometry, error) {
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return Geometry{}, errors.Wrapf(err, "geometry: decode hex %q", truncate(s))
	}
	return ParseWKB(b)
}

// ParseGeoJSON decodes a GeoJSON geometry object
func ParseGeoJSON(b []byte) (Geometry, error) {
	g, err := geojson.UnmarshalGeometry(b)
	if err != nil {
		return Geometry{}, errors.Wrap(err, "geometry: parse geojson")
	}
	return FromOrb(g.Geometry())
}

func truncate(s string) string {
	if len(s) > 48 {
		return s[:48] + "..."
	}
	return s
}
