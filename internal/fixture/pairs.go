package fixture

import (
	"encoding/csv"
	"io"

	"github.com/cockroachdb/errors"
)

// Pair is one input row: two geometries as WKT
type Pair struct {
	Left  string
	Right string
}

// ReadPairs reads a '|' delimited file with a header row and two columns
func ReadPairs(r io.Reader) ([]Pair, error) {
	cr := csv.NewReader(r)
	cr.Comma = '|'
	cr.FieldsPerRecord = 2
	cr.LazyQuotes = true

	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, errors.New("fixture input is empty")
		}
		return nil, errors.Wrap(err, "read fixture header")
	}

	var pairs []Pair
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read fixture row %d", len(pairs)+1)
		}
		pairs = append(pairs, Pair{Left: rec[0], Right: rec[1]})
	}
	return pairs, nil
}
