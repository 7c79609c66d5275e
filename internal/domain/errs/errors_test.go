package errs

import (
	"errors"
	"io"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestValueErrorMessage(t *testing.T) {
	err := NewInvalidChoice("how", "outer", "inner", "left", "right")
	assert.Equal(t, err.Error(), "value error: how - value=outer - expected one of [inner, left, right] - invalid choice")
}

func TestTypeErrorMessage(t *testing.T) {
	err := NewNotGeoFrame("left_df", nil)
	assert.Check(t, is.Contains(err.Error(), "left_df"))
	assert.Check(t, is.Contains(err.Error(), "expected geo record set"))
}

func TestColumnNotFoundMessage(t *testing.T) {
	assert.Equal(t, (&ColumnNotFoundError{Column: "geom"}).Error(), "column 'geom' not found")
	assert.Equal(t, (&ColumnNotFoundError{Frame: "right", Column: "geom"}).Error(), "column 'geom' not found in right")
}

func TestGeometryErrorUnwrap(t *testing.T) {
	err := &GeometryError{Row: 3, Column: "geom", Value: "POINT(", Err: io.ErrUnexpectedEOF}
	assert.Assert(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Check(t, is.Contains(err.Error(), "at row 3"))
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	var wrapped error = NewReservedName("index_left", []string{"index_left"})
	wrapped = errors.Join(wrapped)

	var ve *ValueError
	assert.Assert(t, errors.As(wrapped, &ve))
	assert.Equal(t, ve.Param, "index_left")
}
