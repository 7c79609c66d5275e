package data

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestRowCopyIsIndependent(t *testing.T) {
	r := Row{"name": "a", "n": int64(1)}
	c := r.Copy()
	c["name"] = "b"
	delete(c, "n")

	assert.Equal(t, r["name"], "a")
	_, ok := r.Get("n")
	assert.Assert(t, ok)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, ScalarLabel(int64(3)).String(), "3")
	assert.Equal(t, Label{"a", int64(1)}.String(), "(a, 1)")
	assert.Assert(t, Label{"a", int64(1)}.Equal(Label{"a", int64(1)}))
	assert.Assert(t, !Label{"a"}.Equal(Label{"a", nil}))
	assert.Assert(t, Label{nil, nil}.IsNull())
	assert.Equal(t, Label{"a", "b"}.Scalar(), nil)
}

func TestJoinedRowMatched(t *testing.T) {
	jr := NewJoinedRow(0, -1)
	jr.Set("x", 1)
	v, ok := jr.Get("x")
	assert.Assert(t, ok)
	assert.Equal(t, v, 1)
	assert.Assert(t, !jr.Matched())
	assert.Assert(t, NewJoinedRow(2, 3).Matched())
}
