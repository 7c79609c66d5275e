package run

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestNewRunIsUniqueAndSequenced(t *testing.T) {
	a := New()
	b := New()

	assert.Assert(t, a.ID != b.ID)
	assert.Assert(t, b.Seq > a.Seq)
	assert.Assert(t, !a.StartTime.IsZero())
	assert.Equal(t, len(a.Completed()), 0)
}

func TestMarkRecordsStagesInOrder(t *testing.T) {
	r := New()
	r.Mark(StageValidate)
	r.Mark(StageIndex)

	done := r.Completed()
	assert.DeepEqual(t, done, []Stage{StageValidate, StageIndex})

	done[0] = StageMerge
	assert.Equal(t, r.Stages[0], StageValidate)
}
