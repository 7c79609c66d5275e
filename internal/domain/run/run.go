package run

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// seqCounter numbers runs within the process, handy when reading logs
var seqCounter uint64

// Stage names a phase of a join run
type Stage string

const (
	StageValidate  Stage = "validate"
	StageIndex     Stage = "index"
	StageCandidate Stage = "candidates"
	StageRefine    Stage = "refine"
	StageMerge     Stage = "merge"
)

// Run is the context of one join invocation
type Run struct {
	ID        string    // Unique run identifier (UUID)
	Seq       uint64    // Process-local sequence number
	StartTime time.Time // When the run began
	Stages    []Stage   // Stages completed so far
}

// New creates a run with a unique ID
func New() *Run {
	return &Run{
		ID:        uuid.New().String(),
		Seq:       atomic.AddUint64(&seqCounter, 1),
		StartTime: time.Now(),
		Stages:    make([]Stage, 0, 5),
	}
}

// Mark records a completed stage
func (r *Run) Mark(s Stage) {
	r.Stages = append(r.Stages, s)
}

// Completed returns a copy of the stages marked so far
func (r *Run) Completed() []Stage {
	out := make([]Stage, len(r.Stages))
	copy(out, r.Stages)
	return out
}

// Elapsed returns the time since the run started
func (r *Run) Elapsed() time.Duration {
	return time.Since(r.StartTime)
}
