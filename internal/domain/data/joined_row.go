package data

import "fmt"

// JoinedRow is one output row of a join together with the positions of
// the rows it was built from. A position of -1 means that side had no
// match and its columns are NULL.
type JoinedRow struct {
	Data     Row
	LeftPos  int
	RightPos int
}

// NewJoinedRow creates a JoinedRow with an initialized data map
func NewJoinedRow(leftPos, rightPos int) JoinedRow {
	return JoinedRow{
		Data:     make(Row),
		LeftPos:  leftPos,
		RightPos: rightPos,
	}
}

// Get retrieves a value by output column name
func (jr JoinedRow) Get(column string) (interface{}, bool) {
	val, exists := jr.Data[column]
	return val, exists
}

// Set adds or updates a value
func (jr JoinedRow) Set(column string, value interface{}) {
	jr.Data[column] = value
}

// Matched reports whether both sides contributed
func (jr JoinedRow) Matched() bool {
	return jr.LeftPos >= 0 && jr.RightPos >= 0
}

// String returns a string representation for debugging
func (jr JoinedRow) String() string {
	return fmt.Sprintf("JoinedRow[%d,%d]%v", jr.LeftPos, jr.RightPos, jr.Data)
}
