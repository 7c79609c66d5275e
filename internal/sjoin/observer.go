package sjoin

import (
	"log/slog"
	"time"

	"github.com/leengari/geojoin/internal/domain/run"
)

// EventType represents the phases of a join
type EventType string

const (
	EventJoinStart   EventType = "join_start"
	EventCRSMismatch EventType = "crs_mismatch"
	EventIndexSide   EventType = "index_side"
	EventCandidates  EventType = "candidates"
	EventRefined     EventType = "refined"
	EventJoinEnd     EventType = "join_end"
)

// Event is one lifecycle event of a join run
type Event struct {
	Type      EventType   // Type of event
	RunID     string      // Run ID for tracing
	Timestamp time.Time   // When the event occurred
	Data      interface{} // Phase-specific data
}

// Observer receives join lifecycle events
type Observer interface {
	OnEvent(event Event)
}

// StartInfo is the data of EventJoinStart
type StartInfo struct {
	How       How
	Op        Op
	LeftRows  int
	RightRows int
}

// CRSMismatch is the data of EventCRSMismatch
type CRSMismatch struct {
	Left  string
	Right string
}

// IndexSide is the data of EventIndexSide
type IndexSide struct {
	Right   bool // index built over the right side
	Reused  bool // the index already existed
	Indexed int  // geometries in the index
}

// EndInfo is the data of EventJoinEnd
type EndInfo struct {
	Seq     uint64      // process-local run number
	Rows    int         // rows in the result
	Stages  []run.Stage // stages completed, in order
	Elapsed time.Duration
}

// LoggingObserver logs every event using structured logging
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver creates a logging observer on the default logger
func NewLoggingObserver() *LoggingObserver {
	return &LoggingObserver{
		logger: slog.Default(),
	}
}

// OnEvent implements the Observer interface
func (lo *LoggingObserver) OnEvent(event Event) {
	lo.logger.Debug("sjoin_lifecycle",
		"event", event.Type,
		"run_id", event.RunID,
		"timestamp", event.Timestamp,
		"data", event.Data,
	)
}
