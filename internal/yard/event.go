package yard

import "time"

// EventType is the fixed vocabulary of domain events.
type EventType string

const (
	EventTrainCreated     EventType = "train:created"
	EventTrainMoved       EventType = "train:moved"
	EventTrainUpdated     EventType = "train:updated"
	EventTrainQueued      EventType = "train:queued"
	EventTrainRemoved     EventType = "train:removed"
	EventInspectionResult EventType = "inspection:result"
	EventWorkshopUpdated  EventType = "workshop:updated"
	EventPlanPreview      EventType = "plan:preview"
	EventSimSpeed         EventType = "sim:speed"
)

// Severity classifies an event for subscribers.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// Event is one immutable record in the append-only yard log.
//
// Seq is stamped from the engine's logical clock: strictly increasing,
// so the log order is reconstructible without wall-clock comparisons.
// Every state-changing operation emits exactly one event before it
// returns; events are never mutated after emission.
type Event struct {
	ID        string         `json:"id"`
	Seq       int64          `json:"seq"`
	Timestamp time.Time      `json:"timestamp"`
	Type      EventType      `json:"type"`
	TrainID   string         `json:"train_id,omitempty"`
	Message   string         `json:"message"`
	Severity  Severity       `json:"severity"`
	Data      map[string]any `json:"data,omitempty"`
}
