package harness

import (
	"github.com/rwaldren/shuntyard/internal/engine"
	"github.com/rwaldren/shuntyard/internal/yard"
)

// TraceEvent is one entry in a scenario's trace: the event log reduced
// to its deterministic fields. Trains are identified by number rather
// than id so traces read the same regardless of id generation.
type TraceEvent struct {
	Seq      int64  `json:"seq"`
	Type     string `json:"type"`
	Train    string `json:"train,omitempty"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Result is the outcome of running one scenario.
type Result struct {
	Scenario string
	Passed   bool
	Failures []error // assertion failures; empty when Passed
	Trace    []TraceEvent
	Events   []yard.Event    // full event log, for journaling
	Final    engine.Snapshot // aggregate state after the last step
}
