package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/rwaldren/shuntyard/internal/yard"
)

// TraceSnapshot is the canonical serialization of a scenario trace,
// the unit golden files are compared against.
type TraceSnapshot struct {
	Scenario string
	Trace    []TraceEvent
}

// toCanonicalMap lowers the snapshot to the primitive types
// yard.MarshalCanonical accepts.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	events := make([]any, len(s.Trace))
	for i, ev := range s.Trace {
		m := map[string]any{
			"seq":      ev.Seq,
			"type":     ev.Type,
			"severity": ev.Severity,
			"message":  ev.Message,
		}
		if ev.Train != "" {
			m["train"] = ev.Train
		}
		events[i] = m
	}
	return map[string]any{
		"scenario": s.Scenario,
		"trace":    events,
	}
}

// RunWithGolden executes a scenario and compares its trace against
// testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
//
// Assertion failures inside the scenario fail the test before the
// golden comparison runs.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, f := range result.Failures {
		t.Errorf("scenario %s: %v", scenario.Name, f)
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already-obtained result's trace against a
// golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{Scenario: scenarioName, Trace: result.Trace}
	traceJSON, err := yard.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)
	return nil
}
