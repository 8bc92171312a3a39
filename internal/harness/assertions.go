package harness

import (
	"fmt"
	"strings"
)

// AssertionError describes one failed assertion with enough context
// to diagnose the run without re-executing it.
type AssertionError struct {
	Assertion Assertion
	Detail    string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Assertion.Type, e.Detail)
}

func evaluate(a Assertion, r *Result) error {
	switch a.Type {
	case AssertTraceContains:
		return assertTraceContains(a, r)
	case AssertTraceOrder:
		return assertTraceOrder(a, r)
	case AssertTraceCount:
		return assertTraceCount(a, r)
	case AssertTrainStatus:
		return assertTrainStatus(a, r)
	case AssertOccupant:
		return assertOccupant(a, r)
	default:
		return &AssertionError{Assertion: a, Detail: fmt.Sprintf("unknown assertion type %q", a.Type)}
	}
}

func matches(a Assertion, ev TraceEvent) bool {
	if a.Event != "" && ev.Type != a.Event {
		return false
	}
	if a.Train != "" && ev.Train != a.Train {
		return false
	}
	if a.Severity != "" && ev.Severity != a.Severity {
		return false
	}
	return true
}

func assertTraceContains(a Assertion, r *Result) error {
	for _, ev := range r.Trace {
		if matches(a, ev) {
			return nil
		}
	}
	return &AssertionError{
		Assertion: a,
		Detail:    fmt.Sprintf("no event %s%s in trace:\n%s", a.Event, trainSuffix(a), formatTrace(r.Trace)),
	}
}

func assertTraceOrder(a Assertion, r *Result) error {
	next := 0
	for _, ev := range r.Trace {
		if next >= len(a.Events) {
			break
		}
		probe := a
		probe.Event = a.Events[next]
		if matches(probe, ev) {
			next++
		}
	}
	if next < len(a.Events) {
		return &AssertionError{
			Assertion: a,
			Detail: fmt.Sprintf("order broken at %q (matched %d of %d):\n%s",
				a.Events[next], next, len(a.Events), formatTrace(r.Trace)),
		}
	}
	return nil
}

func assertTraceCount(a Assertion, r *Result) error {
	count := 0
	for _, ev := range r.Trace {
		if matches(a, ev) {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Assertion: a,
			Detail: fmt.Sprintf("want %d events %s%s, got %d:\n%s",
				a.Count, a.Event, trainSuffix(a), count, formatTrace(r.Trace)),
		}
	}
	return nil
}

func assertTrainStatus(a Assertion, r *Result) error {
	for _, t := range r.Final.Trains {
		if t.Number == a.Train {
			if string(t.Status) == a.Status {
				return nil
			}
			return &AssertionError{
				Assertion: a,
				Detail:    fmt.Sprintf("train %s has status %q, want %q", a.Train, t.Status, a.Status),
			}
		}
	}
	return &AssertionError{Assertion: a, Detail: fmt.Sprintf("train %s not found in final state", a.Train)}
}

func assertOccupant(a Assertion, r *Result) error {
	// Resolve the asserted train number to its id; OccupiedBy holds ids.
	wantID := ""
	if a.Train != "" {
		for _, t := range r.Final.Trains {
			if t.Number == a.Train {
				wantID = t.ID
				break
			}
		}
		if wantID == "" {
			return &AssertionError{Assertion: a, Detail: fmt.Sprintf("train %s not found in final state", a.Train)}
		}
	}

	got, ok := occupantOf(a.Resource, r)
	if !ok {
		return &AssertionError{Assertion: a, Detail: fmt.Sprintf("unknown resource %q", a.Resource)}
	}
	if got != wantID {
		return &AssertionError{
			Assertion: a,
			Detail:    fmt.Sprintf("resource %s occupied by %q, want %q", a.Resource, got, wantID),
		}
	}
	return nil
}

func occupantOf(resource string, r *Result) (string, bool) {
	for _, b := range r.Final.Bays {
		if b.ID == resource {
			return b.OccupiedBy, true
		}
	}
	for _, w := range r.Final.Workshops {
		if w.ID == resource {
			return w.OccupiedBy, true
		}
	}
	for _, s := range r.Final.Slots {
		if s.ID == resource {
			return s.OccupiedBy, true
		}
	}
	return "", false
}

func trainSuffix(a Assertion) string {
	if a.Train == "" {
		return ""
	}
	return " for train " + a.Train
}

func formatTrace(trace []TraceEvent) string {
	var b strings.Builder
	for _, ev := range trace {
		fmt.Fprintf(&b, "  %3d %-18s %-10s %-8s %s\n", ev.Seq, ev.Type, ev.Train, ev.Severity, ev.Message)
	}
	return b.String()
}
