package engine

import (
	"fmt"

	"github.com/rwaldren/shuntyard/internal/yard"
)

// enterInspection scans the configured inspection bays in declaration
// order and claims the first free one. If none is free the train is
// set to queued (a holding state re-evaluated whenever any bay frees);
// no bay is ever reserved speculatively. Caller must hold e.mu.
func (e *Engine) enterInspection(trainID string) {
	t, ok := e.trains[trainID]
	if !ok {
		return
	}
	if t.Status != yard.StatusArriving && t.Status != yard.StatusQueued {
		return
	}

	for _, bay := range e.bays {
		if bay.Status != yard.ResourceFree {
			continue
		}
		// Claim and occupancy-check happen in the same synchronous
		// step: this is the exclusivity gate.
		bay.Status = yard.ResourceOccupied
		bay.OccupiedBy = t.ID
		bay.InspectionStart = e.clock.Now()

		t.Status = yard.StatusInspection
		t.Location = bay.NodeID
		e.touch(t)

		e.emit(yard.EventTrainMoved, t.ID, yard.SeverityInfo,
			fmt.Sprintf("train %s moved to inspection bay %s", t.Number, bay.ID),
			map[string]any{"target": bay.ID})

		bayID := bay.ID
		e.schedule(inspectionDuration, func() { e.completeInspection(trainID, bayID) })
		return
	}

	// No bay free. Emit the warning once, on the transition into queued.
	if t.Status != yard.StatusQueued {
		t.Status = yard.StatusQueued
		e.touch(t)
		e.emit(yard.EventTrainQueued, t.ID, yard.SeverityWarning,
			fmt.Sprintf("train %s queued: no inspection bay free", t.Number), nil)
	}
}

// completeInspection fires when an inspection timer elapses.
//
// Guard: no-op unless the bay is still occupied by this exact train.
// This is what keeps stale timers from acting on reassigned or removed
// trains; it must hold for every completion handler.
func (e *Engine) completeInspection(trainID, bayID string) {
	bay := e.bayByID(bayID)
	if bay == nil || bay.OccupiedBy != trainID {
		return
	}
	t, ok := e.trains[trainID]
	if !ok {
		return
	}

	// Pass/fail is stochastic; failures are not cleared by inspection
	// itself, only by a workshop visit.
	prob := passProbClean
	if len(t.Failures) > 0 {
		prob = passProbDefective
	}
	passed := e.dice.Float64() < prob

	// The bay frees unconditionally, pass or fail.
	bay.Status = yard.ResourceFree
	bay.OccupiedBy = ""

	t.Status = yard.StatusMoving
	e.touch(t)

	severity := yard.SeveritySuccess
	outcome := "passed"
	if !passed {
		severity = yard.SeverityWarning
		outcome = "failed"
	}
	e.emit(yard.EventInspectionResult, t.ID, severity,
		fmt.Sprintf("train %s %s inspection", t.Number, outcome),
		map[string]any{"passed": passed})

	if passed {
		recs := e.recommendSidings(t)
		e.emitPlanPreview(t, recs)
		// Priority and departSoon trains wait for an explicit
		// assignment after a passed inspection.
		if len(recs) > 0 && !t.Priority && !t.DepartSoon {
			target := recs[0].TargetID
			e.schedule(pacingDelay, func() { e.assignToSiding(trainID, target) })
		}
	} else {
		recs := e.recommendWorkshops(t)
		e.emitPlanPreview(t, recs)
		// Workshop auto-commit is unconditional.
		if len(recs) > 0 {
			target := recs[0].TargetID
			e.schedule(pacingDelay, func() { e.assignToWorkshop(trainID, target) })
		}
	}

	e.reevaluateQueued()
}

// reevaluateQueued retries inspection entry for every queued train.
// Order is train creation order, not arrival-timestamp order; stable
// and deterministic. Caller must hold e.mu.
func (e *Engine) reevaluateQueued() {
	for _, id := range e.order {
		if t, ok := e.trains[id]; ok && t.Status == yard.StatusQueued {
			e.enterInspection(id)
		}
	}
}

// emitPlanPreview publishes a ranked recommendation list for
// subscribers. Recommendations are ephemeral: nothing here mutates
// yard state. Caller must hold e.mu.
func (e *Engine) emitPlanPreview(t *yard.Train, recs []yard.Recommendation) {
	targets := make([]any, len(recs))
	for i, r := range recs {
		targets[i] = map[string]any{
			"target": r.TargetID,
			"type":   string(r.TargetType),
			"score":  r.Score,
		}
	}
	e.emit(yard.EventPlanPreview, t.ID, yard.SeverityInfo,
		fmt.Sprintf("%d candidate destinations for train %s", len(recs), t.Number),
		map[string]any{"targets": targets})
}

func (e *Engine) bayByID(id string) *yard.Bay {
	for _, b := range e.bays {
		if b.ID == id {
			return b
		}
	}
	return nil
}
