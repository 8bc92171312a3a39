package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/rwaldren/shuntyard/internal/yard"
)

// RecommendWorkshops scores every free workshop line for the train,
// best first. A wheel-alignment failure is a hard constraint, not a
// preference: only the line specialized for it is eligible, regardless
// of score. An empty result means no eligible line is free.
func (e *Engine) RecommendWorkshops(trainID string) []yard.Recommendation {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.trains[trainID]
	if !ok {
		return nil
	}
	return e.recommendWorkshops(t)
}

func (e *Engine) recommendWorkshops(t *yard.Train) []yard.Recommendation {
	needsAlignment := t.HasFailure(yard.FailureWheelAlignment)

	var recs []yard.Recommendation
	for _, line := range e.workshops {
		if line.Status != yard.ResourceFree {
			continue
		}
		if needsAlignment && line.Specialization != yard.FailureWheelAlignment {
			continue
		}

		score := 100.0
		var reasoning []string

		if line.Specialization != "" && t.HasFailure(line.Specialization) {
			score += 50
			reasoning = append(reasoning, fmt.Sprintf("Line specializes in %s", line.Specialization))
		}
		if t.Priority && line.Primary {
			score += 10
			reasoning = append(reasoning, "Primary line preferred for priority train")
		}

		recs = append(recs, yard.Recommendation{
			TargetID:   line.ID,
			TargetType: yard.TargetWorkshop,
			Score:      score,
			Distance:   e.topo.Distance(t.Location, line.NodeID),
			ETAToPark:  e.etaToPark(t.Location, line.NodeID),
			Reasoning:  reasoning,
		})
	}

	// Workshop lines are few: sorted but never truncated.
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	return recs
}

// AssignToWorkshop routes a train onto a workshop line and schedules
// the repair completion. Same silent exclusivity guard as siding
// assignment.
func (e *Engine) AssignToWorkshop(trainID, lineID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.assignToWorkshop(trainID, lineID)
}

func (e *Engine) assignToWorkshop(trainID, lineID string) {
	t, ok := e.trains[trainID]
	if !ok {
		return
	}
	line := e.workshopByID(lineID)
	if line == nil || line.Status != yard.ResourceFree {
		return
	}

	line.Status = yard.ResourceOccupied
	line.OccupiedBy = t.ID

	t.Status = yard.StatusWorkshop
	t.Location = line.NodeID
	e.touch(t)

	e.emit(yard.EventTrainMoved, t.ID, yard.SeverityInfo,
		fmt.Sprintf("train %s moved to workshop %s", t.Number, line.ID),
		map[string]any{"target": line.ID})

	e.schedule(repairDuration, func() { e.completeWorkshop(trainID, lineID) })
}

// completeWorkshop fires when a repair timer elapses.
//
// Guarded identically to inspection completion: no-op unless the line
// is still occupied by this exact train. Repair is always full: every
// failure clears, no partial outcomes.
func (e *Engine) completeWorkshop(trainID, lineID string) {
	line := e.workshopByID(lineID)
	if line == nil || line.OccupiedBy != trainID {
		return
	}
	t, ok := e.trains[trainID]
	if !ok {
		return
	}

	t.Failures = []string{}
	for i := range t.JobCard {
		t.JobCard[i].Done = true
	}
	t.Fitness += fitnessRepairBoost
	if t.Fitness > 100 {
		t.Fitness = 100
	}

	line.Status = yard.ResourceFree
	line.OccupiedBy = ""

	t.Status = yard.StatusMoving
	e.touch(t)

	e.emit(yard.EventWorkshopUpdated, t.ID, yard.SeveritySuccess,
		fmt.Sprintf("train %s repaired at %s, fitness %d", t.Number, line.ID, t.Fitness),
		map[string]any{"fitness": t.Fitness})

	// Post-repair trains always auto-park: the priority/departSoon
	// exemption applies only after a first-pass inspection.
	recs := e.recommendSidings(t)
	e.emitPlanPreview(t, recs)
	if len(recs) > 0 {
		target := recs[0].TargetID
		e.schedule(pacingDelay, func() { e.assignToSiding(trainID, target) })
	}
}

func (e *Engine) workshopByID(id string) *yard.WorkshopLine {
	for _, w := range e.workshops {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// etaToPark converts a layout distance into a travel time estimate at
// the nominal shunting speed.
func (e *Engine) etaToPark(fromNode, toNode string) time.Duration {
	d := e.topo.Distance(fromNode, toNode)
	return time.Duration(d / averageSpeed * float64(time.Second))
}
