package engine

import (
	"fmt"
	"sort"

	"github.com/rwaldren/shuntyard/internal/yard"
)

// RecommendSidings scores every free siding slot for the given train
// and returns the top candidates, best first. The result is ephemeral
// and purely advisory; nothing is reserved.
func (e *Engine) RecommendSidings(trainID string) []yard.Recommendation {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.trains[trainID]
	if !ok {
		return nil
	}
	return e.recommendSidings(t)
}

// recommendSidings is the scoring core. Score terms are additive and
// order-independent; the floor is 0. Caller must hold e.mu.
func (e *Engine) recommendSidings(t *yard.Train) []yard.Recommendation {
	var recs []yard.Recommendation

	for _, slot := range e.slots {
		if slot.Status != yard.ResourceFree {
			continue
		}

		score := 100.0
		var reasoning, warnings []string

		if t.DepartSoon {
			if slot.Slot == yard.SlotA {
				score += 20
			} else {
				score -= 10
			}
		}

		score -= slot.ReverseCost * 5

		switch slot.BlockingRisk {
		case yard.RiskLow:
			score += 10
		case yard.RiskHigh:
			score -= 10
		}

		if t.Priority {
			// Lower-numbered sidings sit closer to the exit throat.
			score += float64(yard.TopSidingNumber-slot.SidingNumber) * 2
		}

		if score < 0 {
			score = 0
		}

		// Reasoning and warnings are independent rule checks,
		// explanatory only; the score is the sole ranking input.
		if slot.Slot == yard.SlotA {
			reasoning = append(reasoning, "Front position allows direct departure")
		}
		if slot.BlockingRisk == yard.RiskLow {
			reasoning = append(reasoning, "Low blocking risk")
		}
		if t.DepartSoon && slot.Slot == yard.SlotA {
			reasoning = append(reasoning, "Good fit for imminent departure")
		}
		if t.Priority {
			reasoning = append(reasoning, fmt.Sprintf("Siding %d is close to the exit", slot.SidingNumber))
		}
		if slot.BlockingRisk == yard.RiskHigh {
			warnings = append(warnings, "High blocking risk")
		}
		if t.DepartSoon && slot.Slot == yard.SlotB {
			warnings = append(warnings, "Rear position may delay morning departure")
		}
		if slot.ReverseCost > 2 {
			warnings = append(warnings, "High reverse cost")
		}

		distance := e.topo.Distance(t.Location, slot.NodeID)
		shunt := 0
		if slot.Slot == yard.SlotB {
			shunt = 1
		}

		recs = append(recs, yard.Recommendation{
			TargetID:     slot.ID,
			TargetType:   yard.TargetSiding,
			Score:        score,
			ReverseCost:  slot.ReverseCost,
			Distance:     distance,
			BlockingRisk: slot.BlockingRisk,
			ETAToPark:    e.etaToPark(t.Location, slot.NodeID),
			ShuntSteps:   shunt,
			Reasoning:    reasoning,
			Warnings:     warnings,
		})
	}

	// Stable sort: ties keep slot declaration order.
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if len(recs) > maxSidingRecommendations {
		recs = recs[:maxSidingRecommendations]
	}
	return recs
}

// AssignToSiding parks a train on a siding slot.
//
// Fails silently, with no state change and no event, if the train or slot is
// missing or the slot is already occupied. The occupancy check is the
// exclusivity guard: check and claim happen in one synchronous step, so
// no slot is ever claimed by two trains even momentarily.
func (e *Engine) AssignToSiding(trainID, slotID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.assignToSiding(trainID, slotID)
}

func (e *Engine) assignToSiding(trainID, slotID string) {
	t, ok := e.trains[trainID]
	if !ok {
		return
	}
	slot := e.slotByID(slotID)
	if slot == nil || slot.Status != yard.ResourceFree {
		return
	}

	slot.Status = yard.ResourceOccupied
	slot.OccupiedBy = t.ID

	t.Status = yard.StatusParked
	t.Location = slot.NodeID
	e.touch(t)

	e.emit(yard.EventTrainMoved, t.ID, yard.SeveritySuccess,
		fmt.Sprintf("train %s parked at siding slot %s", t.Number, slot.ID),
		map[string]any{"target": slot.ID})
	// Parked is stable: no timer until an external command moves the
	// train again.
}

func (e *Engine) slotByID(id string) *yard.SidingSlot {
	for _, s := range e.slots {
		if s.ID == id {
			return s
		}
	}
	return nil
}
