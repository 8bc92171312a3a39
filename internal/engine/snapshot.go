package engine

import (
	"time"

	"github.com/rwaldren/shuntyard/internal/yard"
)

// Snapshot is an immutable copy of the full aggregate state. Callers
// never receive a live reference they could mutate.
type Snapshot struct {
	Now       time.Time            `json:"now"`
	Speed     float64              `json:"speed"`
	Trains    []yard.Train         `json:"trains"`
	Bays      []yard.Bay           `json:"bays"`
	Workshops []yard.WorkshopLine  `json:"workshops"`
	Slots     []yard.SidingSlot    `json:"slots"`
	Events    []yard.Event         `json:"events"`
}

// Snapshot deep-copies the aggregate. Trains are listed in creation
// order; resources in declaration order; events in emission order.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Now:   e.clock.Now(),
		Speed: e.speed,
	}
	for _, id := range e.order {
		snap.Trains = append(snap.Trains, *e.trains[id].Clone())
	}
	for _, b := range e.bays {
		snap.Bays = append(snap.Bays, *b)
	}
	for _, w := range e.workshops {
		snap.Workshops = append(snap.Workshops, *w)
	}
	for _, s := range e.slots {
		snap.Slots = append(snap.Slots, *s)
	}
	snap.Events = make([]yard.Event, len(e.bus.log))
	copy(snap.Events, e.bus.log)
	return snap
}
