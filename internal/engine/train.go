package engine

import (
	"fmt"

	"github.com/rwaldren/shuntyard/internal/yard"
)

// TrainAttrs carries the caller-supplied subset of a new train's
// attributes. Nil/zero fields are defaulted.
type TrainAttrs struct {
	Number      string
	Fitness     *int
	Mileage     *int
	Orientation string
	JobCard     []yard.Task
	Failures    []string
	Priority    bool
	DepartSoon  bool
}

// CreateTrain registers a new train at the entry node with status
// arriving, defaults omitted attributes, emits train:created, and
// schedules the first inspection attempt after the pacing delay.
// Returns the generated train id.
func (e *Engine) CreateTrain(attrs TrainAttrs) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.createTrain(attrs)
}

func (e *Engine) createTrain(attrs TrainAttrs) string {
	e.trainCounter++

	number := attrs.Number
	if number == "" {
		number = fmt.Sprintf("T-%d", 100+e.trainCounter)
	}
	fitness := 60 + e.dice.IntN(41) // 60-100
	if attrs.Fitness != nil {
		fitness = *attrs.Fitness
	}
	mileage := 10_000 + e.dice.IntN(490_001) // 10k-500k
	if attrs.Mileage != nil {
		mileage = *attrs.Mileage
	}
	failures := attrs.Failures
	if failures == nil {
		failures = []string{}
	}

	now := e.clock.Now()
	t := &yard.Train{
		ID:          e.ids.Generate(),
		Number:      number,
		Status:      yard.StatusArriving,
		Location:    e.topo.Entry,
		Orientation: attrs.Orientation,
		Fitness:     fitness,
		Mileage:     mileage,
		JobCard:     attrs.JobCard,
		Failures:    failures,
		Priority:    attrs.Priority,
		DepartSoon:  attrs.DepartSoon,
		ArrivalTime: now,
		LastUpdated: now,
	}
	e.trains[t.ID] = t
	e.order = append(e.order, t.ID)

	e.emit(yard.EventTrainCreated, t.ID, yard.SeverityInfo,
		fmt.Sprintf("train %s arrived at %s", t.Number, e.topo.Entry),
		map[string]any{"number": t.Number, "fitness": t.Fitness})

	id := t.ID
	e.schedule(pacingDelay, func() { e.enterInspection(id) })

	return t.ID
}

// RemoveTrain deletes a train from the registry, freeing any resource
// it holds, and emits train:removed. Missing ids are ignored silently.
//
// Any timers still pending for the train no-op through their occupant
// guards once the resource is freed.
func (e *Engine) RemoveTrain(trainID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.trains[trainID]
	if !ok {
		return
	}

	e.releaseResources(trainID)
	delete(e.trains, trainID)
	for i, id := range e.order {
		if id == trainID {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}

	e.emit(yard.EventTrainRemoved, trainID, yard.SeverityInfo,
		fmt.Sprintf("train %s removed from yard", t.Number), nil)

	// A freed bay may unblock queued arrivals.
	e.reevaluateQueued()
}

// releaseResources frees every resource occupied by trainID.
// Caller must hold e.mu.
func (e *Engine) releaseResources(trainID string) {
	for _, b := range e.bays {
		if b.OccupiedBy == trainID {
			b.Status = yard.ResourceFree
			b.OccupiedBy = ""
		}
	}
	for _, w := range e.workshops {
		if w.OccupiedBy == trainID {
			w.Status = yard.ResourceFree
			w.OccupiedBy = ""
		}
	}
	for _, s := range e.slots {
		if s.OccupiedBy == trainID {
			s.Status = yard.ResourceFree
			s.OccupiedBy = ""
		}
	}
}

// Train returns a deep copy of the train record, or nil if unknown.
func (e *Engine) Train(trainID string) *yard.Train {
	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.trains[trainID]; ok {
		return t.Clone()
	}
	return nil
}

// TrainByNumber returns a deep copy of the train with the given
// human-facing number, or nil if none matches.
func (e *Engine) TrainByNumber(number string) *yard.Train {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, id := range e.order {
		if t := e.trains[id]; t.Number == number {
			return t.Clone()
		}
	}
	return nil
}

// touch refreshes a train's LastUpdated stamp. Caller must hold e.mu.
func (e *Engine) touch(t *yard.Train) {
	t.LastUpdated = e.clock.Now()
}
