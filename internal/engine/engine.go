// Package engine implements the yard simulation and assignment engine.
//
// The engine owns the whole mutable aggregate: the train registry, the
// three resource registries (inspection bays, workshop lines, siding
// slots), the event log, and the simulation speed multiplier. External
// code interacts through commands (Submit), direct operations
// (CreateTrain, AssignToSiding, ...), snapshot reads, and the event
// stream, never through live references into the aggregate.
//
// Concurrency model: single-threaded cooperative scheduling. Every
// public entry point takes the one engine mutex, and time-delayed phase
// transitions (inspection timers, repair timers, pacing delays) fire as
// scheduled tasks that re-enter the engine sequentially under the same
// lock. Between a command's invocation and its return, execution is
// atomic. Scheduled tasks are never cancelled; a stale task no-ops via
// an occupant guard instead of corrupting state.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rwaldren/shuntyard/internal/yard"
)

// Timing and scoring constants. Durations are base values, scaled by
// the simulation speed multiplier at scheduling time.
const (
	pacingDelay        = 1500 * time.Millisecond
	inspectionDuration = 20 * time.Second
	repairDuration     = 45 * time.Second

	// averageSpeed converts straight-line distance (topology units)
	// into ETA seconds.
	averageSpeed = 2.0

	fitnessRepairBoost = 15

	passProbClean     = 0.8
	passProbDefective = 0.3

	maxSidingRecommendations = 5
)

// Simulation speed multiplier bounds. The multiplier scales every
// scheduled duration, so 0.25 runs four times faster than real time.
const (
	MinSpeed = 0.25
	MaxSpeed = 4.0
)

// Engine is the yard simulation engine.
type Engine struct {
	mu sync.Mutex

	topo  *yard.Topology
	clock *VirtualClock
	seq   *Sequence
	ids   IDGenerator
	dice  Dice
	bus   *eventBus

	trains map[string]*yard.Train
	order  []string // train ids in creation order

	bays      []*yard.Bay
	workshops []*yard.WorkshopLine
	slots     []*yard.SidingSlot

	speed        float64
	trainCounter int

	timers   taskHeap
	timerSeq int64
	wake     chan struct{}
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithStart sets the initial simulation time. Defaults to time.Now().
func WithStart(t time.Time) Option {
	return func(e *Engine) { e.clock = NewVirtualClock(t) }
}

// WithIDGenerator overrides id generation (tests use SequentialGenerator).
func WithIDGenerator(g IDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithDice overrides the randomness source.
func WithDice(d Dice) Option {
	return func(e *Engine) { e.dice = d }
}

// WithSeed seeds the default randomness source for reproducible runs.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.dice = seededDice(seed) }
}

// WithSpeed sets the initial simulation speed multiplier, clamped to
// [MinSpeed, MaxSpeed].
func WithSpeed(speed float64) Option {
	return func(e *Engine) { e.speed = clampSpeed(speed) }
}

// New builds an engine over the given topology, constructing the three
// resource registries from the classified node lists. The topology is
// consumed read-only and never mutated.
func New(topo *yard.Topology, opts ...Option) (*Engine, error) {
	if err := topo.Check(); err != nil {
		return nil, fmt.Errorf("building engine: %w", err)
	}

	e := &Engine{
		topo:   topo,
		clock:  NewVirtualClock(time.Now()),
		seq:    NewSequence(),
		ids:    UUIDv7Generator{},
		dice:   rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		bus:    newEventBus(),
		trains: make(map[string]*yard.Train),
		speed:  1.0,
		wake:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(e)
	}

	// Inspection bays keep declaration order: first-declared wins ties
	// when claiming.
	for _, nodeID := range topo.InspectionBays {
		e.bays = append(e.bays, &yard.Bay{
			ID:     nodeID,
			NodeID: nodeID,
			Status: yard.ResourceFree,
		})
	}
	for _, w := range topo.Workshops {
		e.workshops = append(e.workshops, &yard.WorkshopLine{
			ID:             w.NodeID,
			NodeID:         w.NodeID,
			Specialization: w.Specialization,
			Primary:        w.Primary,
			Status:         yard.ResourceFree,
		})
	}
	for _, s := range topo.Sidings {
		e.slots = append(e.slots,
			&yard.SidingSlot{
				ID:           s.SlotA,
				NodeID:       s.SlotA,
				SidingNumber: s.Number,
				Slot:         yard.SlotA,
				ReverseCost:  s.ReverseCostA,
				BlockingRisk: yard.DeriveRisk(s.Number, yard.SlotA),
				Status:       yard.ResourceFree,
			},
			&yard.SidingSlot{
				ID:           s.SlotB,
				NodeID:       s.SlotB,
				SidingNumber: s.Number,
				Slot:         yard.SlotB,
				ReverseCost:  s.ReverseCostB,
				BlockingRisk: yard.DeriveRisk(s.Number, yard.SlotB),
				Status:       yard.ResourceFree,
			},
		)
	}

	return e, nil
}

// Now returns the current simulation time.
func (e *Engine) Now() time.Time {
	return e.clock.Now()
}

// Speed returns the current simulation speed multiplier.
func (e *Engine) Speed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

// SetSpeed changes the simulation speed multiplier, clamped to
// [MinSpeed, MaxSpeed]. Already-scheduled tasks keep their due times;
// the new multiplier applies to future scheduling only.
func (e *Engine) SetSpeed(speed float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speed = clampSpeed(speed)
	e.emit(yard.EventSimSpeed, "", yard.SeverityInfo,
		fmt.Sprintf("simulation speed set to %.2fx", e.speed),
		map[string]any{"speed": e.speed})
}

func clampSpeed(speed float64) float64 {
	if speed < MinSpeed {
		return MinSpeed
	}
	if speed > MaxSpeed {
		return MaxSpeed
	}
	return speed
}

// Run drives the timer queue against real time until ctx is cancelled:
// it sleeps until the earliest pending task is due, then advances the
// virtual clock by the elapsed amount. Used by serve mode; tests and
// scenario runs call AdvanceBy directly instead.
//
// Must be called from at most one goroutine.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine running")
	for {
		due, ok := e.nextDue()
		if !ok {
			select {
			case <-ctx.Done():
				slog.Info("engine stopping: context cancelled")
				return ctx.Err()
			case <-e.wake:
				continue
			}
		}

		wait := due.Sub(e.clock.Now())
		if wait <= 0 {
			e.AdvanceBy(0)
			continue
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			slog.Info("engine stopping: context cancelled")
			return ctx.Err()
		case <-timer.C:
			e.AdvanceBy(wait)
		case <-e.wake:
			// An earlier task may have been scheduled; recompute.
			timer.Stop()
		}
	}
}
