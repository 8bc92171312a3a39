package engine

import (
	"container/heap"
	"time"
)

// task is one scheduled phase transition (inspection completion, repair
// completion, auto-assign pacing delay). seq comes from the engine's
// timer counter, not the event sequence: scheduling must not leave gaps
// in the event log numbering.
//
// Tasks are not cancellable. A task whose precondition no longer holds
// when it fires (train reassigned, resource freed) must no-op via its
// own guard clause; that guard is the engine's sole concurrency-safety
// mechanism and is relied on everywhere a task is scheduled.
type task struct {
	due time.Time
	seq int64 // tie-break for tasks due at the same instant
	run func()
}

// taskHeap is a min-heap ordered by (due, seq).
type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) {
	*h = append(*h, x.(*task))
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// schedule enqueues fn to run after delay, scaled by the current
// simulation speed multiplier: at 2x a 10s delay lands in 5s.
// Caller must hold e.mu.
func (e *Engine) schedule(delay time.Duration, fn func()) {
	scaled := time.Duration(float64(delay) / e.speed)
	e.timerSeq++
	t := &task{
		due: e.clock.Now().Add(scaled),
		seq: e.timerSeq,
		run: fn,
	}
	heap.Push(&e.timers, t)

	// Wake a Run loop waiting for the next due time (non-blocking,
	// buffer of 1 coalesces multiple signals).
	select {
	case e.wake <- struct{}{}:
	default:
	}
}

// AdvanceBy moves simulation time forward by d, firing every task that
// falls due, in (due, seq) order. Each task runs with the clock set to
// its own due time, so cascading schedules land at the right instants.
//
// Between tasks the engine state is fully consistent: tasks re-enter
// the engine sequentially, never in parallel.
func (e *Engine) AdvanceBy(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	target := e.clock.Now().Add(d)
	for len(e.timers) > 0 && !e.timers[0].due.After(target) {
		t := heap.Pop(&e.timers).(*task)
		e.clock.set(t.due)
		t.run()
	}
	e.clock.set(target)
}

// nextDue returns the due time of the earliest pending task.
func (e *Engine) nextDue() (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.timers) == 0 {
		return time.Time{}, false
	}
	return e.timers[0].due, true
}
