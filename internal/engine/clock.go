package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// Sequence is a monotonic logical clock for event ordering.
//
// Every emitted event is stamped with a strictly increasing seq number,
// so log order is explicit and replayable without wall-clock comparison.
// The event log has no gaps: only emit consumes the sequence.
//
// Thread-safety: safe for concurrent use (atomic operations), though the
// engine's single-writer discipline means one goroutine calls Next().
type Sequence struct {
	seq atomic.Int64
}

// NewSequence creates a sequence starting at 0; the first Next() returns 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// Next returns the next sequence number and increments the clock.
func (s *Sequence) Next() int64 {
	return s.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (s *Sequence) Current() int64 {
	return s.seq.Load()
}

// VirtualClock is the engine's notion of simulation time.
//
// The engine never reads the wall clock: all timestamps and timer due
// times come from here, and time only moves when the engine advances it
// (directly in tests and scenario runs, or paced against real time by
// Run). This is what makes timer-driven phase transitions testable
// without sleeping.
type VirtualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewVirtualClock creates a clock frozen at start.
func NewVirtualClock(start time.Time) *VirtualClock {
	return &VirtualClock{now: start}
}

// Now returns the current simulation time.
func (c *VirtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// set moves the clock forward. Moving backwards is ignored: due-time
// ordering in the task heap depends on monotonic time.
func (c *VirtualClock) set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t.After(c.now) {
		c.now = t
	}
}
