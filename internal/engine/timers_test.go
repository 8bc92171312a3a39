package engine

import (
	"container/heap"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskHeap_OrdersByDueThenSeq(t *testing.T) {
	base := testEpoch
	var h taskHeap
	heap.Init(&h)

	var fired []int
	push := func(due time.Time, seq int64, n int) {
		heap.Push(&h, &task{due: due, seq: seq, run: func() { fired = append(fired, n) }})
	}
	push(base.Add(2*time.Second), 3, 2)
	push(base.Add(1*time.Second), 2, 1)
	push(base.Add(2*time.Second), 1, 3)
	push(base, 4, 0)

	for h.Len() > 0 {
		heap.Pop(&h).(*task).run()
	}
	// Same due time: lower seq first.
	assert.Equal(t, []int{0, 1, 3, 2}, fired)
}

func TestAdvanceBy_FiresDueTasksAtTheirOwnInstant(t *testing.T) {
	e := newTestEngine(t)

	var at []time.Time
	e.mu.Lock()
	e.schedule(1*time.Second, func() { at = append(at, e.clock.Now()) })
	e.schedule(3*time.Second, func() { at = append(at, e.clock.Now()) })
	e.mu.Unlock()

	e.AdvanceBy(10 * time.Second)

	require.Len(t, at, 2)
	assert.Equal(t, testEpoch.Add(1*time.Second), at[0])
	assert.Equal(t, testEpoch.Add(3*time.Second), at[1])
	assert.Equal(t, testEpoch.Add(10*time.Second), e.Now())
}

func TestAdvanceBy_LeavesFutureTasksPending(t *testing.T) {
	e := newTestEngine(t)

	fired := false
	e.mu.Lock()
	e.schedule(5*time.Second, func() { fired = true })
	e.mu.Unlock()

	e.AdvanceBy(4 * time.Second)
	assert.False(t, fired)

	e.AdvanceBy(1 * time.Second)
	assert.True(t, fired)
}

func TestAdvanceBy_CascadingSchedules(t *testing.T) {
	e := newTestEngine(t)

	var second time.Time
	e.mu.Lock()
	e.schedule(1*time.Second, func() {
		e.schedule(1*time.Second, func() { second = e.clock.Now() })
	})
	e.mu.Unlock()

	// One advance covers both: the nested task was scheduled relative
	// to the first task's due time.
	e.AdvanceBy(10 * time.Second)
	assert.Equal(t, testEpoch.Add(2*time.Second), second)
}

func TestSchedule_ScalesWithSpeed(t *testing.T) {
	e := newTestEngine(t, WithSpeed(2.0))

	fired := false
	e.mu.Lock()
	e.schedule(10*time.Second, func() { fired = true })
	e.mu.Unlock()

	// At 2x the multiplier, a 10s delay lands after 5s of virtual time.
	e.AdvanceBy(4 * time.Second)
	assert.False(t, fired)
	e.AdvanceBy(1 * time.Second)
	assert.True(t, fired)
}

func TestVirtualClock_NeverMovesBackwards(t *testing.T) {
	c := NewVirtualClock(testEpoch)
	c.set(testEpoch.Add(time.Minute))
	c.set(testEpoch)
	assert.Equal(t, testEpoch.Add(time.Minute), c.Now())
}

func TestSequence_Monotonic(t *testing.T) {
	s := NewSequence()
	assert.Equal(t, int64(0), s.Current())
	assert.Equal(t, int64(1), s.Next())
	assert.Equal(t, int64(2), s.Next())
	assert.Equal(t, int64(2), s.Current())
}
