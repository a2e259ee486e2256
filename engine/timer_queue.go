package engine

import (
	"container/heap"
	"time"
)

// TimerHandle identifies a scheduled resumption for cancellation
type TimerHandle uint64

// NoTimer is the zero handle, never issued
const NoTimer TimerHandle = 0

// TimerFunc runs when its entry comes due
// due is the scheduled sim time, not the poll time, so periodic tasks can reschedule without drift
type TimerFunc func(due time.Duration)

type timerEntry struct {
	handle TimerHandle
	due    time.Duration
	seq    uint64
	fn     TimerFunc
	index  int
}

// TimerQueue is a min-heap of scheduled resumptions keyed by sim due time
// Replaces "wait N seconds then resume" loops; polled once per tick, never blocks
type TimerQueue struct {
	entries    timerHeap
	byHandle   map[TimerHandle]*timerEntry
	nextHandle TimerHandle
	seq        uint64
}

// NewTimerQueue creates an empty queue
func NewTimerQueue() *TimerQueue {
	return &TimerQueue{
		byHandle:   make(map[TimerHandle]*timerEntry),
		nextHandle: 1,
	}
}

// Schedule registers fn to run once sim time reaches due
// Entries with equal due fire in scheduling order
func (q *TimerQueue) Schedule(due time.Duration, fn TimerFunc) TimerHandle {
	h := q.nextHandle
	q.nextHandle++
	q.seq++

	e := &timerEntry{handle: h, due: due, seq: q.seq, fn: fn}
	heap.Push(&q.entries, e)
	q.byHandle[h] = e
	return h
}

// Cancel removes a pending entry; returns false if it already fired or never existed
func (q *TimerQueue) Cancel(h TimerHandle) bool {
	e, ok := q.byHandle[h]
	if !ok {
		return false
	}
	delete(q.byHandle, h)
	heap.Remove(&q.entries, e.index)
	return true
}

// Pending reports whether a handle is still scheduled
func (q *TimerQueue) Pending(h TimerHandle) bool {
	_, ok := q.byHandle[h]
	return ok
}

// Poll fires every entry due at or before now, in due order
// Entries scheduled by callbacks that are already due fire in the same poll
func (q *TimerQueue) Poll(now time.Duration) int {
	fired := 0
	for q.entries.Len() > 0 && q.entries[0].due <= now {
		e := heap.Pop(&q.entries).(*timerEntry)
		delete(q.byHandle, e.handle)
		e.fn(e.due)
		fired++
	}
	return fired
}

// NextDue returns the earliest due time
func (q *TimerQueue) NextDue() (time.Duration, bool) {
	if q.entries.Len() == 0 {
		return 0, false
	}
	return q.entries[0].due, true
}

// Len returns number of pending entries
func (q *TimerQueue) Len() int {
	return q.entries.Len()
}

// CancelAll drops every pending entry and returns how many were dropped
func (q *TimerQueue) CancelAll() int {
	n := q.entries.Len()
	q.entries = q.entries[:0]
	q.byHandle = make(map[TimerHandle]*timerEntry)
	return n
}

// ---------- internal heap ----------

type timerHeap []*timerEntry

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].due != h[j].due {
		return h[i].due < h[j].due
	}
	return h[i].seq < h[j].seq
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *timerHeap) Push(x any) {
	e := x.(*timerEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}
