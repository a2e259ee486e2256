package engine

import (
	"testing"
	"time"
)

func TestTimerQueueOrder(t *testing.T) {
	q := NewTimerQueue()
	var order []string

	q.Schedule(3*time.Second, func(time.Duration) { order = append(order, "c") })
	q.Schedule(1*time.Second, func(time.Duration) { order = append(order, "a") })
	q.Schedule(1*time.Second, func(time.Duration) { order = append(order, "b") })
	q.Schedule(5*time.Second, func(time.Duration) { order = append(order, "late") })

	if n := q.Poll(3 * time.Second); n != 3 {
		t.Fatalf("fired %d, want 3", n)
	}
	want := []string{"a", "b", "c"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
	if q.Len() != 1 {
		t.Errorf("len = %d, want 1", q.Len())
	}
	if due, ok := q.NextDue(); !ok || due != 5*time.Second {
		t.Errorf("NextDue = %v %v", due, ok)
	}
}

func TestTimerQueueCancel(t *testing.T) {
	q := NewTimerQueue()
	fired := false
	h := q.Schedule(time.Second, func(time.Duration) { fired = true })

	if !q.Pending(h) {
		t.Fatal("expected pending")
	}
	if !q.Cancel(h) {
		t.Fatal("cancel failed")
	}
	if q.Cancel(h) {
		t.Error("second cancel should report false")
	}
	q.Poll(10 * time.Second)
	if fired {
		t.Error("cancelled entry fired")
	}
	if q.Cancel(NoTimer) {
		t.Error("NoTimer should never be pending")
	}
}

func TestTimerQueuePeriodicNoDrift(t *testing.T) {
	q := NewTimerQueue()
	var dues []time.Duration
	var tick TimerFunc
	tick = func(due time.Duration) {
		dues = append(dues, due)
		q.Schedule(due+10*time.Second, tick)
	}
	q.Schedule(10*time.Second, tick)

	// Coarse polling never shifts the cadence
	for now := time.Duration(0); now <= 35*time.Second; now += 3 * time.Second {
		q.Poll(now)
	}
	want := []time.Duration{10 * time.Second, 20 * time.Second, 30 * time.Second}
	if len(dues) != len(want) {
		t.Fatalf("dues = %v, want %v", dues, want)
	}
	for i := range want {
		if dues[i] != want[i] {
			t.Errorf("due[%d] = %v, want %v", i, dues[i], want[i])
		}
	}
}

func TestTimerQueueCatchUpInSinglePoll(t *testing.T) {
	q := NewTimerQueue()
	count := 0
	var tick TimerFunc
	tick = func(due time.Duration) {
		count++
		q.Schedule(due+time.Second, tick)
	}
	q.Schedule(time.Second, tick)

	q.Poll(5 * time.Second)
	if count != 5 {
		t.Errorf("count = %d, want 5", count)
	}
}

func TestTimerQueueCancelAll(t *testing.T) {
	q := NewTimerQueue()
	h := q.Schedule(time.Second, func(time.Duration) { t.Error("should not fire") })
	q.Schedule(2*time.Second, func(time.Duration) { t.Error("should not fire") })

	if n := q.CancelAll(); n != 2 {
		t.Errorf("CancelAll = %d, want 2", n)
	}
	if q.Pending(h) {
		t.Error("handle still pending")
	}
	q.Poll(time.Minute)
}
