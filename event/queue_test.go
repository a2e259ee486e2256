package event

import (
	"testing"

	"github.com/Hussnain311/Traffic-Load-Balancer/parameter"
)

func TestEventQueueFIFO(t *testing.T) {
	q := NewEventQueue()
	q.Push(GameEvent{Type: EventVehicleSpawned, Tick: 1})
	q.Push(GameEvent{Type: EventVehicleDestroyed, Tick: 2})

	if q.Len() != 2 {
		t.Fatalf("len = %d", q.Len())
	}
	evs := q.Consume()
	if len(evs) != 2 || evs[0].Tick != 1 || evs[1].Tick != 2 {
		t.Fatalf("events = %+v", evs)
	}
	if q.Consume() != nil {
		t.Error("expected empty after consume")
	}
}

func TestEventQueueOverflowDropsOldest(t *testing.T) {
	q := NewEventQueue()
	extra := 5
	for i := 0; i < parameter.EventQueueSize+extra; i++ {
		q.Push(GameEvent{Type: EventSnapshot, Tick: uint64(i)})
	}

	if got := q.Dropped(); got != uint64(extra) {
		t.Errorf("dropped = %d, want %d", got, extra)
	}
	evs := q.Consume()
	if len(evs) != parameter.EventQueueSize {
		t.Fatalf("len = %d", len(evs))
	}
	if evs[0].Tick != uint64(extra) {
		t.Errorf("oldest surviving tick = %d, want %d", evs[0].Tick, extra)
	}
}

func TestRouterDispatch(t *testing.T) {
	q := NewEventQueue()
	r := NewRouter(q)

	var signals, all []EventType
	r.Register(HandlerFunc{
		Types: []EventType{EventSignalChanged},
		Fn:    func(ev GameEvent) { signals = append(signals, ev.Type) },
	})
	r.Register(HandlerFunc{
		Types: []EventType{EventSignalChanged, EventStopChanged},
		Fn:    func(ev GameEvent) { all = append(all, ev.Type) },
	})

	q.Push(GameEvent{Type: EventSignalChanged})
	q.Push(GameEvent{Type: EventStopChanged})
	q.Push(GameEvent{Type: EventTollCollected})

	if n := r.DispatchAll(); n != 3 {
		t.Errorf("dispatched %d, want 3", n)
	}
	if len(signals) != 1 {
		t.Errorf("signal handler got %v", signals)
	}
	if len(all) != 2 || all[1] != EventStopChanged {
		t.Errorf("combined handler got %v", all)
	}
	if r.HandlerCount(EventSignalChanged) != 2 {
		t.Errorf("handler count = %d", r.HandlerCount(EventSignalChanged))
	}
}

func TestEventNames(t *testing.T) {
	et, ok := GetEventType("TOLL_COLLECTED")
	if !ok || et != EventTollCollected {
		t.Errorf("lookup = %v %v", et, ok)
	}
	if EventNone.String() != "unknown" {
		t.Errorf("EventNone name = %q", EventNone.String())
	}
	if EventSnapshot.String() != "snapshot" {
		t.Errorf("snapshot name = %q", EventSnapshot.String())
	}
}
