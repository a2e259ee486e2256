package system

import (
	"sync/atomic"
	"time"

	"github.com/Hussnain311/Traffic-Load-Balancer/component"
	"github.com/Hussnain311/Traffic-Load-Balancer/core"
	"github.com/Hussnain311/Traffic-Load-Balancer/engine"
	"github.com/Hussnain311/Traffic-Load-Balancer/event"
	"github.com/Hussnain311/Traffic-Load-Balancer/status"
	"github.com/sirupsen/logrus"
)

// SignalSystem cycles signal barriers round-robin so exactly one is open at a time
type SignalSystem struct {
	world      *engine.World
	signals    []core.Entity
	switchTime time.Duration

	open   int
	handle engine.TimerHandle

	statOpen *atomic.Int64
}

// NewSignalSystem collects signal barriers in store order
func NewSignalSystem(world *engine.World, switchTime time.Duration) *SignalSystem {
	s := &SignalSystem{
		world:      world,
		switchTime: switchTime,
		statOpen:   world.Resource.Status.Ints.Get(status.KeySignalOpen),
	}
	for _, e := range world.Barriers.Entities() {
		b, _ := world.Barriers.Get(e)
		if b.Group == component.BarrierSignal {
			b.Index = len(s.signals)
			s.signals = append(s.signals, e)
		}
	}
	return s
}

// Name returns system's name
func (s *SignalSystem) Name() string {
	return "signal"
}

// Start opens signal 0, blocks the rest and schedules the cycle
// With no signals there is nothing to cycle
func (s *SignalSystem) Start() {
	if len(s.signals) == 0 {
		s.statOpen.Store(-1)
		s.world.Log().Debug("no signal barriers, cycle disabled")
		return
	}

	for i, e := range s.signals {
		s.setBlocking(e, i != 0)
	}
	s.open = 0
	s.statOpen.Store(0)
	s.handle = s.world.After(s.switchTime, s.cycle)

	s.world.Log().WithFields(logrus.Fields{
		"signals":     len(s.signals),
		"switch_time": s.switchTime,
	}).Debug("signal cycle started")
}

// Stop cancels the pending cycle step
func (s *SignalSystem) Stop() {
	s.world.Timers.Cancel(s.handle)
	s.handle = engine.NoTimer
}

// Open returns the index of the open signal, -1 when there are none
func (s *SignalSystem) Open() int {
	if len(s.signals) == 0 {
		return -1
	}
	return s.open
}

// Count returns the number of signal barriers
func (s *SignalSystem) Count() int {
	return len(s.signals)
}

// cycle closes the open signal and opens the next in one step, then reschedules from due
func (s *SignalSystem) cycle(due time.Duration) {
	closed := s.open
	next := (s.open + 1) % len(s.signals)

	s.setBlocking(s.signals[closed], true)
	s.setBlocking(s.signals[next], false)
	s.open = next
	s.statOpen.Store(int64(next))

	s.world.PushEvent(event.EventSignalChanged, &event.SignalChangedPayload{Closed: closed, Opened: next})
	s.handle = s.world.Timers.Schedule(due+s.switchTime, s.cycle)
}

func (s *SignalSystem) setBlocking(e core.Entity, blocking bool) {
	if b, ok := s.world.Barriers.Get(e); ok {
		b.Blocking = blocking
	}
}
