package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/Hussnain311/Traffic-Load-Balancer/component"
	"github.com/Hussnain311/Traffic-Load-Balancer/core"
	"github.com/Hussnain311/Traffic-Load-Balancer/engine"
	"github.com/Hussnain311/Traffic-Load-Balancer/event"
	"github.com/sirupsen/logrus"
)

// ErrInvalidControl is returned when a stop control index has no barrier
var ErrInvalidControl = errors.New("invalid stop control")

// StopSystem owns the manually pressed stop barriers
// A press opens one barrier and re-blocks it after a fixed delay; a new press restarts the delay
type StopSystem struct {
	world         *engine.World
	stops         []core.Entity
	reenableAfter time.Duration
	controls      int

	pending      engine.TimerHandle
	pendingIndex int
}

// NewStopSystem collects stop barriers in store order
// controls is the number of UI controls wired to stops, 0 means one per barrier
func NewStopSystem(world *engine.World, reenableAfter time.Duration, controls int) *StopSystem {
	s := &StopSystem{
		world:         world,
		reenableAfter: reenableAfter,
		controls:      controls,
		pendingIndex:  -1,
	}
	for _, e := range world.Barriers.Entities() {
		b, _ := world.Barriers.Get(e)
		if b.Group == component.BarrierStop {
			b.Index = len(s.stops)
			s.stops = append(s.stops, e)
		}
	}
	return s
}

// Name returns system's name
func (s *StopSystem) Name() string {
	return "stop"
}

// Start blocks every stop barrier and reports a control/barrier count mismatch
func (s *StopSystem) Start() {
	for _, e := range s.stops {
		s.setBlocking(e, true)
	}
	if s.controls != 0 && s.controls != len(s.stops) {
		s.world.Log().WithFields(logrus.Fields{
			"controls": s.controls,
			"barriers": len(s.stops),
		}).Warn("stop control count does not match stop barriers")
	}
}

// Stop cancels a pending re-enable
func (s *StopSystem) Stop() {
	s.world.Timers.Cancel(s.pending)
	s.pending = engine.NoTimer
	s.pendingIndex = -1
}

// Count returns the number of stop barriers
func (s *StopSystem) Count() int {
	return len(s.stops)
}

// IsOpen reports whether stop k is currently open
func (s *StopSystem) IsOpen(k int) bool {
	if k < 0 || k >= len(s.stops) {
		return false
	}
	b, ok := s.world.Barriers.Get(s.stops[k])
	return ok && !b.Blocking
}

// Press opens stop k and schedules it to re-block
// Any previously opened stop is forced back to blocking and its timer dropped
func (s *StopSystem) Press(k int) error {
	if k < 0 || k >= len(s.stops) {
		err := fmt.Errorf("%w: index %d, have %d", ErrInvalidControl, k, len(s.stops))
		s.world.Log().WithError(err).Warn("stop press rejected")
		return err
	}

	s.world.Timers.Cancel(s.pending)
	for i, e := range s.stops {
		if i != k && s.IsOpen(i) {
			s.setBlocking(e, true)
			s.world.PushEvent(event.EventStopChanged, &event.StopChangedPayload{Index: i, Open: false})
		}
	}

	s.setBlocking(s.stops[k], false)
	s.world.PushEvent(event.EventStopChanged, &event.StopChangedPayload{Index: k, Open: true})

	s.pendingIndex = k
	s.pending = s.world.After(s.reenableAfter, s.reenable)
	return nil
}

// reenable blocks the pressed stop again
func (s *StopSystem) reenable(time.Duration) {
	k := s.pendingIndex
	s.pending = engine.NoTimer
	s.pendingIndex = -1
	if k < 0 {
		return
	}
	s.setBlocking(s.stops[k], true)
	s.world.PushEvent(event.EventStopChanged, &event.StopChangedPayload{Index: k, Open: false})
}

func (s *StopSystem) setBlocking(e core.Entity, blocking bool) {
	if b, ok := s.world.Barriers.Get(e); ok {
		b.Blocking = blocking
	}
}
