package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Hussnain311/Traffic-Load-Balancer/core"
	"github.com/Hussnain311/Traffic-Load-Balancer/parameter"
	"github.com/sirupsen/logrus"
)

// Ticker is advanced by the scheduler once per tick
// Returning an error stops the scheduler
type Ticker interface {
	Tick(dt time.Duration) error
}

// ClockScheduler drives a Ticker on a fixed real-time interval
// Handles pause-aware scheduling with drift correction and no busy-wait
type ClockScheduler struct {
	target Ticker
	clock  *PausableClock
	log    logrus.FieldLogger

	tickInterval     time.Duration
	lastTickTime     time.Time
	nextTickDeadline time.Time

	tickCount atomic.Uint64
	mu        sync.Mutex

	stopChan chan struct{}
	stopOnce sync.Once
	doneChan chan struct{}
	wg       sync.WaitGroup
	running  atomic.Bool
}

// NewClockScheduler creates a scheduler for target with the given tick interval
func NewClockScheduler(target Ticker, clock *PausableClock, tickInterval time.Duration, log logrus.FieldLogger) *ClockScheduler {
	if clock == nil {
		clock = NewPausableClock(nil)
	}
	if tickInterval <= 0 {
		tickInterval = parameter.GameUpdateInterval
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ClockScheduler{
		target:       target,
		clock:        clock,
		log:          log,
		tickInterval: tickInterval,
		stopChan:     make(chan struct{}),
		doneChan:     make(chan struct{}),
	}
}

// Start begins the scheduler loop, which ends on Stop, ctx cancellation or a Tick error
func (cs *ClockScheduler) Start(ctx context.Context) {
	if cs.running.CompareAndSwap(false, true) {
		cs.wg.Add(1)
		core.Go(func() { cs.schedulerLoop(ctx) })
	}
}

// Stop halts the scheduler loop and waits for it to exit
func (cs *ClockScheduler) Stop() {
	cs.stopOnce.Do(func() {
		close(cs.stopChan)
	})
	cs.wg.Wait()
}

// Done is closed when the loop exits
func (cs *ClockScheduler) Done() <-chan struct{} {
	return cs.doneChan
}

// Pause freezes the clock, no ticks run until Resume
func (cs *ClockScheduler) Pause() {
	cs.clock.Pause()
}

// Resume restarts ticking after Pause
func (cs *ClockScheduler) Resume() {
	cs.clock.Resume()
}

// IsPaused reports whether the clock is paused
func (cs *ClockScheduler) IsPaused() bool {
	return cs.clock.IsPaused()
}

// Ticks returns the number of ticks executed
func (cs *ClockScheduler) Ticks() uint64 {
	return cs.tickCount.Load()
}

// schedulerLoop runs the main scheduling loop with pause awareness
func (cs *ClockScheduler) schedulerLoop(ctx context.Context) {
	defer cs.wg.Done()
	defer close(cs.doneChan)
	defer cs.running.Store(false)

	cs.mu.Lock()
	cs.lastTickTime = cs.clock.Now()
	cs.nextTickDeadline = cs.lastTickTime.Add(cs.tickInterval)
	cs.mu.Unlock()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	for {
		select {
		case <-cs.stopChan:
			return
		case <-ctx.Done():
			return
		default:
		}

		var sleepDuration time.Duration

		if cs.clock.IsPaused() {
			// Longer sleep while paused
			sleepDuration = cs.tickInterval * 2
		} else {
			now := cs.clock.Now()

			cs.mu.Lock()
			deadline := cs.nextTickDeadline
			cs.mu.Unlock()

			if !now.Before(deadline) {
				if err := cs.processTick(now); err != nil {
					cs.log.WithError(err).Debug("scheduler stopping on tick error")
					return
				}

				cs.mu.Lock()
				cs.nextTickDeadline = cs.nextTickDeadline.Add(cs.tickInterval)
				// Too far behind: skip ahead instead of bursting
				if now.Sub(cs.nextTickDeadline) > cs.tickInterval*2 {
					cs.nextTickDeadline = now.Add(cs.tickInterval)
				}
				deadline = cs.nextTickDeadline
				cs.mu.Unlock()

				sleepDuration = deadline.Sub(cs.clock.Now())
			} else {
				sleepDuration = deadline.Sub(now)
			}
		}

		if sleepDuration > 0 {
			timer.Reset(sleepDuration)
			select {
			case <-timer.C:
			case <-cs.stopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}
}

// processTick executes one clock cycle with dt measured from the previous tick
func (cs *ClockScheduler) processTick(now time.Time) error {
	cs.mu.Lock()
	dt := now.Sub(cs.lastTickTime)
	cs.lastTickTime = now
	cs.mu.Unlock()

	if dt > parameter.MaxTickDelta {
		dt = parameter.MaxTickDelta
	}
	if dt <= 0 {
		return nil
	}

	if err := cs.target.Tick(dt); err != nil {
		return err
	}
	cs.tickCount.Add(1)
	return nil
}
