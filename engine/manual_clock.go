package engine

import (
	"sync/atomic"
	"time"
)

// ManualClock is a TimeProvider that only moves when told to
// Scheduler and pausable clock tests drive it instead of sleeping
type ManualClock struct {
	base   time.Time
	offset atomic.Int64 // nanoseconds past base
}

// NewManualClock starts a clock at start
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{base: start}
}

// Now implements TimeProvider
func (c *ManualClock) Now() time.Time {
	return c.base.Add(time.Duration(c.offset.Load()))
}

// Advance moves the clock forward by d and returns the new time
func (c *ManualClock) Advance(d time.Duration) time.Time {
	return c.base.Add(time.Duration(c.offset.Add(int64(d))))
}
