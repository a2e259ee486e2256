package status

import (
	"math"
	"sync/atomic"
)

// AtomicFloat is a lock-free float64 metric stored as IEEE-754 bits
// Spawn bounds use Store, totals such as distance driven accumulate through Add
type AtomicFloat struct {
	bits atomic.Uint64
}

// Store replaces the value
func (f *AtomicFloat) Store(val float64) {
	f.bits.Store(math.Float64bits(val))
}

// Load returns the current value
func (f *AtomicFloat) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

// Add accumulates delta with a compare-and-swap loop and returns the new value
func (f *AtomicFloat) Add(delta float64) float64 {
	for {
		old := f.bits.Load()
		next := math.Float64frombits(old) + delta
		if f.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}
