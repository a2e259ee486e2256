package engine

import "time"

// System is an interface that all per-tick systems implement
type System interface {
	// Name returns the system's registry name
	Name() string

	// Priority orders systems within a tick, lower values run first
	Priority() int

	// Update advances the system by dt of sim time
	Update(dt time.Duration)
}
