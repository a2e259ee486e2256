package component

import "github.com/paulmach/orb"

// BarrierGroup distinguishes manually pressed stops from cycled signals
type BarrierGroup uint8

const (
	BarrierStop BarrierGroup = iota
	BarrierSignal
)

// String returns the group tag
func (g BarrierGroup) String() string {
	if g == BarrierSignal {
		return "signal"
	}
	return "stop"
}

// BarrierComponent is a stop-or-go gate a sensor ray can hit while blocking
type BarrierComponent struct {
	Name     string
	Group    BarrierGroup
	Index    int // Position within its group
	Pos      orb.Point
	Radius   float64
	Blocking bool
}
