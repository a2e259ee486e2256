package component

import "github.com/paulmach/orb"

// TollRegion credits a reward to each vehicle that enters it
type TollRegion struct {
	Name   string
	Center orb.Point
	Radius float64
	Reward int
}
