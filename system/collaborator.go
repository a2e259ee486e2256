package system

import (
	"github.com/Hussnain311/Traffic-Load-Balancer/core"
	"github.com/paulmach/orb"
)

// Scene instantiates and removes the visual/physical body of a vehicle
// Spawn returning an error is treated as resource absence and aborts that spawn only
type Scene interface {
	Spawn(e core.Entity, model string, pos orb.Point, heading float64) error
	Destroy(e core.Entity)
}

// Wallet receives toll rewards
type Wallet interface {
	AddCoins(amount int) error
}

// NopScene accepts every spawn and ignores destroys
type NopScene struct{}

// Spawn implements Scene
func (NopScene) Spawn(core.Entity, string, orb.Point, float64) error { return nil }

// Destroy implements Scene
func (NopScene) Destroy(core.Entity) {}
