package system

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Hussnain311/Traffic-Load-Balancer/component"
	"github.com/Hussnain311/Traffic-Load-Balancer/core"
	"github.com/Hussnain311/Traffic-Load-Balancer/engine"
	"github.com/Hussnain311/Traffic-Load-Balancer/event"
	"github.com/Hussnain311/Traffic-Load-Balancer/parameter"
	"github.com/Hussnain311/Traffic-Load-Balancer/status"
	"github.com/Hussnain311/Traffic-Load-Balancer/vmath"
	"github.com/sirupsen/logrus"
)

// TollSystem credits a reward when a vehicle enters a toll region
// Only the entering edge pays; staying inside or leaving does nothing
type TollSystem struct {
	world  *engine.World
	wallet Wallet

	statCoins *atomic.Int64
}

// NewTollSystem creates the toll system, wallet may be nil
func NewTollSystem(world *engine.World, wallet Wallet) *TollSystem {
	return &TollSystem{
		world:     world,
		wallet:    wallet,
		statCoins: world.Resource.Status.Ints.Get(status.KeyTollCoins),
	}
}

// Name returns system's name
func (s *TollSystem) Name() string {
	return "toll"
}

// Priority returns the system's priority
func (s *TollSystem) Priority() int {
	return parameter.PriorityToll
}

// Update checks every vehicle against every region
func (s *TollSystem) Update(time.Duration) {
	if len(s.world.Tolls) == 0 {
		return
	}
	for _, e := range s.world.Vehicles.Entities() {
		v, _ := s.world.Vehicles.Get(e)
		for i, region := range s.world.Tolls {
			inside := vmath.PointInCircle(v.Pos, region.Center, region.Radius)
			switch {
			case inside && !v.InToll[i]:
				if v.InToll == nil {
					v.InToll = make(map[int]bool)
				}
				v.InToll[i] = true
				s.collect(e, region)
			case !inside && v.InToll[i]:
				delete(v.InToll, i)
			}
		}
	}
}

func (s *TollSystem) collect(e core.Entity, region component.TollRegion) {
	if s.wallet != nil {
		if err := s.wallet.AddCoins(region.Reward); err != nil {
			s.world.Log().WithError(err).WithFields(logrus.Fields{
				"region": region.Name,
				"amount": region.Reward,
			}).Warn("toll reward rejected")
			return
		}
	}
	s.statCoins.Add(int64(region.Reward))
	s.world.PushEvent(event.EventTollCollected, &event.TollCollectedPayload{
		Entity: e,
		Region: region.Name,
		Amount: region.Reward,
		Label:  fmt.Sprintf("+%d$", region.Reward),
	})
}
