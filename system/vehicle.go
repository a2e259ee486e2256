package system

import (
	"sync/atomic"
	"time"

	"github.com/Hussnain311/Traffic-Load-Balancer/component"
	"github.com/Hussnain311/Traffic-Load-Balancer/core"
	"github.com/Hussnain311/Traffic-Load-Balancer/engine"
	"github.com/Hussnain311/Traffic-Load-Balancer/event"
	"github.com/Hussnain311/Traffic-Load-Balancer/navigation"
	"github.com/Hussnain311/Traffic-Load-Balancer/parameter"
	"github.com/Hussnain311/Traffic-Load-Balancer/status"
	"github.com/Hussnain311/Traffic-Load-Balancer/vmath"
	"github.com/sirupsen/logrus"
)

// VehicleSystem advances every vehicle once per tick: sense, adjust speed, move, rotate, re-target
type VehicleSystem struct {
	world  *engine.World
	sensor *SensorSystem
	scene  Scene

	statLive      *atomic.Int64
	statDestroyed *atomic.Int64
	statDistance  *status.AtomicFloat
}

// NewVehicleSystem creates the vehicle system
func NewVehicleSystem(world *engine.World, sensor *SensorSystem, scene Scene) *VehicleSystem {
	if scene == nil {
		scene = NopScene{}
	}
	return &VehicleSystem{
		world:         world,
		sensor:        sensor,
		scene:         scene,
		statLive:      world.Resource.Status.Ints.Get(status.KeyVehiclesLive),
		statDestroyed: world.Resource.Status.Ints.Get(status.KeyVehiclesDestroyed),
		statDistance:  world.Resource.Status.Floats.Get(status.KeyDistance),
	}
}

// Name returns system's name
func (s *VehicleSystem) Name() string {
	return "vehicle"
}

// Priority returns the system's priority
func (s *VehicleSystem) Priority() int {
	return parameter.PriorityVehicle
}

// Update steps vehicles in spawn order
func (s *VehicleSystem) Update(dt time.Duration) {
	secs := dt.Seconds()
	for _, e := range s.world.Vehicles.Entities() {
		s.step(e, secs)
	}
	s.statLive.Store(int64(s.world.Vehicles.Len()))
}

func (s *VehicleSystem) step(e core.Entity, dt float64) {
	v, ok := s.world.Vehicles.Get(e)
	if !ok {
		return
	}

	graph := s.world.Resource.Graph
	target, ok := graph.Node(v.Target)
	if !ok {
		s.Destroy(e, event.ReasonTargetLost)
		return
	}

	s.adjustSpeed(e, v, dt)

	// Steer from the pre-move position so an exact arrival keeps the last heading
	if dir, ok := vmath.Normalize(vmath.Sub(target.Pos, v.Pos)); ok {
		desired := vmath.HeadingOf(dir)
		v.Heading = vmath.LerpAngle(v.Heading, desired, vmath.Clamp01(v.RotationSpeed*dt))
	}
	prev := v.Pos
	v.Pos = vmath.MoveTowards(v.Pos, target.Pos, v.Speed*dt)
	s.statDistance.Add(vmath.Distance(prev, v.Pos))

	if vmath.Distance(v.Pos, target.Pos) >= parameter.ArrivalEpsilon {
		return
	}

	next, ok := navigation.PickRandom(s.world.Resource.Rand, graph.ActiveSuccessors(v.Target))
	if !ok {
		s.Destroy(e, event.ReasonTerminal)
		return
	}
	v.Target = next
}

// adjustSpeed applies the sensor result: a blocking barrier stops the vehicle outright,
// a peer ahead is followed at its speed, and a clear road eases back to nominal
func (s *VehicleSystem) adjustSpeed(e core.Entity, v *component.VehicleComponent, dt float64) {
	if v.Sensor == nil {
		v.Ahead = component.Obstacle{}
		v.Speed = v.NominalSpeed
		return
	}

	v.Ahead = s.sensor.Cast(e, v)
	switch v.Ahead.Kind {
	case component.ObstacleBarrier:
		v.Speed = 0

	case component.ObstacleVehicle:
		peer, ok := s.world.Vehicles.Get(v.Ahead.Entity)
		if !ok {
			v.Speed = 0
			return
		}
		v.Speed = peer.Speed
		if v.Ahead.Distance <= v.MinFollow && peer.Speed < parameter.StoppedSpeed {
			v.Speed = 0
		}

	default:
		v.Speed += (v.NominalSpeed - v.Speed) * vmath.Clamp01(dt*parameter.SpeedRecoveryRate)
	}
}

// Destroy removes a vehicle from the world and the scene
func (s *VehicleSystem) Destroy(e core.Entity, reason event.DestroyReason) {
	if !s.world.Vehicles.Remove(e) {
		return
	}
	s.scene.Destroy(e)
	s.statDestroyed.Add(1)
	s.statLive.Store(int64(s.world.Vehicles.Len()))

	s.world.PushEvent(event.EventVehicleDestroyed, &event.VehicleDestroyedPayload{Entity: e, Reason: reason})
	s.world.Log().WithFields(logrus.Fields{
		"entity": e,
		"reason": reason,
	}).Debug("vehicle destroyed")
}

// DestroyAll removes every vehicle, used on teardown
func (s *VehicleSystem) DestroyAll(reason event.DestroyReason) int {
	entities := s.world.Vehicles.Entities()
	for _, e := range entities {
		s.Destroy(e, reason)
	}
	return len(entities)
}
