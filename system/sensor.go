package system

import (
	"time"

	"github.com/Hussnain311/Traffic-Load-Balancer/component"
	"github.com/Hussnain311/Traffic-Load-Balancer/core"
	"github.com/Hussnain311/Traffic-Load-Balancer/engine"
	"github.com/Hussnain311/Traffic-Load-Balancer/parameter"
	"github.com/Hussnain311/Traffic-Load-Balancer/vmath"
	"github.com/paulmach/orb"
)

// SensorSystem indexes vehicles and blocking barriers once per tick and answers forward casts
// Open barriers are not indexed, so sensors see through them
type SensorSystem struct {
	world *engine.World
	grid  *engine.SpatialGrid

	maxRadius float64
	maxTravel float64 // Farthest any vehicle can move this tick
	buf       []core.Entity
}

// NewSensorSystem creates a sensor system over the world's grid
func NewSensorSystem(world *engine.World) *SensorSystem {
	grid := world.Resource.Grid
	if grid == nil {
		b := world.Resource.Graph.Bounds().Pad(parameter.GridMargin)
		grid = engine.NewSpatialGrid(b, parameter.MinGridCellSize)
		world.Resource.Grid = grid
	}
	return &SensorSystem{
		world: world,
		grid:  grid,
		buf:   make([]core.Entity, 0, 32),
	}
}

// Name returns system's name
func (s *SensorSystem) Name() string {
	return "sensor"
}

// Priority returns the system's priority
func (s *SensorSystem) Priority() int {
	return parameter.PrioritySensor
}

// Update rebuilds the occupancy grid from current positions
func (s *SensorSystem) Update(dt time.Duration) {
	s.grid.Clear()
	s.maxRadius = 0
	var maxSpeed float64

	for _, e := range s.world.Vehicles.Entities() {
		v, _ := s.world.Vehicles.Get(e)
		s.grid.Add(e, v.Pos)
		if v.BodyRadius > s.maxRadius {
			s.maxRadius = v.BodyRadius
		}
		maxSpeed = max(maxSpeed, v.Speed, v.NominalSpeed)
	}
	s.maxTravel = maxSpeed * dt.Seconds()
	for _, e := range s.world.Barriers.Entities() {
		b, _ := s.world.Barriers.Get(e)
		if !b.Blocking {
			continue
		}
		s.grid.Add(e, b.Pos)
		if b.Radius > s.maxRadius {
			s.maxRadius = b.Radius
		}
	}
}

// Cast probes forward from the vehicle's sensor and returns the nearest hit
// Barrier state and peer positions are read live; the grid query is padded by a tick of
// travel so a peer that moved into the ray since Update is still a candidate
// On equal distance a barrier wins over a vehicle
func (s *SensorSystem) Cast(self core.Entity, v *component.VehicleComponent) component.Obstacle {
	if v.Sensor == nil {
		return component.Obstacle{}
	}

	dir := vmath.Forward(v.Heading)
	origin := vmath.Add(v.Pos, vmath.Scale(dir, v.Sensor.Offset))
	end := vmath.Add(origin, vmath.Scale(dir, v.Sensor.Distance))

	query := orb.MultiPoint{origin, end}.Bound().Pad(s.maxRadius + s.maxTravel)
	s.buf = s.grid.Query(query, s.buf[:0])

	best := component.Obstacle{}
	for _, e := range s.buf {
		if e == self {
			continue
		}

		if peer, ok := s.world.Vehicles.Get(e); ok {
			d, hit := vmath.RayCircle(origin, dir, v.Sensor.Distance, peer.Pos, peer.BodyRadius)
			if hit && (best.Kind == component.ObstacleNone || d < best.Distance) {
				best = component.Obstacle{Kind: component.ObstacleVehicle, Entity: e, Distance: d}
			}
			continue
		}

		if b, ok := s.world.Barriers.Get(e); ok && b.Blocking {
			// Already past or on the line: a ray starting inside does not report it
			if vmath.PointInCircle(origin, b.Pos, b.Radius) {
				continue
			}
			d, hit := vmath.RayCircle(origin, dir, v.Sensor.Distance, b.Pos, b.Radius)
			if hit && (best.Kind == component.ObstacleNone || d <= best.Distance) {
				best = component.Obstacle{Kind: component.ObstacleBarrier, Entity: e, Distance: d}
			}
		}
	}
	return best
}
