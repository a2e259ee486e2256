package component

import (
	"github.com/Hussnain311/Traffic-Load-Balancer/core"
	"github.com/Hussnain311/Traffic-Load-Balancer/navigation"
	"github.com/paulmach/orb"
)

// VehicleType is one entry of the spawnable vehicle catalog
type VehicleType struct {
	Name              string
	Model             string  // Scene resource key, empty means the resource is missing
	MinSpeed          float64 // Nominal speed range sampled at spawn (units/s)
	MaxSpeed          float64
	DetectionDistance float64 // Forward sensor ray length
	MinFollowDistance float64 // Gap at which the vehicle halts behind a stopped peer
	RotationSpeed     float64 // Heading interpolation rate per second
	BodyRadius        float64 // Radius other sensors hit
	SensorOffset      float64 // Distance from centre to the front sensor
	HasSensor         bool
}

// Sensor is the forward-facing obstacle probe
type Sensor struct {
	Offset   float64
	Distance float64
}

// ObstacleKind classifies what the forward sensor saw this tick
type ObstacleKind uint8

const (
	ObstacleNone ObstacleKind = iota
	ObstacleVehicle
	ObstacleBarrier
)

// String returns the obstacle kind name
func (k ObstacleKind) String() string {
	switch k {
	case ObstacleVehicle:
		return "vehicle"
	case ObstacleBarrier:
		return "barrier"
	default:
		return "none"
	}
}

// Obstacle is the transient per-tick sensor result
type Obstacle struct {
	Kind     ObstacleKind
	Entity   core.Entity
	Distance float64
}

// VehicleComponent is a simulated vehicle
type VehicleComponent struct {
	TypeIndex     int
	Pos           orb.Point
	Heading       float64 // Radians, 0 = +X
	Target        navigation.NodeID
	NominalSpeed  float64
	Speed         float64 // Effective speed this tick
	Sensor        *Sensor // Nil when the vehicle was built without one
	BodyRadius    float64
	MinFollow     float64
	RotationSpeed float64
	Ahead         Obstacle

	// Toll regions the vehicle is currently inside, keyed by region index
	InToll map[int]bool
}
