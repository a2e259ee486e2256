package event

import (
	"time"

	"github.com/Hussnain311/Traffic-Load-Balancer/core"
)

// DestroyReason explains why a vehicle left the simulation
type DestroyReason string

const (
	ReasonTerminal   DestroyReason = "terminal"    // Reached a node with no active successors
	ReasonTargetLost DestroyReason = "target_lost" // Target node removed mid-transit
	ReasonTeardown   DestroyReason = "teardown"    // Simulation closed
)

// VehicleSpawnedPayload describes a new vehicle
type VehicleSpawnedPayload struct {
	Entity       core.Entity `json:"entity"`
	Type         string      `json:"type"`
	Entry        string      `json:"entry"`
	X            float64     `json:"x"`
	Y            float64     `json:"y"`
	Heading      float64     `json:"heading"`
	NominalSpeed float64     `json:"nominal_speed"`
}

// VehicleDestroyedPayload describes a removed vehicle
type VehicleDestroyedPayload struct {
	Entity core.Entity   `json:"entity"`
	Reason DestroyReason `json:"reason"`
}

// SpawnFailedPayload describes an aborted spawn
type SpawnFailedPayload struct {
	Type   string `json:"type"`
	Entry  string `json:"entry"`
	Reason string `json:"reason"`
}

// FleetUnlockedPayload reports the new unlock level and spawn bounds
type FleetUnlockedPayload struct {
	Unlocked    int           `json:"unlocked"`
	Type        string        `json:"type"`
	MinInterval time.Duration `json:"min_interval"`
	MaxInterval time.Duration `json:"max_interval"`
}

// SignalChangedPayload reports which signal is open after a cycle step
type SignalChangedPayload struct {
	Closed int `json:"closed"`
	Opened int `json:"opened"`
}

// StopChangedPayload reports a manual stop transition
type StopChangedPayload struct {
	Index int  `json:"index"`
	Open  bool `json:"open"`
}

// TollCollectedPayload reports a toll reward and its floating indicator label
type TollCollectedPayload struct {
	Entity core.Entity `json:"entity"`
	Region string      `json:"region"`
	Amount int         `json:"amount"`
	Label  string      `json:"label"`
}
