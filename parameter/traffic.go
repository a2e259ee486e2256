package parameter

import "time"

// Signal & Stop Barriers
const (
	// SignalSwitchTime is how long each signal barrier stays open before the cycle advances
	SignalSwitchTime = 10 * time.Second

	// StopReenableAfter is how long a pressed stop barrier stays open
	StopReenableAfter = 5 * time.Second

	// BarrierRadius is the default sensor-hit radius of a barrier
	BarrierRadius = 0.25
)

// Vehicle Movement & Sensing
const (
	// VehicleMinSpeed and VehicleMaxSpeed bound the nominal speed sampled at spawn (units/s)
	VehicleMinSpeed = 3.0
	VehicleMaxSpeed = 10.0

	// RotationSpeed is the heading interpolation rate per second
	RotationSpeed = 5.0

	// DetectionDistance is the forward sensor ray length
	DetectionDistance = 0.5

	// MinFollowDistance is the gap at which a vehicle fully stops behind a stopped peer
	MinFollowDistance = 0.5

	// StoppedSpeed is the peer speed under which a peer counts as stopped
	StoppedSpeed = 0.1

	// SpeedRecoveryRate scales dt when easing effective speed back to nominal
	SpeedRecoveryRate = 2.0

	// ArrivalEpsilon is the distance under which a waypoint counts as reached
	ArrivalEpsilon = 0.1

	// VehicleBodyRadius is the default radius other sensors hit
	VehicleBodyRadius = 0.2

	// SensorOffset is the default distance from vehicle centre to its front sensor
	SensorOffset = 0.25
)

// Spawn Scheduling
const (
	// MinSpawnInterval and MaxSpawnInterval are the initial spawn wait bounds
	MinSpawnInterval = 3 * time.Second
	MaxSpawnInterval = 7 * time.Second

	// SpawnRateStep is subtracted from both bounds on every unlock
	SpawnRateStep = 500 * time.Millisecond

	// MinSpawnFloor and MaxSpawnFloor are the lowest values the bounds may reach
	MinSpawnFloor = 500 * time.Millisecond
	MaxSpawnFloor = 1 * time.Second

	// UnlockEvery is the wait between fleet unlocks
	UnlockEvery = 20 * time.Second
)

// Tolls
const (
	// TollReward is the coin amount credited per crossing
	TollReward = 10
)
