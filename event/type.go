package event

// EventType represents the type of simulation event
type EventType int

const (
	// EventNone is never emitted
	EventNone EventType = iota

	// === Vehicle Event ===

	// EventVehicleSpawned signals a vehicle entered the road network
	// Trigger: SpawnSystem | Payload: *VehicleSpawnedPayload
	EventVehicleSpawned

	// EventVehicleDestroyed signals a vehicle left the simulation
	// Trigger: VehicleSystem, Simulation.Close | Payload: *VehicleDestroyedPayload
	EventVehicleDestroyed

	// EventSpawnFailed signals a single spawn was aborted (resource absence)
	// Trigger: SpawnSystem | Payload: *SpawnFailedPayload
	EventSpawnFailed

	// EventFleetUnlocked signals a new vehicle type became spawnable
	// Trigger: SpawnSystem unlock loop | Payload: *FleetUnlockedPayload
	EventFleetUnlocked

	// === Barrier Event ===

	// EventSignalChanged signals the round-robin cycle moved to a new open signal
	// Trigger: SignalSystem | Payload: *SignalChangedPayload
	EventSignalChanged

	// EventStopChanged signals a manual stop barrier opened or re-blocked
	// Trigger: StopSystem | Payload: *StopChangedPayload
	EventStopChanged

	// === Economy Event ===

	// EventTollCollected signals a vehicle crossed a toll region
	// Trigger: TollSystem | Consumer: UI floating amount | Payload: *TollCollectedPayload
	EventTollCollected

	// === Engine Event ===

	// EventSnapshot carries a periodic world snapshot for observers
	// Trigger: Simulation | Consumer: network hub, terminal viewer | Payload: any (simulation.Snapshot)
	EventSnapshot
)

// GameEvent is a single queued event stamped with the tick that produced it
type GameEvent struct {
	Type    EventType
	Payload any
	Tick    uint64
}
