package status

import "sync/atomic"

// Metric keys published by the simulation
const (
	KeyTicks             = "engine.ticks"
	KeyVehiclesLive      = "sim.vehicles.live"
	KeyVehiclesSpawned   = "sim.vehicles.spawned"
	KeyVehiclesDestroyed = "sim.vehicles.destroyed"
	KeyDistance          = "sim.vehicles.distance"
	KeySpawnFailed       = "sim.spawn.failed"
	KeyFleetUnlocked     = "sim.fleet.unlocked"
	KeyTollCoins         = "sim.toll.coins"
	KeySignalOpen        = "sim.signal.open"
	KeySpawnMin          = "sim.spawn.min_s"
	KeySpawnMax          = "sim.spawn.max_s"
	KeySimSeconds        = "sim.time_s"
)

// Registry is the central metrics facade
// Systems cache pointers during init; Update loops write directly to atomics
// Readers (viewer, websocket hub) may load concurrently without the world lock
type Registry struct {
	Ints   *MetricMap[atomic.Int64]
	Floats *MetricMap[AtomicFloat]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:   NewMetricMap[atomic.Int64](),
		Floats: NewMetricMap[AtomicFloat](),
	}
}

// Export copies every metric into a plain map for serialization
func (r *Registry) Export() map[string]float64 {
	out := make(map[string]float64, r.Ints.Count()+r.Floats.Count())
	r.Ints.Range(func(key string, ptr *atomic.Int64) {
		out[key] = float64(ptr.Load())
	})
	r.Floats.Range(func(key string, ptr *AtomicFloat) {
		out[key] = ptr.Load()
	})
	return out
}
