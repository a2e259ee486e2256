package engine

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Hussnain311/Traffic-Load-Balancer/component"
	"github.com/Hussnain311/Traffic-Load-Balancer/core"
	"github.com/Hussnain311/Traffic-Load-Balancer/event"
	"github.com/Hussnain311/Traffic-Load-Balancer/navigation"
	"github.com/Hussnain311/Traffic-Load-Balancer/status"
	"github.com/sirupsen/logrus"
)

// Resource holds singleton dependencies injected into every system
type Resource struct {
	Graph  *navigation.Graph
	Grid   *SpatialGrid
	Status *status.Registry
	Rand   *rand.Rand
	Log    logrus.FieldLogger
}

// World owns the entity arena, component stores, sim clock and scheduled resumptions
type World struct {
	updateMutex  sync.Mutex
	nextEntityID core.Entity

	now  time.Duration
	tick uint64

	Resource Resource

	Vehicles *Store[component.VehicleComponent]
	Barriers *Store[component.BarrierComponent]
	Tolls    []component.TollRegion

	Timers *TimerQueue
	Events *event.EventQueue

	systems   []System
	statTicks *atomic.Int64
	statTime  *status.AtomicFloat
}

// NewWorld creates an empty world around the given resources
// Missing Status, Rand or Log are filled with defaults
func NewWorld(res Resource) *World {
	if res.Status == nil {
		res.Status = status.NewRegistry()
	}
	if res.Rand == nil {
		res.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if res.Log == nil {
		res.Log = logrus.StandardLogger()
	}
	if res.Graph == nil {
		res.Graph = navigation.NewGraph()
	}

	return &World{
		nextEntityID: 1,
		Resource:     res,
		Vehicles:     NewStore[component.VehicleComponent](),
		Barriers:     NewStore[component.BarrierComponent](),
		Timers:       NewTimerQueue(),
		Events:       event.NewEventQueue(),
		systems:      make([]System, 0),
		statTicks:    res.Status.Ints.Get(status.KeyTicks),
		statTime:     res.Status.Floats.Get(status.KeySimSeconds),
	}
}

// CreateEntity reserves a new entity ID
func (w *World) CreateEntity() core.Entity {
	id := w.nextEntityID
	w.nextEntityID++
	return id
}

// Now returns the current sim time
func (w *World) Now() time.Duration {
	return w.now
}

// TickCount returns the number of completed steps
func (w *World) TickCount() uint64 {
	return w.tick
}

// After schedules fn d of sim time from now
func (w *World) After(d time.Duration, fn TimerFunc) TimerHandle {
	return w.Timers.Schedule(w.now+d, fn)
}

// AddSystem adds a system to the world and sorts by priority
func (w *World) AddSystem(system System) {
	w.systems = append(w.systems, system)

	// Sort by priority (bubble sort, small N)
	for i := 0; i < len(w.systems)-1; i++ {
		for j := 0; j < len(w.systems)-i-1; j++ {
			if w.systems[j].Priority() > w.systems[j+1].Priority() {
				w.systems[j], w.systems[j+1] = w.systems[j+1], w.systems[j]
			}
		}
	}
}

// Systems returns a copy of all registered systems in run order
func (w *World) Systems() []System {
	result := make([]System, len(w.systems))
	copy(result, w.systems)
	return result
}

// Step advances the sim clock by dt, fires due resumptions, then runs systems
// Caller must hold the update lock (see RunSafe)
func (w *World) Step(dt time.Duration) {
	w.now += dt
	w.tick++

	w.Timers.Poll(w.now)

	for _, system := range w.systems {
		system.Update(dt)
	}

	w.statTicks.Store(int64(w.tick))
	w.statTime.Store(w.now.Seconds())
}

// RunSafe executes a function while holding the world's update lock
func (w *World) RunSafe(fn func()) {
	w.updateMutex.Lock()
	defer w.updateMutex.Unlock()
	fn()
}

// PushEvent emits an event stamped with the current tick
func (w *World) PushEvent(et event.EventType, payload any) {
	w.Events.Push(event.GameEvent{
		Type:    et,
		Payload: payload,
		Tick:    w.tick,
	})
}

// Log returns the world's logger
func (w *World) Log() logrus.FieldLogger {
	return w.Resource.Log
}
