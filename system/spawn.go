package system

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Hussnain311/Traffic-Load-Balancer/component"
	"github.com/Hussnain311/Traffic-Load-Balancer/core"
	"github.com/Hussnain311/Traffic-Load-Balancer/engine"
	"github.com/Hussnain311/Traffic-Load-Balancer/event"
	"github.com/Hussnain311/Traffic-Load-Balancer/navigation"
	"github.com/Hussnain311/Traffic-Load-Balancer/status"
	"github.com/Hussnain311/Traffic-Load-Balancer/vmath"
	"github.com/sirupsen/logrus"
)

var (
	// ErrMissingModel marks a vehicle type whose scene resource is absent
	ErrMissingModel = errors.New("vehicle model missing")

	// ErrNoEntry is returned when no live entry node is available
	ErrNoEntry = errors.New("no entry node")
)

// SpawnTiming holds the spawn and unlock loop settings
type SpawnTiming struct {
	MinInterval time.Duration
	MaxInterval time.Duration
	UnlockEvery time.Duration
	RateStep    time.Duration
	MinFloor    time.Duration
	MaxFloor    time.Duration
}

// SpawnSystem runs two sim-time loops: one spawning vehicles at random intervals,
// one unlocking the next vehicle type and tightening the interval
type SpawnSystem struct {
	world   *engine.World
	scene   Scene
	catalog []component.VehicleType
	entries []navigation.NodeID
	timing  SpawnTiming

	unlocked    int
	minInterval time.Duration
	maxInterval time.Duration

	spawnHandle  engine.TimerHandle
	unlockHandle engine.TimerHandle

	warnedNoSensor map[int]bool

	statSpawned  *atomic.Int64
	statFailed   *atomic.Int64
	statUnlocked *atomic.Int64
	statMin      *status.AtomicFloat
	statMax      *status.AtomicFloat
}

// NewSpawnSystem creates a spawner over a non-empty catalog in unlock order
func NewSpawnSystem(world *engine.World, scene Scene, catalog []component.VehicleType, entries []navigation.NodeID, timing SpawnTiming) *SpawnSystem {
	if scene == nil {
		scene = NopScene{}
	}
	reg := world.Resource.Status
	s := &SpawnSystem{
		world:          world,
		scene:          scene,
		catalog:        catalog,
		entries:        entries,
		timing:         timing,
		unlocked:       1,
		minInterval:    timing.MinInterval,
		maxInterval:    timing.MaxInterval,
		warnedNoSensor: make(map[int]bool),
		statSpawned:    reg.Ints.Get(status.KeyVehiclesSpawned),
		statFailed:     reg.Ints.Get(status.KeySpawnFailed),
		statUnlocked:   reg.Ints.Get(status.KeyFleetUnlocked),
		statMin:        reg.Floats.Get(status.KeySpawnMin),
		statMax:        reg.Floats.Get(status.KeySpawnMax),
	}
	s.publishStats()
	return s
}

// Name returns system's name
func (s *SpawnSystem) Name() string {
	return "spawn"
}

// Start schedules the first spawn and, when more types remain locked, the unlock loop
func (s *SpawnSystem) Start() {
	s.spawnHandle = s.world.After(s.nextWait(), s.spawnTick)
	if s.unlocked < len(s.catalog) {
		s.unlockHandle = s.world.After(s.timing.UnlockEvery, s.unlockTick)
	}
}

// Stop cancels both loops
func (s *SpawnSystem) Stop() {
	s.world.Timers.Cancel(s.spawnHandle)
	s.world.Timers.Cancel(s.unlockHandle)
	s.spawnHandle, s.unlockHandle = engine.NoTimer, engine.NoTimer
}

// Unlocked returns how many catalog types are spawnable
func (s *SpawnSystem) Unlocked() int {
	return s.unlocked
}

// Interval returns the current spawn wait bounds
func (s *SpawnSystem) Interval() (time.Duration, time.Duration) {
	return s.minInterval, s.maxInterval
}

// nextWait samples U[min, max]
func (s *SpawnSystem) nextWait() time.Duration {
	span := s.maxInterval - s.minInterval
	if span <= 0 {
		return s.minInterval
	}
	return s.minInterval + time.Duration(s.world.Resource.Rand.Int63n(int64(span)+1))
}

func (s *SpawnSystem) spawnTick(due time.Duration) {
	// Failures are reported through events; the loop keeps running
	_, _ = s.SpawnOne()
	s.spawnHandle = s.world.Timers.Schedule(due+s.nextWait(), s.spawnTick)
}

func (s *SpawnSystem) unlockTick(due time.Duration) {
	s.unlocked++
	s.minInterval = shrink(s.minInterval, s.timing.RateStep, s.timing.MinFloor)
	s.maxInterval = shrink(s.maxInterval, s.timing.RateStep, s.timing.MaxFloor)
	if s.minInterval > s.maxInterval {
		s.minInterval = s.maxInterval
	}
	s.publishStats()

	vt := s.catalog[s.unlocked-1]
	s.world.PushEvent(event.EventFleetUnlocked, &event.FleetUnlockedPayload{
		Unlocked:    s.unlocked,
		Type:        vt.Name,
		MinInterval: s.minInterval,
		MaxInterval: s.maxInterval,
	})
	s.world.Log().WithFields(logrus.Fields{
		"unlocked": s.unlocked,
		"type":     vt.Name,
		"min":      s.minInterval,
		"max":      s.maxInterval,
	}).Info("vehicle type unlocked")

	if s.unlocked < len(s.catalog) {
		s.unlockHandle = s.world.Timers.Schedule(due+s.timing.UnlockEvery, s.unlockTick)
	} else {
		s.unlockHandle = engine.NoTimer
	}
}

// shrink lowers v by step, never below floor and never above v itself
func shrink(v, step, floor time.Duration) time.Duration {
	next := v - step
	if next < floor {
		next = min(floor, v)
	}
	return next
}

// SpawnOne spawns a random unlocked type at a random entry node
// Resource absence aborts this spawn only and emits EventSpawnFailed
func (s *SpawnSystem) SpawnOne() (core.Entity, error) {
	rng := s.world.Resource.Rand
	typeIndex := rng.Intn(s.unlocked)
	vt := s.catalog[typeIndex]

	if len(s.entries) == 0 {
		return core.NoEntity, s.fail(vt.Name, "", ErrNoEntry)
	}
	entryID := s.entries[rng.Intn(len(s.entries))]

	graph := s.world.Resource.Graph
	entry, ok := graph.Node(entryID)
	if !ok {
		return core.NoEntity, s.fail(vt.Name, "", fmt.Errorf("%w: id %d removed", ErrNoEntry, entryID))
	}
	if vt.Model == "" {
		return core.NoEntity, s.fail(vt.Name, entry.Name, ErrMissingModel)
	}

	speed := vt.MinSpeed + rng.Float64()*(vt.MaxSpeed-vt.MinSpeed)
	heading := s.entryHeading(entry)

	e := s.world.CreateEntity()
	if err := s.scene.Spawn(e, vt.Model, entry.Pos, heading); err != nil {
		return core.NoEntity, s.fail(vt.Name, entry.Name, fmt.Errorf("%w: %s: %w", ErrMissingModel, vt.Model, err))
	}

	var sensor *component.Sensor
	if vt.HasSensor {
		sensor = &component.Sensor{Offset: vt.SensorOffset, Distance: vt.DetectionDistance}
	} else if !s.warnedNoSensor[typeIndex] {
		s.warnedNoSensor[typeIndex] = true
		s.world.Log().WithField("type", vt.Name).Warn("vehicle type has no sensor, collision checks disabled")
	}

	s.world.Vehicles.Set(e, component.VehicleComponent{
		TypeIndex:     typeIndex,
		Pos:           entry.Pos,
		Heading:       heading,
		Target:        entryID,
		NominalSpeed:  speed,
		Speed:         speed,
		Sensor:        sensor,
		BodyRadius:    vt.BodyRadius,
		MinFollow:     vt.MinFollowDistance,
		RotationSpeed: vt.RotationSpeed,
	})

	s.statSpawned.Add(1)
	s.world.PushEvent(event.EventVehicleSpawned, &event.VehicleSpawnedPayload{
		Entity:       e,
		Type:         vt.Name,
		Entry:        entry.Name,
		X:            entry.Pos[0],
		Y:            entry.Pos[1],
		Heading:      heading,
		NominalSpeed: speed,
	})
	return e, nil
}

// entryHeading uses the configured heading, else faces the first active successor
func (s *SpawnSystem) entryHeading(entry *navigation.Waypoint) float64 {
	if entry.HasHeading {
		return entry.Heading
	}
	graph := s.world.Resource.Graph
	for _, id := range graph.ActiveSuccessors(entry.ID) {
		succ, _ := graph.Node(id)
		if dir, ok := vmath.Normalize(vmath.Sub(succ.Pos, entry.Pos)); ok {
			return vmath.HeadingOf(dir)
		}
	}
	return 0
}

func (s *SpawnSystem) fail(typeName, entry string, err error) error {
	s.statFailed.Add(1)
	s.world.PushEvent(event.EventSpawnFailed, &event.SpawnFailedPayload{
		Type:   typeName,
		Entry:  entry,
		Reason: err.Error(),
	})
	s.world.Log().WithError(err).WithFields(logrus.Fields{
		"type":  typeName,
		"entry": entry,
	}).Warn("spawn aborted")
	return err
}

func (s *SpawnSystem) publishStats() {
	s.statUnlocked.Store(int64(s.unlocked))
	s.statMin.Store(s.minInterval.Seconds())
	s.statMax.Store(s.maxInterval.Seconds())
}
