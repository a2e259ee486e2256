package simulation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Hussnain311/Traffic-Load-Balancer/component"
	"github.com/Hussnain311/Traffic-Load-Balancer/config"
	"github.com/Hussnain311/Traffic-Load-Balancer/engine"
	"github.com/Hussnain311/Traffic-Load-Balancer/event"
	"github.com/Hussnain311/Traffic-Load-Balancer/ledger"
	"github.com/Hussnain311/Traffic-Load-Balancer/navigation"
	"github.com/Hussnain311/Traffic-Load-Balancer/parameter"
	"github.com/Hussnain311/Traffic-Load-Balancer/status"
	"github.com/Hussnain311/Traffic-Load-Balancer/system"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

var (
	// ErrClosed is returned by every inbound call after Close
	ErrClosed = errors.New("simulation closed")

	// ErrUnknownSegment is returned when toggling a segment the config never declared
	ErrUnknownSegment = errors.New("unknown road segment")
)

// Simulation is an assembled traffic world driven by Tick
// All inbound calls are serialized with ticks through the world lock
type Simulation struct {
	id     string
	cfg    *config.Config
	world  *engine.World
	router *event.Router
	wallet system.Wallet

	catalog  []component.VehicleType
	segments map[string]bool

	sensor  *system.SensorSystem
	vehicle *system.VehicleSystem
	toll    *system.TollSystem
	signal  *system.SignalSystem
	stop    *system.StopSystem
	spawn   *system.SpawnSystem

	closed        bool
	sinceSnapshot int
	snapshotEvery int
}

// New validates cfg and assembles a running simulation at sim time zero
func New(cfg *config.Config, opts ...Option) (*Simulation, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logrus.StandardLogger()
	}
	if o.scene == nil {
		o.scene = system.NopScene{}
	}
	if o.wallet == nil {
		o.wallet = ledger.NewWallet(0)
	}

	cfg = cfg.Clone()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if o.rng == nil {
		seed := cfg.Sim.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		o.rng = rand.New(rand.NewSource(seed))
	}

	id := uuid.New().String()
	log := o.log.WithField("run", id)

	graph, err := buildGraph(cfg, log)
	if err != nil {
		return nil, err
	}
	entries, err := resolveEntries(cfg, graph)
	if err != nil {
		return nil, err
	}

	world := engine.NewWorld(engine.Resource{
		Graph:  graph,
		Status: o.status,
		Rand:   o.rng,
		Log:    log,
	})
	placeBarriers(cfg, world)
	world.Tolls = placeTolls(cfg)
	catalog := buildCatalog(cfg)
	world.Resource.Grid = engine.NewSpatialGrid(worldBounds(world).Pad(parameter.GridMargin), gridCellSize(catalog))

	s := &Simulation{
		id:            id,
		cfg:           cfg,
		world:         world,
		router:        event.NewRouter(world.Events),
		wallet:        o.wallet,
		catalog:       catalog,
		segments:      make(map[string]bool, len(cfg.Segments)),
		snapshotEvery: parameter.SnapshotEveryTicks,
	}
	for _, seg := range cfg.Segments {
		s.segments[seg.Name] = true
	}

	s.sensor = system.NewSensorSystem(world)
	s.vehicle = system.NewVehicleSystem(world, s.sensor, o.scene)
	s.toll = system.NewTollSystem(world, o.wallet)
	world.AddSystem(s.sensor)
	world.AddSystem(s.vehicle)
	world.AddSystem(s.toll)

	s.signal = system.NewSignalSystem(world, cfg.Signal.SwitchTime.Duration)
	s.stop = system.NewStopSystem(world, cfg.Stop.ReenableAfter.Duration, cfg.Stop.Controls)
	s.spawn = system.NewSpawnSystem(world, o.scene, s.catalog, entries, system.SpawnTiming{
		MinInterval: cfg.Spawn.MinInterval.Duration,
		MaxInterval: cfg.Spawn.MaxInterval.Duration,
		UnlockEvery: cfg.Spawn.UnlockEvery.Duration,
		RateStep:    cfg.Spawn.RateStep.Duration,
		MinFloor:    cfg.Spawn.MinFloor.Duration,
		MaxFloor:    cfg.Spawn.MaxFloor.Duration,
	})
	s.signal.Start()
	s.stop.Start()
	s.spawn.Start()

	for _, h := range o.handlers {
		s.router.Register(h)
	}

	log.WithFields(logrus.Fields{
		"nodes":   graph.Len(),
		"entries": len(entries),
		"types":   len(s.catalog),
		"signals": s.signal.Count(),
		"stops":   s.stop.Count(),
		"tolls":   len(world.Tolls),
		"seed":    cfg.Sim.Seed,
		"tick":    cfg.Sim.Tick.Duration,
		"systems": lo.Map(world.Systems(), func(sys engine.System, _ int) string { return sys.Name() }),
	}).Info("simulation assembled")

	return s, nil
}

// ID returns the run identifier
func (s *Simulation) ID() string {
	return s.id
}

// Status returns the metric registry
func (s *Simulation) Status() *status.Registry {
	return s.world.Resource.Status
}

// TickInterval returns the configured real-time tick
func (s *Simulation) TickInterval() time.Duration {
	return s.cfg.Sim.Tick.Duration
}

// Tick advances the simulation by dt: due timers, then vehicles, tolls, then event dispatch
func (s *Simulation) Tick(dt time.Duration) error {
	var err error
	s.world.RunSafe(func() {
		if s.closed {
			err = ErrClosed
			return
		}
		if dt <= 0 {
			return
		}
		s.world.Step(dt)
		s.maybePublishSnapshot()
		s.router.DispatchAll()
	})
	return err
}

// Advance runs fixed ticks of dt until total sim time has elapsed
func (s *Simulation) Advance(total, dt time.Duration) error {
	if dt <= 0 {
		return fmt.Errorf("%w: non-positive tick %v", config.ErrInvalidConfig, dt)
	}
	for elapsed := time.Duration(0); elapsed < total; elapsed += dt {
		if err := s.Tick(dt); err != nil {
			return err
		}
	}
	return nil
}

// PressStop opens stop control k for the re-enable window
func (s *Simulation) PressStop(k int) error {
	var err error
	s.world.RunSafe(func() {
		if s.closed {
			err = ErrClosed
			return
		}
		err = s.stop.Press(k)
	})
	return err
}

// SetSegmentActive opens or closes a declared road segment for routing
func (s *Simulation) SetSegmentActive(name string, active bool) error {
	var err error
	s.world.RunSafe(func() {
		if s.closed {
			err = ErrClosed
			return
		}
		if !s.segments[name] {
			err = fmt.Errorf("%w: %q", ErrUnknownSegment, name)
			return
		}
		s.world.Resource.Graph.SetSegmentActive(name, active)
		s.world.Log().WithFields(logrus.Fields{"segment": name, "active": active}).Info("segment toggled")
		warnUnreachable(s.world.Resource.Graph, s.world.Log())
	})
	return err
}

// RemoveNode deletes a waypoint; vehicles heading to it are destroyed on their next tick
func (s *Simulation) RemoveNode(name string) error {
	var err error
	s.world.RunSafe(func() {
		if s.closed {
			err = ErrClosed
			return
		}
		graph := s.world.Resource.Graph
		id, ok := graph.Lookup(name)
		if !ok {
			err = fmt.Errorf("%w: %q", navigation.ErrUnknownNode, name)
			return
		}
		err = graph.RemoveNode(id)
	})
	return err
}

// Close stops every loop, cancels pending timers and destroys all vehicles
// Later inbound calls return ErrClosed; Close itself is idempotent
func (s *Simulation) Close() error {
	s.world.RunSafe(func() {
		if s.closed {
			return
		}
		s.closed = true

		s.signal.Stop()
		s.stop.Stop()
		s.spawn.Stop()
		cancelled := s.world.Timers.CancelAll()
		destroyed := s.vehicle.DestroyAll(event.ReasonTeardown)
		s.router.DispatchAll()

		s.world.Log().WithFields(logrus.Fields{
			"timers":   cancelled,
			"vehicles": destroyed,
			"sim_time": s.world.Now(),
		}).Info("simulation closed")
	})
	return nil
}

// NewScheduler returns a real-time driver for this simulation at the configured tick
func (s *Simulation) NewScheduler() *engine.ClockScheduler {
	return engine.NewClockScheduler(s, nil, s.cfg.Sim.Tick.Duration, s.world.Log())
}

// Run drives the simulation in real time until ctx is done or the simulation is closed
func (s *Simulation) Run(ctx context.Context) error {
	sched := s.NewScheduler()
	sched.Start(ctx)
	<-sched.Done()
	return ctx.Err()
}

func (s *Simulation) maybePublishSnapshot() {
	if s.router.HandlerCount(event.EventSnapshot) == 0 {
		return
	}
	s.sinceSnapshot++
	if s.sinceSnapshot < s.snapshotEvery {
		return
	}
	s.sinceSnapshot = 0
	snap := s.snapshotLocked()
	s.world.PushEvent(event.EventSnapshot, &snap)
}
