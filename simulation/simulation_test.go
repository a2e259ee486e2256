package simulation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/Hussnain311/Traffic-Load-Balancer/component"
	"github.com/Hussnain311/Traffic-Load-Balancer/config"
	"github.com/Hussnain311/Traffic-Load-Balancer/core"
	"github.com/Hussnain311/Traffic-Load-Balancer/event"
	"github.com/Hussnain311/Traffic-Load-Balancer/ledger"
	"github.com/Hussnain311/Traffic-Load-Balancer/navigation"
	"github.com/Hussnain311/Traffic-Load-Balancer/parameter"
	"github.com/Hussnain311/Traffic-Load-Balancer/system"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
)

const tick = 20 * time.Millisecond

const straightRoad = `
[sim]
seed = 1

[spawn]
min_interval = "1s"
max_interval = "1s"

[[vehicle]]
name = "car"
model = "car"
min_speed = 5.0
max_speed = 5.0

[[node]]
name = "A"
entry = true
next = ["B"]

[[node]]
name = "B"
x = 10.0
terminal = true
`

const fourSignals = `
[sim]
seed = 3

[signal]
switch_time = "10s"

[spawn]
min_interval = "1000s"
max_interval = "1000s"

[[vehicle]]
name = "car"
model = "car"
min_speed = 5.0
max_speed = 5.0

[[node]]
name = "A"
entry = true

[[barrier]]
name = "s0"
group = "signal"

[[barrier]]
name = "s1"
group = "signal"
x = 1.0

[[barrier]]
name = "s2"
group = "signal"
x = 2.0

[[barrier]]
name = "s3"
group = "signal"
x = 3.0

[[barrier]]
name = "stop0"
group = "stop"
y = 5.0
`

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func mustParse(t *testing.T, doc string) *config.Config {
	t.Helper()
	cfg, err := config.Parse(doc)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

// collector records every event it is registered for
type collector struct {
	types  []event.EventType
	events []event.GameEvent
}

func newCollector(types ...event.EventType) *collector {
	return &collector{types: types}
}

func (c *collector) EventTypes() []event.EventType { return c.types }

func (c *collector) HandleEvent(ev event.GameEvent) { c.events = append(c.events, ev) }

// countingScene records scene calls
type countingScene struct {
	spawned   int
	destroyed []core.Entity
}

func (c *countingScene) Spawn(core.Entity, string, orb.Point, float64) error {
	c.spawned++
	return nil
}

func (c *countingScene) Destroy(e core.Entity) {
	c.destroyed = append(c.destroyed, e)
}

func TestStraightRoadVehicleDespawns(t *testing.T) {
	col := newCollector(event.EventVehicleSpawned, event.EventVehicleDestroyed)
	sim, err := New(mustParse(t, straightRoad), WithLogger(quietLogger()), WithHandler(col))
	if err != nil {
		t.Fatal(err)
	}
	defer sim.Close()

	if err := sim.Advance(3500*time.Millisecond, tick); err != nil {
		t.Fatal(err)
	}

	var spawnedAt, destroyedAt uint64
	var first core.Entity
	for _, ev := range col.events {
		switch p := ev.Payload.(type) {
		case *event.VehicleSpawnedPayload:
			if first == core.NoEntity {
				first, spawnedAt = p.Entity, ev.Tick
			}
		case *event.VehicleDestroyedPayload:
			if p.Entity == first {
				destroyedAt = ev.Tick
				if p.Reason != event.ReasonTerminal {
					t.Errorf("reason = %s, want terminal", p.Reason)
				}
			}
		}
	}
	if first == core.NoEntity || destroyedAt == 0 {
		t.Fatalf("vehicle lifecycle incomplete: spawned=%d destroyed=%d", spawnedAt, destroyedAt)
	}
	// 10 units at 5 units/s is ~2s of travel
	travel := time.Duration(destroyedAt-spawnedAt) * tick
	if travel < 1900*time.Millisecond || travel > 2200*time.Millisecond {
		t.Errorf("travel time = %v, want ~2s", travel)
	}
}

func TestFourSignalsAt25s(t *testing.T) {
	sim, err := New(mustParse(t, fourSignals), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	defer sim.Close()

	for elapsed := time.Duration(0); elapsed < 25*time.Second; elapsed += tick {
		if err := sim.Tick(tick); err != nil {
			t.Fatal(err)
		}
		open := 0
		for _, b := range sim.Snapshot().Barriers {
			if b.Group == "signal" && !b.Blocking {
				open++
			}
		}
		if open != 1 {
			t.Fatalf("at %v: %d signals open", elapsed, open)
		}
	}

	snap := sim.Snapshot()
	if snap.SignalOpen != 2 {
		t.Errorf("open signal at 25s = %d, want 2", snap.SignalOpen)
	}
}

func TestPressStop(t *testing.T) {
	sim, err := New(mustParse(t, fourSignals), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	defer sim.Close()

	if err := sim.PressStop(3); !errors.Is(err, system.ErrInvalidControl) {
		t.Errorf("invalid press err = %v", err)
	}

	stopBlocking := func() bool {
		for _, b := range sim.Snapshot().Barriers {
			if b.Group == "stop" {
				return b.Blocking
			}
		}
		t.Fatal("no stop barrier")
		return false
	}

	if !stopBlocking() {
		t.Fatal("stop should start blocking")
	}
	if err := sim.PressStop(0); err != nil {
		t.Fatal(err)
	}
	if stopBlocking() {
		t.Fatal("stop should open on press")
	}
	_ = sim.Advance(4900*time.Millisecond, tick)
	if stopBlocking() {
		t.Fatal("stop re-blocked early")
	}
	_ = sim.Advance(200*time.Millisecond, tick)
	if !stopBlocking() {
		t.Error("stop should re-block after 5s")
	}
}

func TestCloseTearsDown(t *testing.T) {
	scene := &countingScene{}
	col := newCollector(event.EventVehicleDestroyed)
	sim, err := New(mustParse(t, straightRoad),
		WithLogger(quietLogger()),
		WithScene(scene),
		WithHandler(col),
	)
	if err != nil {
		t.Fatal(err)
	}

	_ = sim.Advance(1100*time.Millisecond, tick)
	if len(sim.Snapshot().Vehicles) != 1 {
		t.Fatalf("vehicles before close = %d", len(sim.Snapshot().Vehicles))
	}

	if err := sim.Close(); err != nil {
		t.Fatal(err)
	}
	if err := sim.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}

	if len(scene.destroyed) != 1 {
		t.Errorf("scene destroys = %d, want 1", len(scene.destroyed))
	}
	if len(col.events) != 1 || col.events[0].Payload.(*event.VehicleDestroyedPayload).Reason != event.ReasonTeardown {
		t.Errorf("teardown events = %+v", col.events)
	}
	if sim.world.Timers.Len() != 0 {
		t.Errorf("timers left = %d", sim.world.Timers.Len())
	}

	if err := sim.Tick(tick); !errors.Is(err, ErrClosed) {
		t.Errorf("Tick after close = %v", err)
	}
	if err := sim.PressStop(0); !errors.Is(err, ErrClosed) {
		t.Errorf("PressStop after close = %v", err)
	}
	if err := sim.RemoveNode("A"); !errors.Is(err, ErrClosed) {
		t.Errorf("RemoveNode after close = %v", err)
	}
}

func TestDeterministicWithSeed(t *testing.T) {
	cfg, err := config.Load("../cmd/trafficsim/example.toml")
	if err != nil {
		t.Fatal(err)
	}

	run := func() []byte {
		sim, err := New(cfg, WithLogger(quietLogger()), WithRand(rand.New(rand.NewSource(99))))
		if err != nil {
			t.Fatal(err)
		}
		defer sim.Close()
		if err := sim.Advance(60*time.Second, tick); err != nil {
			t.Fatal(err)
		}
		snap := sim.Snapshot()
		snap.RunID = ""
		out, err := json.Marshal(snap)
		if err != nil {
			t.Fatal(err)
		}
		return out
	}

	a, b := run(), run()
	if string(a) != string(b) {
		t.Error("same seed produced different worlds")
	}
}

func TestExampleInvariants(t *testing.T) {
	cfg, err := config.Load("../cmd/trafficsim/example.toml")
	if err != nil {
		t.Fatal(err)
	}
	wallet := ledger.NewWallet(0)
	sim, err := New(cfg, WithLogger(quietLogger()), WithWallet(wallet))
	if err != nil {
		t.Fatal(err)
	}
	defer sim.Close()

	prevMin, prevMax := 1e9, 1e9
	prevUnlocked := 0
	for elapsed := time.Duration(0); elapsed < 90*time.Second; elapsed += tick {
		if err := sim.Tick(tick); err != nil {
			t.Fatal(err)
		}
		if elapsed%time.Second != 0 {
			continue
		}
		snap := sim.Snapshot()
		for _, v := range snap.Vehicles {
			if v.Target == "" {
				t.Fatalf("vehicle %d has no valid target", v.Entity)
			}
		}
		if snap.SpawnMin > prevMin || snap.SpawnMax > prevMax || snap.SpawnMin < 0.5 || snap.SpawnMax < 1.0 {
			t.Fatalf("spawn bounds [%v,%v] after [%v,%v]", snap.SpawnMin, snap.SpawnMax, prevMin, prevMax)
		}
		if snap.Unlocked < prevUnlocked || snap.Unlocked > len(cfg.Vehicles) {
			t.Fatalf("unlocked %d after %d", snap.Unlocked, prevUnlocked)
		}
		prevMin, prevMax, prevUnlocked = snap.SpawnMin, snap.SpawnMax, snap.Unlocked
	}

	if prevUnlocked != 4 {
		t.Errorf("unlocked after 90s = %d, want 4", prevUnlocked)
	}
	if got := sim.Status().Ints.Get("sim.vehicles.spawned").Load(); got == 0 {
		t.Error("no vehicles spawned")
	}
	if wallet.Balance()%10 != 0 {
		t.Errorf("balance %d is not a multiple of the toll reward", wallet.Balance())
	}
}

func TestSegmentAndNodeControls(t *testing.T) {
	cfg, err := config.Load("../cmd/trafficsim/example.toml")
	if err != nil {
		t.Fatal(err)
	}
	sim, err := New(cfg, WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	defer sim.Close()

	if err := sim.SetSegmentActive("bypass", true); err != nil {
		t.Errorf("SetSegmentActive: %v", err)
	}
	if err := sim.SetSegmentActive("nowhere", true); !errors.Is(err, ErrUnknownSegment) {
		t.Errorf("unknown segment err = %v", err)
	}
	if err := sim.RemoveNode("bypass_a"); err != nil {
		t.Errorf("RemoveNode: %v", err)
	}
	if err := sim.RemoveNode("bypass_a"); !errors.Is(err, navigation.ErrUnknownNode) {
		t.Errorf("second RemoveNode err = %v", err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := mustParse(t, straightRoad)
	cfg.Vehicles = nil
	if _, err := New(cfg, WithLogger(quietLogger())); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("err = %v", err)
	}
}

func TestSnapshotEvents(t *testing.T) {
	col := newCollector(event.EventSnapshot)
	sim, err := New(mustParse(t, straightRoad), WithLogger(quietLogger()), WithHandler(col))
	if err != nil {
		t.Fatal(err)
	}
	defer sim.Close()

	_ = sim.Advance(time.Second, tick)
	// 50 ticks, one snapshot every 5
	if len(col.events) != 10 {
		t.Fatalf("snapshots = %d, want 10", len(col.events))
	}
	snap := col.events[9].Payload.(*Snapshot)
	if snap.RunID != sim.ID() || snap.Tick != 50 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	sim, err := New(mustParse(t, straightRoad), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	defer sim.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := sim.Run(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Run = %v", err)
	}
	if sim.Snapshot().Tick == 0 {
		t.Error("Run did not tick")
	}
}

func TestRunReturnsOnClose(t *testing.T) {
	sim, err := New(mustParse(t, straightRoad), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- sim.Run(context.Background()) }()
	time.Sleep(50 * time.Millisecond)
	_ = sim.Close()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Close")
	}
}

func TestLayoutReflectsSegments(t *testing.T) {
	cfg, err := config.Load("../cmd/trafficsim/example.toml")
	if err != nil {
		t.Fatal(err)
	}
	sim, err := New(cfg, WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	defer sim.Close()

	active := func(name string) bool {
		for _, wp := range sim.Layout().Waypoints {
			if wp.Name == name {
				return wp.Active
			}
		}
		t.Fatalf("waypoint %s missing", name)
		return false
	}

	layout := sim.Layout()
	if len(layout.Waypoints) != len(cfg.Nodes) || len(layout.Tolls) != len(cfg.Tolls) {
		t.Fatalf("layout = %d waypoints, %d tolls", len(layout.Waypoints), len(layout.Tolls))
	}
	if active("bypass_a") {
		t.Error("bypass should start inactive")
	}
	_ = sim.SetSegmentActive("bypass", true)
	if !active("bypass_a") {
		t.Error("bypass should be active after toggle")
	}
}

func TestLayoutExitDistances(t *testing.T) {
	sim, err := New(mustParse(t, straightRoad), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	defer sim.Close()

	for _, wp := range sim.Layout().Waypoints {
		want := map[string]float64{"A": 10, "B": 0}[wp.Name]
		if wp.ExitDistance != want {
			t.Errorf("%s exit distance = %v, want %v", wp.Name, wp.ExitDistance, want)
		}
	}
}

func TestWideNetworkBuildsBoundedGrid(t *testing.T) {
	doc := strings.Replace(straightRoad, "x = 10.0", "x = 1e7\ny = 1e7", 1)
	doc = strings.Replace(doc, "max_speed = 5.0", "max_speed = 5.0\ndetection_distance = 3.0\nbody_radius = 0.5", 1)
	cfg := mustParse(t, doc)

	sim, err := New(cfg, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer sim.Close()

	grid := sim.world.Resource.Grid
	if n := grid.Width * grid.Height; n > parameter.MaxGridCells {
		t.Fatalf("grid has %d cells, cap %d", n, parameter.MaxGridCells)
	}

	if err := sim.Advance(3*time.Second, tick); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if got := len(sim.Snapshot().Vehicles); got < 2 {
		t.Errorf("live vehicles = %d, want at least 2", got)
	}
}

func TestGridCellSizeCoversSensorReach(t *testing.T) {
	catalog := []component.VehicleType{
		{Name: "bus", HasSensor: true, SensorOffset: 1.5, DetectionDistance: 6, BodyRadius: 1},
		{Name: "bike", BodyRadius: 2},
	}
	if got := gridCellSize(catalog); got != 11.5 {
		t.Errorf("cell size = %v, want 11.5", got)
	}
	if got := gridCellSize(nil); got != parameter.MinGridCellSize {
		t.Errorf("empty catalog cell size = %v", got)
	}
}
