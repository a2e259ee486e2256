package system

import (
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/Hussnain311/Traffic-Load-Balancer/component"
	"github.com/Hussnain311/Traffic-Load-Balancer/core"
	"github.com/Hussnain311/Traffic-Load-Balancer/engine"
	"github.com/Hussnain311/Traffic-Load-Balancer/event"
	"github.com/Hussnain311/Traffic-Load-Balancer/navigation"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
)

const tick = 20 * time.Millisecond

// quietLogger discards output
func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newWorld builds a world around g with a fixed seed
func newWorld(t *testing.T, g *navigation.Graph) *engine.World {
	t.Helper()
	return engine.NewWorld(engine.Resource{
		Graph: g,
		Rand:  rand.New(rand.NewSource(1)),
		Log:   quietLogger(),
	})
}

// lineGraph builds a -> b along +X, b terminal
func lineGraph(t *testing.T, length float64) (*navigation.Graph, navigation.NodeID, navigation.NodeID) {
	t.Helper()
	g := navigation.NewGraph()
	a, err := g.AddNode("a", orb.Point{0, 0}, "")
	if err != nil {
		t.Fatal(err)
	}
	b, err := g.AddNode("b", orb.Point{length, 0}, "")
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Link(a, b); err != nil {
		t.Fatal(err)
	}
	g.SetTerminal(b, true)
	return g, a, b
}

// movingWorld wires sensor, vehicle and toll systems
type movingWorld struct {
	*engine.World
	sensor  *SensorSystem
	vehicle *VehicleSystem
	toll    *TollSystem
}

func newMovingWorld(t *testing.T, g *navigation.Graph, wallet Wallet) *movingWorld {
	t.Helper()
	w := newWorld(t, g)
	mw := &movingWorld{World: w}
	mw.sensor = NewSensorSystem(w)
	mw.vehicle = NewVehicleSystem(w, mw.sensor, nil)
	mw.toll = NewTollSystem(w, wallet)
	w.AddSystem(mw.sensor)
	w.AddSystem(mw.vehicle)
	w.AddSystem(mw.toll)
	return mw
}

// addVehicle inserts a vehicle facing +X with a sensor of the given reach
func addVehicle(w *engine.World, pos orb.Point, target navigation.NodeID, speed, reach float64) core.Entity {
	e := w.CreateEntity()
	var sensor *component.Sensor
	if reach > 0 {
		sensor = &component.Sensor{Offset: 0.25, Distance: reach}
	}
	w.Vehicles.Set(e, component.VehicleComponent{
		Pos:           pos,
		Target:        target,
		NominalSpeed:  speed,
		Speed:         speed,
		Sensor:        sensor,
		BodyRadius:    0.2,
		MinFollow:     0.5,
		RotationSpeed: 5,
	})
	return e
}

// addBarrier inserts a barrier
func addBarrier(w *engine.World, group component.BarrierGroup, pos orb.Point, blocking bool) core.Entity {
	e := w.CreateEntity()
	w.Barriers.Set(e, component.BarrierComponent{
		Group:    group,
		Pos:      pos,
		Radius:   0.25,
		Blocking: blocking,
	})
	return e
}

// runFor steps the world in fixed ticks, calling check after each
func runFor(w *engine.World, total time.Duration, check func()) {
	for elapsed := time.Duration(0); elapsed < total; elapsed += tick {
		w.Step(tick)
		if check != nil {
			check()
		}
	}
}

// drain returns queued events of one type
func drain(w *engine.World, et event.EventType) []event.GameEvent {
	var out []event.GameEvent
	for _, ev := range w.Events.Consume() {
		if ev.Type == et {
			out = append(out, ev)
		}
	}
	return out
}
