package system

import (
	"math"
	"testing"
	"time"

	"github.com/Hussnain311/Traffic-Load-Balancer/component"
	"github.com/paulmach/orb"
)

func TestSensorCastNearest(t *testing.T) {
	g, _, b := lineGraph(t, 20)
	w := newMovingWorld(t, g, nil)

	addVehicle(w.World, orb.Point{3, 0}, b, 0, 0)
	near := addVehicle(w.World, orb.Point{2, 0}, b, 0, 0)
	addVehicle(w.World, orb.Point{1, 3}, b, 0, 0)
	self := addVehicle(w.World, orb.Point{0, 0}, b, 0, 5)

	w.sensor.Update(0)
	v, _ := w.Vehicles.Get(self)
	hit := w.sensor.Cast(self, v)

	if hit.Kind != component.ObstacleVehicle || hit.Entity != near {
		t.Fatalf("hit = %+v, want nearest vehicle %d", hit, near)
	}
	// origin at 0.25, peer surface at 1.8
	if math.Abs(hit.Distance-1.55) > 1e-9 {
		t.Errorf("distance = %v, want 1.55", hit.Distance)
	}
}

func TestSensorIgnoresOpenBarriersAndBehind(t *testing.T) {
	g, _, b := lineGraph(t, 20)
	w := newMovingWorld(t, g, nil)

	addBarrier(w.World, component.BarrierSignal, orb.Point{1, 0}, false)
	addBarrier(w.World, component.BarrierStop, orb.Point{-1, 0}, true)
	addVehicle(w.World, orb.Point{-2, 0}, b, 0, 0)
	self := addVehicle(w.World, orb.Point{0, 0}, b, 0, 3)

	w.sensor.Update(0)
	v, _ := w.Vehicles.Get(self)
	if hit := w.sensor.Cast(self, v); hit.Kind != component.ObstacleNone {
		t.Errorf("hit = %+v, want none", hit)
	}
}

func TestSensorSkipsBarrierContainingOrigin(t *testing.T) {
	g, _, b := lineGraph(t, 20)
	w := newMovingWorld(t, g, nil)

	// Vehicle already on the stop line when it closes
	addBarrier(w.World, component.BarrierSignal, orb.Point{0.3, 0}, true)
	self := addVehicle(w.World, orb.Point{0, 0}, b, 0, 1)

	w.sensor.Update(0)
	v, _ := w.Vehicles.Get(self)
	if hit := w.sensor.Cast(self, v); hit.Kind != component.ObstacleNone {
		t.Errorf("hit = %+v, want none for barrier around sensor origin", hit)
	}
}

func TestSensorSeesPeerThatMovedSinceIndexing(t *testing.T) {
	g, _, b := lineGraph(t, 20)
	w := newMovingWorld(t, g, nil)

	peer := addVehicle(w.World, orb.Point{3, 4.5}, b, 5, 0)
	self := addVehicle(w.World, orb.Point{0, 0}, b, 0, 5)

	w.sensor.Update(time.Second)

	// Peer crosses into the ray after the grid was built
	pv, _ := w.Vehicles.Get(peer)
	pv.Pos = orb.Point{3, 0}

	v, _ := w.Vehicles.Get(self)
	if hit := w.sensor.Cast(self, v); hit.Kind != component.ObstacleVehicle || hit.Entity != peer {
		t.Errorf("hit = %+v, want moved peer %d", hit, peer)
	}
}
