package simulation

import (
	"github.com/Hussnain311/Traffic-Load-Balancer/component"
	"github.com/Hussnain311/Traffic-Load-Balancer/core"
	"github.com/Hussnain311/Traffic-Load-Balancer/engine"
	"github.com/Hussnain311/Traffic-Load-Balancer/ledger"
	"github.com/Hussnain311/Traffic-Load-Balancer/navigation"
	"github.com/Hussnain311/Traffic-Load-Balancer/status"
	"github.com/paulmach/orb"
	"github.com/samber/lo"
)

// Snapshot is a read-only copy of the world for observers
type Snapshot struct {
	RunID      string             `json:"run_id"`
	Tick       uint64             `json:"tick"`
	Time       float64            `json:"time_s"`
	Vehicles   []VehicleView      `json:"vehicles"`
	Barriers   []BarrierView      `json:"barriers"`
	SignalOpen int                `json:"signal_open"`
	Unlocked   int                `json:"unlocked"`
	SpawnMin   float64            `json:"spawn_min_s"`
	SpawnMax   float64            `json:"spawn_max_s"`
	Coins      string             `json:"coins"`
	Metrics    map[string]float64 `json:"metrics"`
}

// VehicleView is one vehicle in a snapshot
type VehicleView struct {
	Entity  core.Entity `json:"entity"`
	Type    string      `json:"type"`
	X       float64     `json:"x"`
	Y       float64     `json:"y"`
	Heading float64     `json:"heading"`
	Speed   float64     `json:"speed"`
	Target  string      `json:"target"`
	Ahead   string      `json:"ahead"`
}

// BarrierView is one barrier in a snapshot
type BarrierView struct {
	Name     string  `json:"name"`
	Group    string  `json:"group"`
	Index    int     `json:"index"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Blocking bool    `json:"blocking"`
}

// Snapshot captures the current world state
func (s *Simulation) Snapshot() Snapshot {
	var snap Snapshot
	s.world.RunSafe(func() {
		snap = s.snapshotLocked()
	})
	return snap
}

func (s *Simulation) snapshotLocked() Snapshot {
	w := s.world
	graph := w.Resource.Graph

	vehicles := lo.FilterMap(w.Vehicles.Entities(), func(e core.Entity, _ int) (VehicleView, bool) {
		v, ok := w.Vehicles.Get(e)
		if !ok {
			return VehicleView{}, false
		}
		view := VehicleView{
			Entity:  e,
			Type:    s.catalog[v.TypeIndex].Name,
			X:       v.Pos[0],
			Y:       v.Pos[1],
			Heading: v.Heading,
			Speed:   v.Speed,
			Ahead:   v.Ahead.Kind.String(),
		}
		if n, ok := graph.Node(v.Target); ok {
			view.Target = n.Name
		}
		return view, true
	})

	barriers := lo.FilterMap(w.Barriers.Entities(), func(e core.Entity, _ int) (BarrierView, bool) {
		b, ok := w.Barriers.Get(e)
		if !ok {
			return BarrierView{}, false
		}
		return BarrierView{
			Name:     b.Name,
			Group:    b.Group.String(),
			Index:    b.Index,
			X:        b.Pos[0],
			Y:        b.Pos[1],
			Blocking: b.Blocking,
		}, true
	})

	minWait, maxWait := s.spawn.Interval()
	reg := w.Resource.Status
	return Snapshot{
		RunID:      s.id,
		Tick:       w.TickCount(),
		Time:       w.Now().Seconds(),
		Vehicles:   vehicles,
		Barriers:   barriers,
		SignalOpen: s.signal.Open(),
		Unlocked:   s.spawn.Unlocked(),
		SpawnMin:   minWait.Seconds(),
		SpawnMax:   maxWait.Seconds(),
		Coins:      ledger.FormatCoins(reg.Ints.Get(status.KeyTollCoins).Load()),
		Metrics:    reg.Export(),
	}
}

// worldBounds covers graph nodes, barriers and toll regions
func worldBounds(w *engine.World) orb.Bound {
	b := w.Resource.Graph.Bounds()
	for _, e := range w.Barriers.Entities() {
		bc, _ := w.Barriers.Get(e)
		b = b.Extend(bc.Pos)
	}
	for _, t := range w.Tolls {
		b = b.Union(orb.Bound{Min: orb.Point{t.Center[0] - t.Radius, t.Center[1] - t.Radius}, Max: orb.Point{t.Center[0] + t.Radius, t.Center[1] + t.Radius}})
	}
	return b
}

// Layout is the static road network, captured once by viewers
type Layout struct {
	Bounds    orb.Bound      `json:"-"`
	Waypoints []WaypointView `json:"waypoints"`
	Tolls     []TollView     `json:"tolls"`
}

// WaypointView is one live waypoint and its successor positions
type WaypointView struct {
	Name     string      `json:"name"`
	X        float64     `json:"x"`
	Y        float64     `json:"y"`
	Active   bool        `json:"active"`
	Terminal bool        `json:"terminal"`
	Next     []orb.Point `json:"next"`

	// ExitDistance is the shortest road distance to a despawn point, -1 if none
	ExitDistance float64 `json:"exit_distance"`
}

// TollView is one toll region
type TollView struct {
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Layout captures the current road network
func (s *Simulation) Layout() Layout {
	var out Layout
	s.world.RunSafe(func() {
		w := s.world
		graph := w.Resource.Graph
		exits := graph.ExitField()
		out.Bounds = worldBounds(w)
		out.Waypoints = lo.Map(graph.Nodes(), func(n *navigation.Waypoint, _ int) WaypointView {
			next := lo.FilterMap(n.Successors, func(id navigation.NodeID, _ int) (orb.Point, bool) {
				succ, ok := graph.Node(id)
				if !ok {
					return orb.Point{}, false
				}
				return succ.Pos, true
			})
			return WaypointView{
				Name:     n.Name,
				X:        n.Pos[0],
				Y:        n.Pos[1],
				Active:   graph.SegmentActive(n.Segment),
				Terminal: len(graph.ActiveSuccessors(n.ID)) == 0,
				Next:     next,

				ExitDistance: exits.Distance(n.ID),
			}
		})
		out.Tolls = lo.Map(w.Tolls, func(t component.TollRegion, _ int) TollView {
			return TollView{Name: t.Name, X: t.Center[0], Y: t.Center[1], Radius: t.Radius}
		})
	})
	return out
}
