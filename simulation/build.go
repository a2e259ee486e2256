package simulation

import (
	"fmt"
	"math"

	"github.com/Hussnain311/Traffic-Load-Balancer/component"
	"github.com/Hussnain311/Traffic-Load-Balancer/config"
	"github.com/Hussnain311/Traffic-Load-Balancer/engine"
	"github.com/Hussnain311/Traffic-Load-Balancer/navigation"
	"github.com/Hussnain311/Traffic-Load-Balancer/parameter"
	"github.com/paulmach/orb"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// buildGraph creates the waypoint graph and reports dangling nodes as soft faults
func buildGraph(cfg *config.Config, log logrus.FieldLogger) (*navigation.Graph, error) {
	g := navigation.NewGraph()
	for _, s := range cfg.Segments {
		g.SetSegmentActive(s.Name, s.Active)
	}

	for _, n := range cfg.Nodes {
		id, err := g.AddNode(n.Name, orb.Point{n.X, n.Y}, n.Segment)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
		}
		if n.Heading != nil {
			g.SetHeading(id, *n.Heading*math.Pi/180)
		}
		g.SetTerminal(id, n.Terminal)
	}

	for _, n := range cfg.Nodes {
		from, _ := g.Lookup(n.Name)
		for _, next := range n.Next {
			to, ok := g.Lookup(next)
			if !ok {
				return nil, fmt.Errorf("%w: node %q: %w %q", config.ErrInvalidConfig, n.Name, navigation.ErrUnknownNode, next)
			}
			if err := g.Link(from, to); err != nil {
				return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
			}
		}
	}

	for _, n := range g.Dangling() {
		log.WithField("node", n.Name).Warn("non-terminal waypoint has no successors, vehicles will despawn there")
	}
	warnUnreachable(g, log)
	return g, nil
}

// warnUnreachable logs waypoints whose traffic can never despawn
func warnUnreachable(g *navigation.Graph, log logrus.FieldLogger) {
	if loop := g.Unreachable(); len(loop) > 0 {
		log.WithField("nodes", lo.Map(loop, func(n *navigation.Waypoint, _ int) string { return n.Name })).
			Warn("waypoints cannot reach an exit, vehicles will circulate")
	}
}

// buildCatalog converts vehicle config entries to runtime types
func buildCatalog(cfg *config.Config) []component.VehicleType {
	return lo.Map(cfg.Vehicles, func(v config.VehicleConfig, _ int) component.VehicleType {
		return component.VehicleType{
			Name:              v.Name,
			Model:             v.Model,
			MinSpeed:          v.MinSpeed,
			MaxSpeed:          v.MaxSpeed,
			DetectionDistance: v.DetectionDistance,
			MinFollowDistance: v.MinFollowDistance,
			RotationSpeed:     v.RotationSpeed,
			BodyRadius:        v.BodyRadius,
			SensorOffset:      v.SensorOffset,
			HasSensor:         v.HasSensor(),
		}
	})
}

// gridCellSize picks a cell edge that covers the longest sensor reach in the catalog
func gridCellSize(catalog []component.VehicleType) float64 {
	var reach, radius float64
	for _, vt := range catalog {
		if vt.HasSensor {
			reach = max(reach, vt.SensorOffset+vt.DetectionDistance)
		}
		radius = max(radius, vt.BodyRadius)
	}
	return max(parameter.MinGridCellSize, reach+2*radius)
}

// resolveEntries maps entry node names to ids
func resolveEntries(cfg *config.Config, g *navigation.Graph) ([]navigation.NodeID, error) {
	names := cfg.EntryNodes()
	ids := make([]navigation.NodeID, 0, len(names))
	for _, name := range names {
		id, ok := g.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: entry %w %q", config.ErrInvalidConfig, navigation.ErrUnknownNode, name)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// placeBarriers creates barrier entities in declaration order, all initially blocking
func placeBarriers(cfg *config.Config, w *engine.World) {
	for _, b := range cfg.Barriers {
		group := component.BarrierStop
		if b.Group == config.GroupSignal {
			group = component.BarrierSignal
		}
		w.Barriers.Set(w.CreateEntity(), component.BarrierComponent{
			Name:     b.Name,
			Group:    group,
			Pos:      orb.Point{b.X, b.Y},
			Radius:   b.Radius,
			Blocking: true,
		})
	}
}

// placeTolls converts toll config to regions
func placeTolls(cfg *config.Config) []component.TollRegion {
	return lo.Map(cfg.Tolls, func(t config.TollConfig, _ int) component.TollRegion {
		return component.TollRegion{
			Name:   t.Name,
			Center: orb.Point{t.X, t.Y},
			Radius: t.Radius,
			Reward: t.Reward,
		}
	})
}
