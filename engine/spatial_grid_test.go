package engine

import (
	"math"
	"testing"

	"github.com/Hussnain311/Traffic-Load-Balancer/core"
	"github.com/Hussnain311/Traffic-Load-Balancer/parameter"
	"github.com/paulmach/orb"
)

func TestSpatialGridQuery(t *testing.T) {
	g := NewSpatialGrid(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}, 1)

	g.Add(1, orb.Point{0.5, 0.5})
	g.Add(2, orb.Point{5.2, 5.7})
	g.Add(3, orb.Point{9.9, 9.9})

	tests := []struct {
		name  string
		bound orb.Bound
		want  []core.Entity
	}{
		{"origin cell", orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{0.9, 0.9}}, []core.Entity{1}},
		{"middle", orb.Bound{Min: orb.Point{4, 4}, Max: orb.Point{6, 6}}, []core.Entity{2}},
		{"everything", orb.Bound{Min: orb.Point{-5, -5}, Max: orb.Point{20, 20}}, []core.Entity{1, 2, 3}},
		{"empty", orb.Bound{Min: orb.Point{2, 7}, Max: orb.Point{3, 8}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Query(tt.bound, nil)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			seen := make(map[core.Entity]bool)
			for _, e := range got {
				seen[e] = true
			}
			for _, e := range tt.want {
				if !seen[e] {
					t.Errorf("missing %d in %v", e, got)
				}
			}
		})
	}
}

func TestSpatialGridClampsOutside(t *testing.T) {
	g := NewSpatialGrid(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{4, 4}}, 1)
	g.Add(7, orb.Point{-100, 50})

	got := g.Query(orb.Bound{Min: orb.Point{-1, 3}, Max: orb.Point{0, 5}}, nil)
	if len(got) != 1 || got[0] != 7 {
		t.Errorf("expected clamped entity, got %v", got)
	}

	g.Clear()
	if got := g.Query(orb.Bound{Min: orb.Point{-10, -10}, Max: orb.Point{10, 10}}, nil); len(got) != 0 {
		t.Errorf("expected empty after clear, got %v", got)
	}
}

func TestSpatialGridCapsCellCount(t *testing.T) {
	tests := []struct {
		name  string
		bound orb.Bound
	}{
		{"wide", orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{30000, 30000}}},
		{"huge", orb.Bound{Min: orb.Point{-4, -4}, Max: orb.Point{1e7, 1e7}}},
		{"thin strip", orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1e9, 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewSpatialGrid(tt.bound, 1)
			if n := g.Width * g.Height; n > parameter.MaxGridCells || n != len(g.Cells) {
				t.Fatalf("cells = %d (%dx%d), cap %d", len(g.Cells), g.Width, g.Height, parameter.MaxGridCells)
			}
			if g.CellSize <= 1 {
				t.Errorf("cell size %v did not grow", g.CellSize)
			}

			g.Add(1, tt.bound.Min)
			g.Add(2, tt.bound.Max)
			got := g.Query(tt.bound, nil)
			if len(got) != 2 {
				t.Errorf("query over whole bound = %v", got)
			}
		})
	}
}

func TestSpatialGridDegenerateInput(t *testing.T) {
	inf := math.Inf(1)
	g := NewSpatialGrid(orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{inf, 5}}, math.NaN())
	if g.Width != 1 || g.Height != 1 || g.CellSize != parameter.MinGridCellSize {
		t.Fatalf("grid = %dx%d cell %v", g.Width, g.Height, g.CellSize)
	}
	g.Add(3, orb.Point{math.NaN(), inf})
	if got := g.Query(orb.Bound{Min: orb.Point{-1, -1}, Max: orb.Point{1, 1}}, nil); len(got) != 1 {
		t.Errorf("expected clamped entity, got %v", got)
	}
}
