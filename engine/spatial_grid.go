package engine

import (
	"math"

	"github.com/Hussnain311/Traffic-Load-Balancer/core"
	"github.com/Hussnain311/Traffic-Load-Balancer/parameter"
	"github.com/paulmach/orb"
)

// SpatialGrid is a dense uniform grid over world coordinates for forward-occupancy queries
// Points outside the covered area clamp to the border cells so every entity stays indexed
type SpatialGrid struct {
	Origin   orb.Point
	CellSize float64
	Width    int
	Height   int
	Cells    [][]core.Entity // 1D array: index = y*Width + x
}

// NewSpatialGrid creates a grid covering bound with square cells of at least cellSize
// Cells grow past cellSize when the bound would need more than parameter.MaxGridCells
func NewSpatialGrid(bound orb.Bound, cellSize float64) *SpatialGrid {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		cellSize = parameter.MinGridCellSize
	}
	spanX := bound.Max[0] - bound.Min[0]
	spanY := bound.Max[1] - bound.Min[1]
	if !finite(spanX) || !finite(spanY) || spanX < 0 || spanY < 0 {
		// Degenerate bound: a single cell still indexes everything through clamping
		spanX, spanY = 0, 0
	}

	w, h := gridDims(spanX, spanY, cellSize)
	for w*h > parameter.MaxGridCells {
		cellSize *= math.Sqrt(w * h / parameter.MaxGridCells)
		// Rounding can leave the product just over the cap
		cellSize *= 1.01
		w, h = gridDims(spanX, spanY, cellSize)
	}

	return &SpatialGrid{
		Origin:   bound.Min,
		CellSize: cellSize,
		Width:    int(w),
		Height:   int(h),
		Cells:    make([][]core.Entity, int(w)*int(h)),
	}
}

// gridDims returns the cell counts per axis as floats so huge spans cannot overflow int
func gridDims(spanX, spanY, cellSize float64) (float64, float64) {
	return math.Ceil(spanX/cellSize) + 1, math.Ceil(spanY/cellSize) + 1
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// cellOf maps a world point to clamped cell coordinates
func (g *SpatialGrid) cellOf(p orb.Point) (int, int) {
	return g.axis(p[0]-g.Origin[0], g.Width), g.axis(p[1]-g.Origin[1], g.Height)
}

// axis converts an offset to a cell index, clamping before the int conversion
func (g *SpatialGrid) axis(offset float64, n int) int {
	c := math.Floor(offset / g.CellSize)
	if !(c > 0) {
		return 0
	}
	if c >= float64(n-1) {
		return n - 1
	}
	return int(c)
}

// Add inserts an entity at world point p
func (g *SpatialGrid) Add(e core.Entity, p orb.Point) {
	x, y := g.cellOf(p)
	idx := y*g.Width + x
	g.Cells[idx] = append(g.Cells[idx], e)
}

// Query appends to buf every entity whose cell overlaps bound
// Callers run exact geometry on the candidates
func (g *SpatialGrid) Query(bound orb.Bound, buf []core.Entity) []core.Entity {
	minX, minY := g.cellOf(bound.Min)
	maxX, maxY := g.cellOf(bound.Max)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			buf = append(buf, g.Cells[y*g.Width+x]...)
		}
	}
	return buf
}

// Clear empties all cells, keeping their capacity
func (g *SpatialGrid) Clear() {
	for i := range g.Cells {
		g.Cells[i] = g.Cells[i][:0]
	}
}
