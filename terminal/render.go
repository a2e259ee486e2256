package terminal

import (
	"fmt"
	"math"

	"github.com/Hussnain311/Traffic-Load-Balancer/simulation"
	"github.com/Hussnain311/Traffic-Load-Balancer/status"
	"github.com/gdamore/tcell/v2"
	"github.com/paulmach/orb"
)

// arrows index by heading octant, counter-clockwise from +x
var arrows = [8]rune{'→', '↗', '↑', '↖', '←', '↙', '↓', '↘'}

// projection maps world coordinates into a screen rectangle, y up
type projection struct {
	bound         orb.Bound
	left, top     int
	width, height int
}

func (p projection) cell(pt orb.Point) (int, int, bool) {
	if p.width <= 0 || p.height <= 0 {
		return 0, 0, false
	}
	spanX := p.bound.Max[0] - p.bound.Min[0]
	spanY := p.bound.Max[1] - p.bound.Min[1]
	fx, fy := 0.5, 0.5
	if spanX > 0 {
		fx = (pt[0] - p.bound.Min[0]) / spanX
	}
	if spanY > 0 {
		fy = (pt[1] - p.bound.Min[1]) / spanY
	}
	if fx < 0 || fx > 1 || fy < 0 || fy > 1 {
		return 0, 0, false
	}
	x := p.left + int(math.Round(fx*float64(p.width-1)))
	y := p.top + int(math.Round((1-fy)*float64(p.height-1)))
	return x, y, true
}

// arrow picks the glyph closest to heading (radians)
func arrow(heading float64) rune {
	oct := int(math.Round(heading/(math.Pi/4))) % 8
	if oct < 0 {
		oct += 8
	}
	return arrows[oct]
}

// draw renders the latest snapshot
func (v *Viewer) draw() {
	s := v.screen
	w, h := s.Size()
	s.Clear()

	notices := v.recentNotices()
	v.mu.Lock()
	layout := v.layout
	v.mu.Unlock()

	mapTop := 2
	mapBottom := h - 2 - len(notices)
	proj := projection{
		bound:  layout.Bounds.Pad(1),
		left:   1,
		top:    mapTop,
		width:  w - 2,
		height: mapBottom - mapTop,
	}

	v.drawRoads(layout, proj)

	snap := v.latest.Load()
	if snap != nil {
		for _, b := range snap.Barriers {
			x, y, ok := proj.cell(orb.Point{b.X, b.Y})
			if !ok {
				continue
			}
			style := v.theme.Blocking
			if !b.Blocking {
				style = v.theme.Open
			}
			glyph := '■'
			if b.Group == "stop" {
				glyph = '▲'
				if b.Index < 9 {
					s.SetContent(x+1, y, rune('1'+b.Index), nil, v.theme.StopLabel)
				}
			}
			s.SetContent(x, y, glyph, nil, style)
		}
		for _, veh := range snap.Vehicles {
			x, y, ok := proj.cell(orb.Point{veh.X, veh.Y})
			if !ok {
				continue
			}
			style := v.theme.VehicleStyle(veh.Type)
			if veh.Speed < 0.1 {
				style = v.theme.Stopped
			}
			s.SetContent(x, y, arrow(veh.Heading), nil, style)
		}
	}

	v.drawHUD(w)
	for i, n := range notices {
		drawText(s, 1, mapBottom+i, fmt.Sprintf("[%6d] %s", n.tick, n.text), v.theme.Notice)
	}
	drawText(s, 0, h-1, "1-9 press stop   p pause   q quit", v.theme.Help)
	s.Show()
}

// drawRoads plots successor links and toll regions
func (v *Viewer) drawRoads(layout simulation.Layout, proj projection) {
	s := v.screen
	for _, wp := range layout.Waypoints {
		from := orb.Point{wp.X, wp.Y}
		style := v.theme.Road
		if !wp.Active {
			style = v.theme.RoadOff
		}
		for _, to := range wp.Next {
			steps := int(math.Max(math.Abs(to[0]-from[0]), math.Abs(to[1]-from[1]))*2) + 1
			for i := 0; i <= steps; i++ {
				t := float64(i) / float64(steps)
				pt := orb.Point{from[0] + (to[0]-from[0])*t, from[1] + (to[1]-from[1])*t}
				if x, y, ok := proj.cell(pt); ok {
					s.SetContent(x, y, '·', nil, style)
				}
			}
		}
	}
	for _, wp := range layout.Waypoints {
		if x, y, ok := proj.cell(orb.Point{wp.X, wp.Y}); ok {
			glyph := '○'
			if wp.Terminal {
				glyph = '◎'
			}
			s.SetContent(x, y, glyph, nil, v.theme.Node)
		}
	}
	for _, t := range layout.Tolls {
		if x, y, ok := proj.cell(orb.Point{t.X, t.Y}); ok {
			s.SetContent(x, y, '$', nil, v.theme.Toll)
		}
	}
}

// drawHUD writes the two status lines
func (v *Viewer) drawHUD(w int) {
	s := v.screen
	snap := v.latest.Load()
	if snap == nil {
		drawText(s, 0, 0, "waiting for simulation...", v.theme.HUD)
		return
	}

	line := fmt.Sprintf("t=%7.1fs  coins %s  fleet %d  spawn %.1f-%.1fs  signal %d",
		snap.Time, snap.Coins, snap.Unlocked, snap.SpawnMin, snap.SpawnMax, snap.SignalOpen)
	drawText(s, 0, 0, line, v.theme.HUD)

	m := snap.Metrics
	stats := fmt.Sprintf("live %d  spawned %d  despawned %d  failed %d  driven %.0f",
		int(m[status.KeyVehiclesLive]), int(m[status.KeyVehiclesSpawned]),
		int(m[status.KeyVehiclesDestroyed]), int(m[status.KeySpawnFailed]), m[status.KeyDistance])
	drawText(s, 0, 1, stats, v.theme.Help)

	if v.controls.IsPaused() {
		label := " PAUSED "
		drawText(s, w-len(label), 0, label, v.theme.Paused)
	}
}

// drawText writes a single line, clipped at the screen edge
func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	w, h := s.Size()
	if y < 0 || y >= h {
		return
	}
	for _, r := range text {
		if x >= w {
			return
		}
		if x >= 0 {
			s.SetContent(x, y, r, nil, style)
		}
		x++
	}
}
