package vmath

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Add returns p + q
func Add(p, q orb.Point) orb.Point {
	return orb.Point{p[0] + q[0], p[1] + q[1]}
}

// Sub returns p - q
func Sub(p, q orb.Point) orb.Point {
	return orb.Point{p[0] - q[0], p[1] - q[1]}
}

// Scale multiplies vector by scalar factor
func Scale(p orb.Point, s float64) orb.Point {
	return orb.Point{p[0] * s, p[1] * s}
}

// Dot returns x1*x2 + y1*y2
func Dot(p, q orb.Point) float64 {
	return p[0]*q[0] + p[1]*q[1]
}

// Distance returns the planar distance between two points
func Distance(p, q orb.Point) float64 {
	return planar.Distance(p, q)
}

// Normalize returns unit vector, zero-safe
// ok is false for a zero-length input
func Normalize(p orb.Point) (orb.Point, bool) {
	mag := math.Hypot(p[0], p[1])
	if mag == 0 {
		return orb.Point{}, false
	}
	return orb.Point{p[0] / mag, p[1] / mag}, true
}

// Forward returns the unit vector for a heading in radians
func Forward(heading float64) orb.Point {
	return orb.Point{math.Cos(heading), math.Sin(heading)}
}

// HeadingOf returns the heading in radians of a direction vector
func HeadingOf(dir orb.Point) float64 {
	return math.Atan2(dir[1], dir[0])
}

// MoveTowards moves current toward target by at most maxDelta without overshooting
func MoveTowards(current, target orb.Point, maxDelta float64) orb.Point {
	delta := Sub(target, current)
	dist := math.Hypot(delta[0], delta[1])
	if dist <= maxDelta || dist == 0 {
		return target
	}
	return Add(current, Scale(delta, maxDelta/dist))
}
