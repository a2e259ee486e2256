package vmath

import (
	"math"

	"github.com/paulmach/orb"
)

// RayCircle intersects a ray segment with a circle
// dir must be a unit vector; returns the distance along the ray to the first contact within [0, length]
// An origin already inside the circle reports distance 0
func RayCircle(origin, dir orb.Point, length float64, center orb.Point, radius float64) (float64, bool) {
	m := Sub(origin, center)
	c := Dot(m, m) - radius*radius
	if c <= 0 {
		return 0, true
	}

	b := Dot(m, dir)
	if b > 0 {
		// Origin outside and ray pointing away
		return 0, false
	}

	disc := b*b - c
	if disc < 0 {
		return 0, false
	}

	t := -b - math.Sqrt(disc)
	if t < 0 {
		t = 0
	}
	if t > length {
		return 0, false
	}
	return t, true
}

// PointInCircle reports whether p lies within radius of center
func PointInCircle(p, center orb.Point, radius float64) bool {
	d := Sub(p, center)
	return Dot(d, d) <= radius*radius
}
