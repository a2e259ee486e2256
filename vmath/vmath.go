package vmath

import "math"

// Clamp01 limits t to [0, 1]
func Clamp01(t float64) float64 {
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

// Lerp interpolates a toward b with t clamped to [0, 1]
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*Clamp01(t)
}

// WrapAngle maps an angle into (-π, π]
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// LerpAngle rotates from toward to along the shortest arc, t clamped to [0, 1]
func LerpAngle(from, to, t float64) float64 {
	diff := WrapAngle(to - from)
	return WrapAngle(from + diff*Clamp01(t))
}
