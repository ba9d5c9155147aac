// Package vmath holds the small amount of vector math the engine needs on top of mgl64.
package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return mgl64.Clamp(v, lo, hi)
}

// AngleDiff returns the signed shortest rotation from a to b in (-pi, pi]
func AngleDiff(a, b float64) float64 {
	d := math.Mod(b-a, 2*math.Pi)
	if d <= -math.Pi {
		d += 2 * math.Pi
	}
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	return d
}

// LerpAngle eases angle a toward b along the shortest arc
func LerpAngle(a, b, t float64) float64 {
	return a + AngleDiff(a, b)*t
}

// Basis returns the horizontal forward and right unit vectors for a camera yaw.
// Forward points from the orbiting camera toward its target.
func Basis(yaw float64) (forward, right mgl64.Vec3) {
	sin, cos := math.Sincos(yaw)
	forward = mgl64.Vec3{-sin, 0, -cos}
	right = mgl64.Vec3{cos, 0, -sin}
	return forward, right
}

// Horizontal drops the vertical component
func Horizontal(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], 0, v[2]}
}

// HorizontalLen is the length of v projected on the ground plane
func HorizontalLen(v mgl64.Vec3) float64 {
	return math.Hypot(v[0], v[2])
}

// Dist is the Euclidean distance between a and b
func Dist(a, b mgl64.Vec3) float64 {
	return a.Sub(b).Len()
}

// Yaw returns the heading of a horizontal direction, zero facing +Z
func Yaw(dir mgl64.Vec3) float64 {
	return math.Atan2(dir[0], dir[2])
}

// ClampBox bounds the horizontal components of p to the square [-half, half]
func ClampBox(p mgl64.Vec3, half float64) mgl64.Vec3 {
	return mgl64.Vec3{
		Clamp(p[0], -half, half),
		p[1],
		Clamp(p[2], -half, half),
	}
}

// InBox reports whether p lies inside the square [-half, half] on the ground plane
func InBox(p mgl64.Vec3, half float64) bool {
	return p[0] >= -half && p[0] <= half && p[2] >= -half && p[2] <= half
}
