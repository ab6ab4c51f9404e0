// Package geom holds the vector helpers shared by the physics and AI layers.
// Positions are y-up: the pitch lies in the x/z plane.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-6

// Up is the world vertical axis.
var Up = mgl64.Vec3{0, 1, 0}

// Planar projects v onto the ground plane.
func Planar(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], 0, v[2]}
}

// PlanarLen is the ground-projected length of v.
func PlanarLen(v mgl64.Vec3) float64 {
	return math.Hypot(v[0], v[2])
}

// PlanarDist is the ground-projected distance between a and b.
func PlanarDist(a, b mgl64.Vec3) float64 {
	return math.Hypot(b[0]-a[0], b[2]-a[2])
}

// SafeNormalize returns v scaled to unit length, or fallback when v is
// too short to carry a direction.
func SafeNormalize(v, fallback mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < Epsilon || math.IsNaN(l) || math.IsInf(l, 0) {
		return fallback
	}
	return v.Mul(1 / l)
}

// PlanarDir is the unit ground direction from a to b, or fallback.
func PlanarDir(from, to, fallback mgl64.Vec3) mgl64.Vec3 {
	return SafeNormalize(Planar(to.Sub(from)), fallback)
}

// IsZero reports whether v has no usable direction.
func IsZero(v mgl64.Vec3) bool {
	return v.Len() < Epsilon
}

// Heading returns the yaw angle of a planar direction. Zero faces +z.
func Heading(v mgl64.Vec3) float64 {
	return math.Atan2(v[0], v[2])
}

// FromHeading is the unit planar direction for a yaw angle.
func FromHeading(a float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Sin(a), 0, math.Cos(a)}
}

// WrapAngle maps a to (-π, π].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// AngleDelta is the signed shortest rotation from a to b.
func AngleDelta(a, b float64) float64 {
	return WrapAngle(b - a)
}

// LerpAngle rotates from toward to by fraction t along the shortest arc.
func LerpAngle(from, to, t float64) float64 {
	return WrapAngle(from + AngleDelta(from, to)*t)
}

// AngleBetween is the unsigned angle between two planar directions.
func AngleBetween(a, b mgl64.Vec3) float64 {
	return math.Abs(AngleDelta(Heading(a), Heading(b)))
}

// RotateY rotates v about the vertical axis.
func RotateY(v mgl64.Vec3, angle float64) mgl64.Vec3 {
	s, c := math.Sincos(angle)
	return mgl64.Vec3{v[0]*c + v[2]*s, v[1], -v[0]*s + v[2]*c}
}

// ClampLen limits the length of v to max.
func ClampLen(v mgl64.Vec3, max float64) mgl64.Vec3 {
	l := v.Len()
	if l <= max || l < Epsilon {
		return v
	}
	return v.Mul(max / l)
}

// WithPlanar replaces the horizontal components of v with those of h.
func WithPlanar(v, h mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{h[0], v[1], h[2]}
}

// Lerp interpolates between a and b.
func Lerp(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sign returns -1 for negative values and 1 otherwise.
func Sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// TickFactor converts a per-tick decay factor tuned at 60 Hz into the
// factor for an arbitrary dt.
func TickFactor(perTick, dt float64) float64 {
	return math.Pow(perTick, dt*60)
}

// PointSegmentDist is the planar distance from p to the segment a-b and the
// projection parameter along it.
func PointSegmentDist(p, a, b mgl64.Vec3) (float64, float64) {
	ab := Planar(b.Sub(a))
	ap := Planar(p.Sub(a))
	den := ab.Dot(ab)
	if den < Epsilon {
		return PlanarLen(ap), 0
	}
	t := Clamp(ap.Dot(ab)/den, 0, 1)
	return PlanarLen(ap.Sub(ab.Mul(t))), t
}
