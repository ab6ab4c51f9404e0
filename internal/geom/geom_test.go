package geom

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestSafeNormalizeFallsBackOnZero(t *testing.T) {
	fb := mgl64.Vec3{0, 0, 1}
	assert.Equal(t, fb, SafeNormalize(mgl64.Vec3{}, fb))
	assert.Equal(t, fb, SafeNormalize(mgl64.Vec3{math.NaN(), 0, 0}, fb))

	n := SafeNormalize(mgl64.Vec3{3, 0, 4}, fb)
	assert.InDelta(t, 1.0, n.Len(), 1e-9)
	assert.InDelta(t, 0.6, n[0], 1e-9)
}

func TestWrapAngle(t *testing.T) {
	cases := map[float64]float64{
		0:               0,
		math.Pi:         math.Pi,
		-math.Pi:        math.Pi,
		3 * math.Pi / 2: -math.Pi / 2,
		-3 * math.Pi:    math.Pi,
	}
	for in, want := range cases {
		assert.InDelta(t, want, WrapAngle(in), 1e-9, "wrap(%f)", in)
	}
}

func TestLerpAngleTakesShortestPath(t *testing.T) {
	from := math.Pi - 0.1
	to := -math.Pi + 0.1
	got := LerpAngle(from, to, 0.5)
	assert.InDelta(t, math.Pi, math.Abs(got), 1e-9)
}

func TestHeadingRoundTrip(t *testing.T) {
	for _, a := range []float64{0, 0.5, -2, math.Pi / 2} {
		assert.InDelta(t, a, Heading(FromHeading(a)), 1e-9)
	}
}

func TestPointSegmentDist(t *testing.T) {
	d, tt := PointSegmentDist(mgl64.Vec3{5, 0, 2}, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{10, 0, 0})
	assert.InDelta(t, 2.0, d, 1e-9)
	assert.InDelta(t, 0.5, tt, 1e-9)

	d, _ = PointSegmentDist(mgl64.Vec3{1, 0, 1}, mgl64.Vec3{}, mgl64.Vec3{})
	assert.InDelta(t, math.Sqrt2, d, 1e-9)
}

func TestClampLen(t *testing.T) {
	v := ClampLen(mgl64.Vec3{10, 0, 0}, 4)
	assert.InDelta(t, 4.0, v.Len(), 1e-9)
	assert.Equal(t, mgl64.Vec3{1, 0, 0}, ClampLen(mgl64.Vec3{1, 0, 0}, 4))
}
