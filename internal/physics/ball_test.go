package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luketas/soccer-ai/internal/geom"
	"github.com/luketas/soccer-ai/internal/pitch"
	"github.com/luketas/soccer-ai/internal/tuning"
)

func newPair(t *testing.T) (tuning.Params, Roster, *Ball) {
	t.Helper()
	p := tuning.Default()
	roster := Roster{
		newActor(t, p, 0, Self, tuning.Midfielder, mgl64.Vec3{-2, 0, 0}),
		newActor(t, p, 1, Opponent, tuning.Defender, mgl64.Vec3{2, 0, 0}),
	}
	return p, roster, NewBall(p, roster)
}

func TestGiveControlIsExclusive(t *testing.T) {
	_, roster, ball := newPair(t)
	a, b := roster[0], roster[1]

	require.True(t, ball.GiveControl(a))
	assert.True(t, a.IsControllingBall())
	assert.Equal(t, BallControlled, ball.State())

	require.True(t, ball.GiveControl(b))
	assert.False(t, a.IsControllingBall())
	assert.True(t, b.IsControllingBall())
	assert.Equal(t, 1, roster.Controllers())
	owner, ok := ball.Owner()
	assert.True(t, ok)
	assert.Equal(t, b.ID, owner)

	assert.False(t, ball.GiveControl(b), "re-granting the same owner is a no-op")

	ball.ReleaseFromControl()
	assert.False(t, b.IsControllingBall())
	assert.Equal(t, 0, roster.Controllers())
	assert.Equal(t, BallFree, ball.State())
}

func TestEnforceExclusivityRepairsStrayFlags(t *testing.T) {
	_, roster, ball := newPair(t)
	ball.GiveControl(roster[0])
	roster[1].controlling = true

	assert.True(t, ball.EnforceExclusivity())
	assert.False(t, roster[1].IsControllingBall())
	assert.True(t, roster[0].IsControllingBall())
	assert.False(t, ball.EnforceExclusivity())
}

func TestFrozenBallStaysStill(t *testing.T) {
	_, _, ball := newPair(t)
	ball.Velocity = mgl64.Vec3{12, 4, -3}
	ball.Spin = mgl64.Vec3{0, 5, 0}
	ball.Frozen = true

	start := ball.Position
	for i := 0; i < 120; i++ {
		ball.Update(tick, fixedRand(0.5))
		require.Equal(t, mgl64.Vec3{}, ball.Velocity)
		require.Equal(t, mgl64.Vec3{}, ball.Spin)
	}
	assert.Equal(t, start, ball.Position)
	assert.Equal(t, BallFrozen, ball.State())
}

func TestFreezeStopsBallImmediately(t *testing.T) {
	_, _, ball := newPair(t)
	ball.Velocity = mgl64.Vec3{9, 2, 1}
	ball.Spin = mgl64.Vec3{0, 3, 0}

	ball.Freeze()
	assert.True(t, ball.Frozen)
	assert.Equal(t, mgl64.Vec3{}, ball.Velocity)
	assert.Equal(t, mgl64.Vec3{}, ball.Spin)
}

func TestPredictLandingFollowsGravityAndFloors(t *testing.T) {
	p, _, ball := newPair(t)
	ball.Position = mgl64.Vec3{0, 1, 0}
	ball.Velocity = mgl64.Vec3{10, 4, -2}

	at := ball.PredictLanding(0.5)
	assert.InDelta(t, 5.0, at[0], 1e-9)
	assert.InDelta(t, -1.0, at[2], 1e-9)
	assert.InDelta(t, 1+4*0.5-0.5*p.Ball.Gravity*0.25, at[1], 1e-9)

	assert.InDelta(t, p.Ball.Radius, ball.PredictLanding(5)[1], 1e-9)
}

func TestFreeBallBouncesAndSettles(t *testing.T) {
	p, _, ball := newPair(t)
	ball.Position = mgl64.Vec3{0, 5, 0}

	bounced := false
	prevVy := 0.0
	for i := 0; i < 60*20; i++ {
		ball.Update(tick, fixedRand(0.5))
		if prevVy < 0 && ball.Velocity[1] > 0 {
			bounced = true
			assert.Less(t, ball.Velocity[1], -prevVy)
		}
		prevVy = ball.Velocity[1]
		require.GreaterOrEqual(t, ball.Position[1], p.Ball.Radius)
	}
	assert.True(t, bounced)
	assert.True(t, ball.Grounded())
	assert.Equal(t, mgl64.Vec3{}, ball.Velocity)
}

func TestGroundFrictionSlowsRollingBall(t *testing.T) {
	p, _, ball := newPair(t)
	ball.Velocity = mgl64.Vec3{10, 0, 0}
	for i := 0; i < 60; i++ {
		ball.Update(tick, fixedRand(0.5))
	}
	assert.InDelta(t, 10*math.Pow(p.Ball.GroundFriction, 60), ball.Velocity[0], 0.05)

	ball.Velocity = mgl64.Vec3{100, 0, 0}
	ball.Position = mgl64.Vec3{0, p.Ball.Radius, 0}
	ball.Update(tick, fixedRand(0.5))
	assert.LessOrEqual(t, ball.Speed(), p.Ball.MaxSpeed+1e-9)
}

func TestSidelineReflects(t *testing.T) {
	p, _, ball := newPair(t)
	ball.Position = mgl64.Vec3{0, p.Ball.Radius, p.Pitch.HalfWidth - 0.5}
	ball.Velocity = mgl64.Vec3{0, 0, 20}

	hit := ball.Update(tick, fixedRand(1))
	assert.True(t, hit.Has(HitSideline))
	assert.Less(t, ball.Velocity[2], 0.0)
	assert.LessOrEqual(t, ball.Position[2], p.Pitch.HalfWidth-p.Ball.Radius)
	// fixed draw of 1 deflects along +x by the full amount
	assert.Greater(t, ball.Velocity[0], 0.0)
}

func TestEndlineReflectsOutsideGoalMouth(t *testing.T) {
	p, _, ball := newPair(t)
	ball.Position = mgl64.Vec3{p.Pitch.HalfLength - 0.5, p.Ball.Radius, 12}
	ball.Velocity = mgl64.Vec3{30, 0, 0}

	hit := ball.Update(tick, fixedRand(0.5))
	assert.True(t, hit.Has(HitEndline))
	assert.Less(t, ball.Velocity[0], 0.0)
	_, scored := p.Pitch.GoalScored(ball.Position)
	assert.False(t, scored)
}

func TestBallEntersGoalMouthAndStaysInNet(t *testing.T) {
	p, _, ball := newPair(t)
	ball.Position = mgl64.Vec3{p.Pitch.HalfLength - 3, p.Ball.Radius, 1}
	ball.Velocity = mgl64.Vec3{25, 0, 0}

	scored := false
	for i := 0; i < 120; i++ {
		ball.Update(tick, fixedRand(0.5))
		if side, ok := p.Pitch.GoalScored(ball.Position); ok {
			assert.Equal(t, pitch.East, side)
			scored = true
		}
		require.LessOrEqual(t, ball.Position[0], p.Pitch.HalfLength+p.Pitch.GoalDepth-p.Ball.Radius+1e-9)
	}
	assert.True(t, scored)
}

func TestFastBallWideOfPostDoesNotEnterNet(t *testing.T) {
	p, _, ball := newPair(t)
	ball.Position = mgl64.Vec3{p.Pitch.HalfLength - 0.45, p.Ball.Radius, 10}
	ball.Velocity = mgl64.Vec3{40, 0, 0}

	ball.Update(tick, fixedRand(0.5))
	assert.LessOrEqual(t, ball.Position[0], p.Pitch.HalfLength-p.Ball.Radius+1e-9)
	assert.InDelta(t, 10, ball.Position[2], 0.5)
}

func TestPostBounceAddsLift(t *testing.T) {
	p, _, ball := newPair(t)
	post := p.Pitch.Posts(pitch.East)[1]
	ball.Position = mgl64.Vec3{post[0] - 0.6, p.Ball.Radius, post[2]}
	ball.Velocity = mgl64.Vec3{20, 0, 0}

	hit := ball.Update(tick, fixedRand(0.5))
	assert.True(t, hit.Has(HitPost))
	assert.Less(t, ball.Velocity[0], 0.0)
	assert.Greater(t, ball.Velocity[1], 0.0)
}

func TestBallContainmentUnderRandomKicks(t *testing.T) {
	p, roster, ball := newPair(t)
	rng := NewRand(11)
	for i := 0; i < 60*60; i++ {
		if i%90 == 0 {
			dir := geom.FromHeading(Between(rng, -math.Pi, math.Pi))
			ball.Strike(roster[0], dir, Between(rng, 5, 38), Between(rng, 0, 10), mgl64.Vec3{})
		}
		ball.Update(tick, rng)
		require.True(t, p.Pitch.Contains(ball.Position, p.Ball.Radius), "tick %d at %v", i, ball.Position)
		if _, in := p.Pitch.InsideGoal(ball.Position); in {
			ball.Reset(mgl64.Vec3{})
		}
	}
}

func TestControlledBallFollowsDribbler(t *testing.T) {
	p, roster, ball := newPair(t)
	k := NewKinematics(p.Kinematics, p.Pitch)
	a := roster[0]
	a.Position = mgl64.Vec3{-20, 0, 0}
	ball.Position = mgl64.Vec3{-19, p.Ball.Radius, 0}
	ball.GiveControl(a)

	now := 0.0
	for i := 0; i < 180; i++ {
		dir := mgl64.Vec3{1, 0, 0}
		if i > 90 {
			dir = geom.RotateY(dir, 0.6)
		}
		k.Move(a, dir, a.Caps.DribbleSpeed, 1, now)
		k.Integrate(a, tick)
		ball.Update(tick, fixedRand(0.5))
		now += tick

		require.Less(t, geom.PlanarDist(a.Position, ball.Position), p.Control.MaxDistance)
		require.LessOrEqual(t, ball.Position[1], p.Ball.Radius+p.Control.MaxHeight+1e-9)
	}
	ahead := ball.Position.Sub(a.Position).Dot(a.MoveDir())
	assert.Greater(t, ahead, 0.0)
}

func TestControlledBallStillFallsUnderGravity(t *testing.T) {
	p, roster, ball := newPair(t)
	ball.Position = mgl64.Vec3{-1, p.Ball.Radius + 0.3, 0}
	ball.GiveControl(roster[0])
	for i := 0; i < 30; i++ {
		ball.Update(tick, fixedRand(0.5))
	}
	assert.InDelta(t, p.Ball.Radius, ball.Position[1], 1e-9)
}

func TestPassReleasesAndAimsAtTarget(t *testing.T) {
	p, roster, ball := newPair(t)
	a := roster[0]
	ball.Position = mgl64.Vec3{-1, p.Ball.Radius, 0}
	ball.GiveControl(a)

	target := mgl64.Vec3{-1, 0, 10}
	k := ball.PassTo(a, target)
	assert.Equal(t, KickPass, k.Kind)
	assert.False(t, a.IsControllingBall())
	assert.Equal(t, BallFree, ball.State())
	assert.Equal(t, a.ID, ball.LastContact)
	assert.InDelta(t, 1, geom.Planar(ball.Velocity).Normalize().Dot(mgl64.Vec3{0, 0, 1}), 1e-9)
	assert.Zero(t, ball.Velocity[1])

	ball.GiveControl(a)
	long := ball.PassTo(a, mgl64.Vec3{35, 0, 0})
	assert.Equal(t, KickLoftedPass, long.Kind)
	assert.Greater(t, ball.Velocity[1], 0.0)
	assert.LessOrEqual(t, long.Power, p.Kick.PassMaxPower)
}

func TestShotVariantsDifferInArc(t *testing.T) {
	p, roster, ball := newPair(t)
	a := roster[0]
	goal := mgl64.Vec3{p.Pitch.HalfLength, 1, 2}

	lift := func(kind KickKind) float64 {
		ball.Reset(mgl64.Vec3{30, 0, 0})
		ball.GiveControl(a)
		ball.ShootAt(a, goal, kind)
		return ball.Velocity[1]
	}
	chip := lift(KickChip)
	shot := lift(KickShot)
	assert.Greater(t, chip, shot)

	ball.Reset(mgl64.Vec3{30, 0, 0})
	curved := ball.ShootAt(a, goal, KickCurvedShot)
	assert.True(t, curved.Kind.IsShot())
	assert.NotZero(t, ball.Spin.Len())
	assert.Greater(t, ball.Velocity[2]/ball.Velocity[0], goal[2]/(goal[0]-30))

	lift(KickPowerShot)
	assert.Greater(t, ball.Speed(), p.Kick.ShotPower)
}

func TestPlacedShotReachesAimHeight(t *testing.T) {
	p, roster, ball := newPair(t)
	a := roster[0]
	ball.Reset(mgl64.Vec3{35, 0, 0})
	goal := mgl64.Vec3{p.Pitch.HalfLength, 2, 0}
	ball.ShootAt(a, goal, KickCurvedShot)

	for i := 0; i < 120 && ball.Position[0] < p.Pitch.HalfLength-0.5; i++ {
		ball.Update(tick, fixedRand(0.5))
	}
	assert.InDelta(t, 2+p.Ball.Radius, ball.Position[1], 0.6)
}

func TestBallRotationStaysUnit(t *testing.T) {
	_, _, ball := newPair(t)
	ball.Velocity = mgl64.Vec3{8, 0, 3}
	ball.Spin = mgl64.Vec3{0, 4, 0}
	for i := 0; i < 200; i++ {
		ball.Update(tick, fixedRand(0.5))
	}
	assert.InDelta(t, 1, ball.Rotation.Len(), 1e-9)
	assert.NotEqual(t, mgl64.QuatIdent(), ball.Rotation)
}
