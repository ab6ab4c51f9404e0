package contact

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luketas/soccer-ai/internal/geom"
	"github.com/luketas/soccer-ai/internal/physics"
	"github.com/luketas/soccer-ai/internal/tuning"
)

type fixedRand float64

func (f fixedRand) Float64() float64 { return float64(f) }

// scripted replays draws in order and then repeats the last one.
type scripted struct {
	draws []float64
	i     int
}

func (s *scripted) Float64() float64 {
	v := s.draws[s.i]
	if s.i < len(s.draws)-1 {
		s.i++
	}
	return v
}

func actor(p tuning.Params, id physics.ID, team physics.Team, role tuning.Role, pos mgl64.Vec3) *physics.Actor {
	caps := physics.CapabilitiesFor(role, p.Roles.Spec(role), p.Profiles.For(tuning.Medium))
	return physics.NewActor(id, team, role, int(id), caps, pos)
}

func setup(p tuning.Params, actors ...*physics.Actor) (physics.Roster, *physics.Ball, *Resolver) {
	roster := physics.Roster(actors)
	return roster, physics.NewBall(p, roster), NewResolver(p, zerolog.Nop())
}

func TestAcquisitionScenarioSampling(t *testing.T) {
	p := tuning.Default()
	rng := physics.NewRand(42)

	const trials = 2000
	acquired := 0
	for i := 0; i < trials; i++ {
		a := actor(p, 0, physics.Self, tuning.Midfielder, mgl64.Vec3{-0.3, 0, 0})
		a.Velocity = mgl64.Vec3{5, 0, 0}
		roster, ball, r := setup(p, a)

		prob := r.AcquireProbability(a, ball, false)
		require.GreaterOrEqual(t, prob, p.Contact.BaseProbability+a.Caps.BallControl*p.Contact.ControlScale-1e-9)

		for _, res := range r.Resolve(roster, ball, physics.NoActor, 0, rng) {
			if res.Outcome == Acquired {
				acquired++
			}
		}
	}
	rate := float64(acquired) / trials
	assert.GreaterOrEqual(t, rate, p.Contact.BaseProbability)
}

func TestHighSpeedCollisionAlwaysDeflects(t *testing.T) {
	p := tuning.Default()
	for i := 0; i < 50; i++ {
		a := actor(p, 0, physics.Self, tuning.Attacker, mgl64.Vec3{-1, 0, 0})
		b := actor(p, 1, physics.Opponent, tuning.Defender, mgl64.Vec3{1, 0, 0})
		a.Velocity = mgl64.Vec3{9, 0, 0}
		b.Velocity = mgl64.Vec3{-9, 0, 0}
		b.Facing = geom.Heading(mgl64.Vec3{-1, 0, 0})
		roster, ball, r := setup(p, a, b)

		// every roll would succeed if the gentleness gate let it through
		results := r.Resolve(roster, ball, physics.NoActor, 0, fixedRand(0))
		require.NotEmpty(t, results)
		for _, res := range results {
			assert.Equal(t, Deflected, res.Outcome)
			assert.Zero(t, res.Probability)
		}
		assert.Equal(t, physics.BallFree, ball.State())
		assert.Equal(t, 0, roster.Controllers())
	}
}

func TestDeflectionPushesBallAway(t *testing.T) {
	p := tuning.Default()
	a := actor(p, 0, physics.Self, tuning.Attacker, mgl64.Vec3{-1, 0, 0})
	a.Velocity = mgl64.Vec3{9, 0, 0}
	roster, ball, r := setup(p, a)
	ball.Velocity = mgl64.Vec3{-6, 0, 0}

	r.Resolve(roster, ball, physics.NoActor, 0, fixedRand(0))
	assert.Greater(t, ball.Velocity[0], 9.0)
	assert.Greater(t, ball.Velocity[1], 0.0, "deflections hop")
	assert.GreaterOrEqual(t, geom.PlanarDist(a.Position, ball.Position), p.Kinematics.ActorRadius+p.Ball.Radius-1e-9)
	assert.Equal(t, a.ID, ball.LastContact)
}

func TestOffCentreDeflectionSpins(t *testing.T) {
	p := tuning.Default()
	a := actor(p, 0, physics.Self, tuning.Attacker, mgl64.Vec3{-0.8, 0, -0.6})
	a.Velocity = mgl64.Vec3{12, 0, 0}
	roster, ball, r := setup(p, a)

	r.Resolve(roster, ball, physics.NoActor, 0, fixedRand(0))
	assert.NotZero(t, ball.Spin[1])
}

func TestGentlenessGates(t *testing.T) {
	p := tuning.Default()
	a := actor(p, 0, physics.Self, tuning.Midfielder, mgl64.Vec3{-0.5, 0, 0})
	_, ball, r := setup(p, a)

	a.Velocity = mgl64.Vec3{2, 0, 0}
	assert.True(t, r.Gentle(a, ball))

	a.Velocity = mgl64.Vec3{-3, 0, 0}
	assert.False(t, r.Gentle(a, ball), "moving directly away")

	a.Velocity = mgl64.Vec3{2, 0, 0}
	ball.Velocity = mgl64.Vec3{0, 0, p.Contact.BallSpeedCap + 1}
	assert.False(t, r.Gentle(a, ball), "ball too fast")
	assert.Zero(t, r.AcquireProbability(a, ball, true))

	ball.Velocity = mgl64.Vec3{}
	a.StartDive(mgl64.Vec3{0, 0, 3}, 1)
	assert.False(t, r.Gentle(a, ball), "diving")
}

func TestRestingBallFavoursActiveActor(t *testing.T) {
	p := tuning.Default()
	p.Contact.BaseProbability = 0.2
	a := actor(p, 0, physics.Self, tuning.Midfielder, mgl64.Vec3{-1, 0, 0})
	_, ball, r := setup(p, a)

	idle := r.AcquireProbability(a, ball, false)
	active := r.AcquireProbability(a, ball, true)
	assert.Less(t, idle, p.Contact.RestingProbability)
	assert.InDelta(t, p.Contact.RestingProbability, active, 1e-9)
}

func TestContestedDribbleIsPenalisedNotDeflected(t *testing.T) {
	p := tuning.Default()
	holder := actor(p, 0, physics.Opponent, tuning.Attacker, mgl64.Vec3{0.8, 0, 0})
	chaser := actor(p, 1, physics.Self, tuning.Defender, mgl64.Vec3{-0.8, 0, 0})
	chaser.Velocity = mgl64.Vec3{1, 0, 0}
	roster, ball, r := setup(p, holder, chaser)
	ball.GiveControl(holder)

	prob := r.AcquireProbability(chaser, ball, false)
	free := p.Contact.BaseProbability + chaser.Caps.BallControl*p.Contact.ControlScale
	assert.Less(t, prob, free*p.Contact.ControlledPenalty+p.Contact.CloseBonus*p.Contact.ControlledPenalty+1e-9)

	before := ball.Velocity
	results := r.Resolve(roster, ball, physics.NoActor, 0, fixedRand(0.99))
	require.Len(t, results, 1)
	assert.Equal(t, Ignored, results[0].Outcome)
	assert.Equal(t, before, ball.Velocity)
	assert.True(t, holder.IsControllingBall())

	// a lucky roll steals it and the previous holder loses the flag
	results = r.Resolve(roster, ball, physics.NoActor, 1, fixedRand(0))
	require.Len(t, results, 1)
	assert.Equal(t, Acquired, results[0].Outcome)
	assert.True(t, chaser.IsControllingBall())
	assert.False(t, holder.IsControllingBall())
	assert.Equal(t, 1, roster.Controllers())
}

func TestTeammateDoesNotContestDribble(t *testing.T) {
	p := tuning.Default()
	holder := actor(p, 0, physics.Self, tuning.Attacker, mgl64.Vec3{0.8, 0, 0})
	mate := actor(p, 1, physics.Self, tuning.Midfielder, mgl64.Vec3{-0.8, 0, 0})
	roster, ball, r := setup(p, holder, mate)
	ball.GiveControl(holder)

	assert.Empty(t, r.Resolve(roster, ball, physics.NoActor, 0, fixedRand(0)))
	assert.True(t, holder.IsControllingBall())
}

func TestOutOfRangeControlIsReleased(t *testing.T) {
	p := tuning.Default()
	a := actor(p, 0, physics.Self, tuning.Midfielder, mgl64.Vec3{-1, 0, 0})
	roster, ball, r := setup(p, a)
	ball.GiveControl(a)

	a.Position = mgl64.Vec3{-1 - p.Control.MaxDistance - 1, 0, 0}
	results := r.Resolve(roster, ball, physics.NoActor, 0, fixedRand(0.5))
	require.NotEmpty(t, results)
	assert.Equal(t, Released, results[0].Outcome)
	assert.False(t, a.IsControllingBall())
	assert.Equal(t, physics.BallFree, ball.State())
}

func TestContactCooldownAndKickerGrace(t *testing.T) {
	p := tuning.Default()
	a := actor(p, 0, physics.Self, tuning.Attacker, mgl64.Vec3{-1, 0, 0})
	a.Velocity = mgl64.Vec3{10, 0, 0}
	roster, ball, r := setup(p, a)

	first := r.Resolve(roster, ball, physics.NoActor, 0, fixedRand(0))
	require.Len(t, first, 1)

	// ball pushed to the rim of the control radius, same actor still touching
	ball.Velocity = mgl64.Vec3{}
	assert.Empty(t, r.Resolve(roster, ball, physics.NoActor, 0.05, fixedRand(0)))

	b := actor(p, 1, physics.Self, tuning.Midfielder, mgl64.Vec3{-1, 0, 0})
	roster2, ball2, r2 := setup(p, b)
	ball2.Strike(b, mgl64.Vec3{1, 0, 0}, 3, 0, mgl64.Vec3{})
	assert.Empty(t, r2.Resolve(roster2, ball2, physics.NoActor, 0, fixedRand(0)), "kicker grace")
}

func TestFrozenBallIsNotContested(t *testing.T) {
	p := tuning.Default()
	a := actor(p, 0, physics.Self, tuning.Attacker, mgl64.Vec3{-0.5, 0, 0})
	roster, ball, r := setup(p, a)
	ball.Frozen = true
	assert.Empty(t, r.Resolve(roster, ball, physics.NoActor, 0, fixedRand(0)))
}

func TestHighBallIsOutOfReach(t *testing.T) {
	p := tuning.Default()
	a := actor(p, 0, physics.Self, tuning.Attacker, mgl64.Vec3{-0.5, 0, 0})
	roster, ball, r := setup(p, a)
	ball.Position[1] = p.Contact.ReachHeight + 1
	assert.Empty(t, r.Resolve(roster, ball, physics.NoActor, 0, fixedRand(0)))
}

func TestResolveRefreshesHasBall(t *testing.T) {
	p := tuning.Default()
	near := actor(p, 0, physics.Self, tuning.Attacker, mgl64.Vec3{-0.5, 0, 0})
	far := actor(p, 1, physics.Opponent, tuning.Attacker, mgl64.Vec3{10, 0, 0})
	far.HasBall = true
	roster, ball, r := setup(p, near, far)
	ball.Frozen = false

	r.Resolve(roster, ball, physics.NoActor, 0, fixedRand(0.999))
	assert.True(t, near.HasBall)
	assert.False(t, far.HasBall)
}
