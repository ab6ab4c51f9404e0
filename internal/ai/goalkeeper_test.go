package ai

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luketas/soccer-ai/internal/physics"
	"github.com/luketas/soccer-ai/internal/tuning"
)

func keeperSetup(t *testing.T, rng physics.Rand, extra ...*physics.Actor) (*Match, *Team, *Agent) {
	t.Helper()
	p := tuning.Default()
	gk := actor(p, 0, physics.Self, tuning.Goalkeeper, mgl64.Vec3{-49, 0, 0})
	m := newMatch(p, rng, append([]*physics.Actor{gk}, extra...)...)
	team := newTeam(p, m, physics.Self)
	require.NotNil(t, team.keeper)
	return m, team, team.Agent(gk.ID)
}

func shoot(m *Match, pos, vel mgl64.Vec3) {
	m.Ball.ReleaseFromControl()
	m.Ball.Position = pos
	m.Ball.Velocity = vel
}

func TestKeeperPredictsGoalLineCrossing(t *testing.T) {
	p := tuning.Default()
	m, team, _ := keeperSetup(t, fixedRand(0.5))
	shoot(m, mgl64.Vec3{-30, p.Ball.Radius, 0}, mgl64.Vec3{-25, 0, 3})

	shot, ok := team.keeper.Predict(m.Ball)
	require.True(t, ok)
	assert.InDelta(t, 0.8, shot.T, 1e-9)
	assert.InDelta(t, 2.4, shot.Point[2], 1e-9)
	assert.InDelta(t, -p.Pitch.HalfLength, shot.Point[0], 1e-9)
	assert.True(t, shot.OnTarget)

	// moving away from goal
	shoot(m, mgl64.Vec3{-30, p.Ball.Radius, 0}, mgl64.Vec3{25, 0, 3})
	_, ok = team.keeper.Predict(m.Ball)
	assert.False(t, ok)

	// wide of the post
	shoot(m, mgl64.Vec3{-30, p.Ball.Radius, 0}, mgl64.Vec3{-25, 0, 20})
	shot, ok = team.keeper.Predict(m.Ball)
	require.True(t, ok)
	assert.False(t, shot.OnTarget)
}

func TestKeeperDivesAtFastShot(t *testing.T) {
	p := tuning.Default()
	m, team, g := keeperSetup(t, fixedRand(0))
	shoot(m, mgl64.Vec3{-40, p.Ball.Radius, 0}, mgl64.Vec3{-25, 0, 10})

	actions := team.keeper.Update(m, team, g, 1.0/60)
	require.Len(t, actions, 1)
	assert.Equal(t, ActDive, actions[0].Kind)
	assert.True(t, g.Actor.IsDiving())
	assert.InDelta(t, p.Keeper.DiveSpeed, g.Actor.Velocity[2], 1e-9)
	assert.Zero(t, g.Actor.Velocity[1], "low ball needs no lift")
}

func TestKeeperDivesHighForRisingShot(t *testing.T) {
	p := tuning.Default()
	m, team, g := keeperSetup(t, fixedRand(0))
	shoot(m, mgl64.Vec3{-40, 1.5, 0}, mgl64.Vec3{-25, 6, -10})

	actions := team.keeper.Update(m, team, g, 1.0/60)
	require.Len(t, actions, 1)
	assert.InDelta(t, -p.Keeper.DiveSpeed, g.Actor.Velocity[2], 1e-9)
	assert.InDelta(t, p.Keeper.DiveLift, g.Actor.Velocity[1], 1e-9)
}

func TestKeeperDoesNotDiveAtSlowBall(t *testing.T) {
	p := tuning.Default()
	m, team, g := keeperSetup(t, fixedRand(0))
	shoot(m, mgl64.Vec3{-45, p.Ball.Radius, 0}, mgl64.Vec3{-5, 0, 2})

	assert.Empty(t, team.keeper.Update(m, team, g, 1.0/60))
	assert.False(t, g.Actor.IsDiving())
}

func TestKeeperRollsOncePerShot(t *testing.T) {
	p := tuning.Default()
	m, team, g := keeperSetup(t, fixedRand(0.99))
	shoot(m, mgl64.Vec3{-40, p.Ball.Radius, 0}, mgl64.Vec3{-25, 0, 10})

	assert.Empty(t, team.keeper.Update(m, team, g, 1.0/60))
	require.False(t, g.Actor.IsDiving())

	m.Rand = fixedRand(0)
	assert.Empty(t, team.keeper.Update(m, team, g, 1.0/60))
	assert.False(t, g.Actor.IsDiving(), "a failed reaction is not retried for the same shot")
	assert.Greater(t, g.Actor.Velocity[2], 0.0, "still shuffles toward the ball")
}

func TestDivingKeeperCatches(t *testing.T) {
	p := tuning.Default()
	m, team, g := keeperSetup(t, fixedRand(0))
	g.Actor.StartDive(mgl64.Vec3{0, 0, 9}, p.Keeper.DiveDuration)
	shoot(m, g.Actor.Position.Add(mgl64.Vec3{0.5, 0.6, 0.5}), mgl64.Vec3{-25, 0, 0})

	actions := team.keeper.Update(m, team, g, 1.0/60)
	require.Len(t, actions, 1)
	assert.Equal(t, ActSave, actions[0].Kind)
	assert.True(t, actions[0].Caught)
	assert.True(t, g.Actor.IsControllingBall())
	assert.Zero(t, m.Ball.Velocity.Len())
}

func TestDivingKeeperParriesAwayFromGoal(t *testing.T) {
	p := tuning.Default()
	m, team, g := keeperSetup(t, fixedRand(0.99))
	g.Actor.StartDive(mgl64.Vec3{0, 0, 9}, p.Keeper.DiveDuration)
	shoot(m, g.Actor.Position.Add(mgl64.Vec3{0.5, 0.6, 0.5}), mgl64.Vec3{-25, 0, 0})

	actions := team.keeper.Update(m, team, g, 1.0/60)
	require.Len(t, actions, 1)
	assert.False(t, actions[0].Caught)
	assert.Greater(t, m.Ball.Velocity[0], 0.0)
	assert.Equal(t, g.Actor.ID, m.Ball.LastContact)

	assert.Empty(t, team.keeper.Update(m, team, g, 1.0/60), "one save per dive")
}

func TestKeeperDistributesAfterHolding(t *testing.T) {
	p := tuning.Default()
	m, team, g := keeperSetup(t, fixedRand(0.5))
	m.Ball.Position = g.Actor.Position.Add(mgl64.Vec3{0.9, p.Ball.Radius, 0})
	m.Ball.GiveControl(g.Actor)

	assert.Empty(t, team.keeper.Update(m, team, g, p.Keeper.HoldTime*0.5))
	actions := team.keeper.Update(m, team, g, p.Keeper.HoldTime*0.5)
	require.Len(t, actions, 1)
	assert.Equal(t, physics.KickClearance, actions[0].Kick.Kind)
	assert.False(t, g.Actor.IsControllingBall())
	assert.Greater(t, m.Ball.Velocity[0], 0.0)
}

func TestKeeperPassesToOpenDefender(t *testing.T) {
	p := tuning.Default()
	def := actor(p, 1, physics.Self, tuning.Defender, mgl64.Vec3{-30, 0, 10})
	m, team, g := keeperSetup(t, fixedRand(0.5), def)
	m.Ball.Position = g.Actor.Position.Add(mgl64.Vec3{0.9, p.Ball.Radius, 0})
	m.Ball.GiveControl(g.Actor)

	actions := team.keeper.Update(m, team, g, p.Keeper.HoldTime)
	require.Len(t, actions, 1)
	assert.Equal(t, physics.KickPass, actions[0].Kick.Kind)
}

func TestKeeperGuardsLineAndTracksBall(t *testing.T) {
	p := tuning.Default()
	m, team, _ := keeperSetup(t, fixedRand(0.5))
	shoot(m, mgl64.Vec3{-30, p.Ball.Radius, 20}, mgl64.Vec3{})

	spot := team.keeper.guardSpot(m.Ball)
	assert.GreaterOrEqual(t, spot[0], -p.Pitch.HalfLength)
	assert.LessOrEqual(t, spot[0], -p.Pitch.HalfLength+p.Keeper.MaxExcursion)
	assert.Greater(t, spot[2], 0.0)
	assert.Less(t, spot[2], p.Pitch.GoalHalfWidth)
}

func TestKeeperComesOutForLooseBall(t *testing.T) {
	p := tuning.Default()
	far := actor(p, 1, physics.Opponent, tuning.Attacker, mgl64.Vec3{-20, 0, 0})
	m, team, g := keeperSetup(t, fixedRand(0.5), far)
	shoot(m, mgl64.Vec3{-42, p.Ball.Radius, 2}, mgl64.Vec3{-1, 0, 0})

	team.keeper.Update(m, team, g, 1.0/60)
	assert.Equal(t, MoveToBall, g.State)
	assert.Greater(t, g.Actor.Velocity[0], 0.0)

	// an opponent closer to the ball keeps the keeper home
	far.Position = mgl64.Vec3{-41, 0, 2}
	g.Actor.Velocity = mgl64.Vec3{}
	team.keeper.Update(m, team, g, 1.0/60)
	assert.Equal(t, Defend, g.State)
}
