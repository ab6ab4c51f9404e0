package ai

import (
	"github.com/luketas/soccer-ai/internal/geom"
	"github.com/luketas/soccer-ai/internal/physics"
	"github.com/luketas/soccer-ai/internal/tuning"
)

// decide runs one FSM transition for g. A tackle on a nearby opposing
// ball holder pre-empts the normal transition.
func (t *Team) decide(m *Match, g *Agent) []Action {
	a := g.Actor
	if !g.State.Valid() {
		t.log.Warn().Int("actor", int(a.ID)).Int("state", int(g.State)).Msg("unknown fsm state, falling back to idle")
		g.setState(Idle)
	}

	if a.IsControllingBall() {
		g.setState(t.chooseWithBall(m, g))
		return nil
	}

	if holder := m.Ball.Controller(); holder != nil && holder.Team != t.Side {
		radius := t.roles.Spec(a.Role).TackleRadius
		if geom.PlanarDist(a.Position, holder.Position) <= radius &&
			physics.Chance(m.Rand, 0.4+0.6*t.profile.Aggressiveness) {
			res := m.Tackler.Attempt(a, m.Ball, m.Rand)
			g.setState(MoveToBall)
			if res.Attempted {
				return []Action{{Kind: ActTackle, Actor: a.ID, Tackle: res}}
			}
			return nil
		}
	}

	next := t.chooseWithoutBall(m, g)
	// hesitation keeps the previous choice
	if next != g.State && g.State != Idle && !physics.Chance(m.Rand, t.profile.DecisionAccuracy) {
		return nil
	}
	g.setState(next)
	return nil
}

// chooseWithBall picks Shoot, Pass or Dribble by distance band.
func (t *Team) chooseWithBall(m *Match, g *Agent) State {
	a := g.Actor
	c := t.cfg
	goal := t.pitch.GoalCenter(t.Side.AttackSide())
	goalDist := geom.PlanarDist(a.Position, goal)
	_, oppDist := m.Roster.Nearest(t.Side.Other(), a.Position, physics.NoActor)
	pressured := oppDist < c.PressureRadius
	pass, havePass := t.BestPass(m, a)

	if a.Role == tuning.Defender && goalDist > c.DefenderPassRange && havePass {
		return Pass
	}
	switch {
	case goalDist < c.ShootRange:
		if physics.Chance(m.Rand, c.CloseShootBias) {
			return Shoot
		}
		if havePass && pass.Score >= c.GoodPassQuality {
			return Pass
		}
		return Shoot
	case goalDist < c.MidRange:
		if havePass && (pass.Score >= c.GoodPassQuality || pressured) {
			return Pass
		}
		if pressured {
			return Shoot
		}
		return Dribble
	default:
		if havePass && (pressured || pass.Score >= c.GoodPassQuality*0.5) {
			return Pass
		}
		if oppDist > c.OpenSpaceRadius && physics.Chance(m.Rand, c.LongShotProbability) {
			return Shoot
		}
		return Dribble
	}
}

// chooseWithoutBall applies the role-specific chase and shape rules.
func (t *Team) chooseWithoutBall(m *Match, g *Agent) State {
	a := g.Actor
	spec := t.roles.Spec(a.Role)
	ball := m.Ball
	holder := ball.Controller()
	ownPossession := holder != nil && holder.Team == t.Side
	if ownPossession {
		return Support
	}

	sign := float64(t.Side.AttackSide())
	half := t.pitch.HalfOf(ball.Position[0])
	dist := geom.PlanarDist(a.Position, ball.Position)
	chaseCap := spec.ChaseCap * (0.8 + 0.4*t.profile.Aggressiveness)
	canChase := dist < chaseCap && t.chaseRank(m, g) < 2

	switch a.Role {
	case tuning.Attacker:
		if canChase && half == t.Side.AttackSide() {
			return MoveToBall
		}
		return Support
	case tuning.Midfielder:
		if canChase {
			return MoveToBall
		}
		if t.Strategy.IsAttacking() {
			return Support
		}
		return Defend
	case tuning.Defender:
		if canChase && half == t.Side.OwnSide() {
			return MoveToBall
		}
		approaching := ball.Velocity[0]*sign < -3
		if approaching && physics.Chance(m.Rand, spec.InterceptProbability) {
			return Intercept
		}
		return Defend
	default:
		return Defend
	}
}
