package ai

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/luketas/soccer-ai/internal/geom"
	"github.com/luketas/soccer-ai/internal/physics"
)

// execute runs the movement or kick for g's state. It runs every tick,
// independent of the decision cadence.
func (t *Team) execute(m *Match, g *Agent, dt float64) []Action {
	a := g.Actor
	switch g.State {
	case Idle:
		m.Kin.Halt(a)
		m.Kin.FaceToward(a, m.Ball.Position)
	case MoveToBall:
		t.chase(m, g, t.cfg.PredictionFactor)
	case Intercept:
		t.chase(m, g, t.cfg.InterceptPrediction)
	case Dribble:
		if !a.IsControllingBall() {
			g.setState(MoveToBall)
			g.decisionTimer = 0
			t.chase(m, g, t.cfg.PredictionFactor)
			return nil
		}
		t.dribble(m, g, dt)
	case Pass:
		return t.executePass(m, g)
	case Shoot:
		return t.executeShot(m, g)
	case Defend, Support:
		t.position(m, g)
	default:
		t.log.Warn().Int("actor", int(a.ID)).Int("state", int(g.State)).Msg("unknown fsm state, falling back to idle")
		g.setState(Idle)
		m.Kin.Halt(a)
	}
	return nil
}

// chase runs toward the ball's projected position.
func (t *Team) chase(m *Match, g *Agent, lead float64) {
	a := g.Actor
	target := m.Ball.Position.Add(geom.Planar(m.Ball.Velocity).Mul(lead))
	dist := geom.PlanarDist(a.Position, target)
	if dist < t.cfg.ArriveRadius*0.25 {
		target = m.Ball.Position
	}
	speed := a.Caps.BaseSpeed
	if dist > t.cfg.SprintDistance {
		speed *= a.Caps.SprintMultiplier
	}
	dir := geom.PlanarDir(a.Position, target, a.FacingDir())
	m.Kin.Move(a, dir, speed, 1, m.Now)
}

// dribble advances toward a persistent, periodically refreshed target in
// front of goal with short-range opponent avoidance.
func (t *Team) dribble(m *Match, g *Agent, dt float64) {
	a := g.Actor
	c := t.cfg
	sign := float64(t.Side.AttackSide())

	g.retarget -= dt
	if !g.hasDribble || g.retarget <= 0 {
		x := a.Position[0] + sign*c.DribbleLookahead
		limit := t.pitch.HalfLength - 2
		x = geom.Clamp(x, -limit, limit)
		z := a.Position[2]*0.5 + physics.Spread(m.Rand, c.DribbleLateral)
		z = geom.Clamp(z, -(t.pitch.HalfWidth - 3), t.pitch.HalfWidth-3)
		g.dribbleTarget = mgl64.Vec3{x, 0, z}
		g.hasDribble = true
		g.retarget = physics.Between(m.Rand, c.DribbleRetargetMin, c.DribbleRetargetMax)
	}

	heading := geom.PlanarDir(a.Position, g.dribbleTarget, t.Side.AttackDir())
	avoid := mgl64.Vec3{}
	pressured := false
	for _, o := range m.Roster {
		if o.Team == t.Side {
			continue
		}
		d := geom.PlanarDist(a.Position, o.Position)
		if d >= c.AvoidRadius || d < geom.Epsilon {
			continue
		}
		away := geom.PlanarDir(o.Position, a.Position, mgl64.Vec3{})
		// only opponents ahead of the dribbler matter
		if heading.Dot(away.Mul(-1)) < -0.2 {
			continue
		}
		avoid = avoid.Add(away.Mul((1 - d/c.AvoidRadius) * c.AvoidWeight))
		if d < c.PressureRadius {
			pressured = true
		}
	}
	dir := geom.SafeNormalize(heading.Add(avoid), heading)
	// never dribble back toward own goal when avoiding
	if dir.Dot(t.Side.AttackDir()) < -0.3 {
		dir = geom.SafeNormalize(geom.Planar(mgl64.Vec3{0, 0, dir[2]}).Add(t.Side.AttackDir().Mul(0.2)), heading)
	}

	speed := a.Caps.DribbleSpeed
	if !pressured && geom.PlanarDist(a.Position, g.dribbleTarget) > c.SprintDistance {
		speed = a.Caps.DribbleSprintSpeed
	}
	m.Kin.Move(a, dir, speed, 1, m.Now)
}

func (t *Team) executePass(m *Match, g *Agent) []Action {
	a := g.Actor
	if !a.IsControllingBall() {
		g.setState(MoveToBall)
		return nil
	}
	opt, ok := t.BestPass(m, a)
	if !ok {
		g.setState(Dribble)
		return nil
	}
	target := t.aimPass(m, a, opt.Point)
	kick := m.Ball.PassTo(a, target)
	g.setState(Support)
	g.decisionTimer = t.profile.ReactionTime
	return []Action{{Kind: ActKick, Actor: a.ID, Kick: kick}}
}

func (t *Team) executeShot(m *Match, g *Agent) []Action {
	a := g.Actor
	if !a.IsControllingBall() {
		g.setState(MoveToBall)
		return nil
	}
	target, kind := t.ShotTarget(m, a)
	kick := m.Ball.ShootAt(a, target, kind)
	g.setState(Support)
	g.decisionTimer = t.profile.ReactionTime
	return []Action{{Kind: ActKick, Actor: a.ID, Kick: kick}}
}
