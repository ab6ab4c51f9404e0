package ai

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/luketas/soccer-ai/internal/geom"
	"github.com/luketas/soccer-ai/internal/physics"
	"github.com/luketas/soccer-ai/internal/pitch"
	"github.com/luketas/soccer-ai/internal/tuning"
)

// Keeper is the goalkeeper controller. It replaces the FSM for the
// goalkeeper role: predictive positioning, dive decisions, saves and
// distribution.
type Keeper struct {
	side  physics.Team
	cfg   tuning.Keeper
	pitch pitch.Pitch

	holdTimer float64
	// rolled is set once a dive decision has been drawn for the current
	// incoming shot.
	rolled bool
	saved  bool
}

// Shot is a predicted goal-line crossing.
type Shot struct {
	// T is the time until the ball reaches the goal line.
	T float64
	// Point is where the ball crosses the line, y included.
	Point    mgl64.Vec3
	OnTarget bool
}

// NewKeeper builds the controller for side's goalkeeper.
func NewKeeper(side physics.Team, p tuning.Params) *Keeper {
	return &Keeper{
		side:  side,
		cfg:   p.Keeper,
		pitch: p.Pitch,
	}
}

func (k *Keeper) reset() {
	k.holdTimer = 0
	k.rolled = false
	k.saved = false
}

// Predict projects a free ball onto the keeper's goal line. ok is false
// when the ball is not heading toward the line within the horizon.
func (k *Keeper) Predict(ball *physics.Ball) (Shot, bool) {
	if ball.Controller() != nil {
		return Shot{}, false
	}
	own := k.side.OwnSide()
	line := k.pitch.GoalLineX(own)
	vx := ball.Velocity[0]
	if vx*float64(own) <= geom.Epsilon {
		return Shot{}, false
	}
	t := (line - ball.Position[0]) / vx
	if t < 0 || t > k.cfg.PredictionHorizon {
		return Shot{}, false
	}
	land := ball.PredictLanding(t)
	y, z := land[1], land[2]
	onTarget := math.Abs(z) < k.pitch.GoalHalfWidth+0.5 && y < k.pitch.GoalHeight+0.5
	return Shot{T: t, Point: mgl64.Vec3{line, y, z}, OnTarget: onTarget}, true
}

// Update runs the goalkeeper for one tick.
func (k *Keeper) Update(m *Match, t *Team, g *Agent, dt float64) []Action {
	a := g.Actor
	if a.IsDiving() {
		return k.save(m, a)
	}
	k.saved = false

	if a.IsControllingBall() {
		return k.distribute(m, t, g, dt)
	}
	k.holdTimer = 0

	shot, incoming := k.Predict(m.Ball)
	if !incoming || !shot.OnTarget {
		k.rolled = false
	}
	if incoming && shot.OnTarget && m.Ball.Speed() > k.cfg.ShotSpeed && shot.T < k.cfg.DiveWindow {
		lateral := shot.Point[2] - a.Position[2]
		if math.Abs(lateral) > k.cfg.ReachWithoutDive {
			if !k.rolled {
				k.rolled = true
				if physics.Chance(m.Rand, a.Caps.Reflexes) {
					lift := 0.0
					if shot.Point[1] > k.cfg.HighBall {
						lift = k.cfg.DiveLift
					}
					a.StartDive(mgl64.Vec3{0, lift, geom.Sign(lateral) * k.cfg.DiveSpeed}, k.cfg.DiveDuration)
					g.setState(Defend)
					return []Action{{Kind: ActDive, Actor: a.ID}}
				}
			}
		}
		// reachable or the dive was missed: shuffle across
		k.moveTo(m, a, mgl64.Vec3{a.Position[0], 0, k.clampZ(shot.Point[2])}, true)
		return nil
	}

	if k.shouldComeOut(m, a) {
		g.setState(MoveToBall)
		target := m.Ball.Position
		m.Kin.Move(a, geom.PlanarDir(a.Position, target, a.FacingDir()), a.Caps.BaseSpeed*a.Caps.SprintMultiplier, 1, m.Now)
		return nil
	}

	g.setState(Defend)
	k.moveTo(m, a, k.guardSpot(m.Ball), false)
	return nil
}

// guardSpot sits on the goal line, stepping out toward the ball and
// tracking it laterally.
func (k *Keeper) guardSpot(ball *physics.Ball) mgl64.Vec3 {
	own := k.side.OwnSide()
	line := k.pitch.GoalLineX(own)
	goalDist := geom.PlanarDist(ball.Position, k.pitch.GoalCenter(own))
	excursion := math.Min(k.cfg.MaxExcursion, goalDist*0.15)
	x := line - float64(own)*excursion
	z := k.clampZ(ball.Position[2] * k.cfg.LateralTracking)
	return mgl64.Vec3{x, 0, z}
}

func (k *Keeper) clampZ(z float64) float64 {
	limit := k.pitch.GoalHalfWidth - 0.5
	return geom.Clamp(z, -limit, limit)
}

func (k *Keeper) moveTo(m *Match, a *physics.Actor, spot mgl64.Vec3, urgent bool) {
	dist := geom.PlanarDist(a.Position, spot)
	if dist < 0.3 {
		m.Kin.Halt(a)
		m.Kin.FaceToward(a, m.Ball.Position)
		return
	}
	speed := a.Caps.BaseSpeed
	if urgent || dist > 3 {
		speed *= a.Caps.SprintMultiplier
	}
	m.Kin.Move(a, geom.PlanarDir(a.Position, spot, a.FacingDir()), speed, 1, m.Now)
}

// shouldComeOut is true for a slow loose ball in the box that the keeper
// reaches before any opponent.
func (k *Keeper) shouldComeOut(m *Match, a *physics.Actor) bool {
	ball := m.Ball
	if ball.Controller() != nil || ball.PlanarSpeed() > k.cfg.ComeOutMaxSpeed {
		return false
	}
	if !k.pitch.InPenaltyArea(ball.Position, k.side.OwnSide()) {
		return false
	}
	d := geom.PlanarDist(a.Position, ball.Position)
	if d > k.cfg.ComeOutRange {
		return false
	}
	_, od := m.Roster.Nearest(k.side.Other(), ball.Position, physics.NoActor)
	return d < od
}

// save resolves contact between a diving keeper and the ball: a catch
// with probability reflexes*CatchFactor, otherwise a parry away from goal.
func (k *Keeper) save(m *Match, a *physics.Actor) []Action {
	ball := m.Ball
	if k.saved || ball.Controller() != nil {
		return nil
	}
	body := a.Position.Add(mgl64.Vec3{0, 0.9, 0})
	if body.Sub(ball.Position).Len() > k.cfg.SaveReach {
		return nil
	}
	k.saved = true
	if physics.Chance(m.Rand, a.Caps.Reflexes*k.cfg.CatchFactor) {
		ball.GiveControl(a)
		ball.Velocity = mgl64.Vec3{}
		return []Action{{Kind: ActSave, Actor: a.ID, Caught: true}}
	}
	out := -float64(k.side.OwnSide())
	v := ball.Velocity
	v[0] = out * math.Max(math.Abs(v[0])*0.4, 3)
	v[1] = math.Max(v[1], 2)
	v[2] += physics.Spread(m.Rand, 3)
	ball.Velocity = v
	ball.Touch(a)
	return []Action{{Kind: ActSave, Actor: a.ID}}
}

// distribute holds the ball briefly, then passes or clears.
func (k *Keeper) distribute(m *Match, t *Team, g *Agent, dt float64) []Action {
	a := g.Actor
	m.Kin.Halt(a)
	m.Kin.FaceToward(a, a.Position.Add(k.side.AttackDir()))
	k.holdTimer += dt
	if k.holdTimer < k.cfg.HoldTime {
		return nil
	}
	k.holdTimer = 0
	g.setState(Defend)

	var kick physics.Kick
	if opt, ok := t.BestPass(m, a); ok && opt.Score > 0 {
		kick = m.Ball.PassTo(a, t.aimPass(m, a, opt.Point))
	} else {
		dir := geom.RotateY(k.side.AttackDir(), physics.Spread(m.Rand, 0.4))
		kick = m.Ball.Clear(a, dir)
	}
	return []Action{{Kind: ActKick, Actor: a.ID, Kick: kick}}
}
