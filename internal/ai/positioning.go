package ai

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/luketas/soccer-ai/internal/geom"
	"github.com/luketas/soccer-ai/internal/physics"
	"github.com/luketas/soccer-ai/internal/tuning"
)

// formation rows are advances along the attack axis as a fraction of the
// half length, indexed [defending, attacking].
var formation = map[tuning.Role][2]float64{
	tuning.Goalkeeper: {-0.95, -0.9},
	tuning.Defender:   {-0.7, -0.35},
	tuning.Midfielder: {-0.35, 0.1},
	tuning.Attacker:   {0.0, 0.45},
}

// FormationSpot is g's shape position for the current strategy mode,
// shifted toward the ball. Defend spots stay goal-side of the ball.
func (t *Team) FormationSpot(m *Match, g *Agent) mgl64.Vec3 {
	p := t.pitch
	sign := float64(t.Side.AttackSide())
	row := formation[g.Actor.Role]
	advance := row[0]
	if t.Strategy.IsAttacking() {
		advance = row[1]
	}

	ball := m.Ball.Position
	// own-frame coordinates: +x is toward the goal being attacked
	x := advance*p.HalfLength + ball[0]*sign*0.3
	z := 0.0
	if g.RoleCount > 1 {
		frac := float64(g.Index)/float64(g.RoleCount-1) - 0.5
		z = frac * 2 * p.HalfWidth * 0.45
	}
	z += ball[2] * 0.3

	if g.State == Defend {
		if limit := ball[0]*sign - 2; x > limit {
			x = limit
		}
	}
	x = geom.Clamp(x, -(p.HalfLength - 2), p.HalfLength-2)
	z = geom.Clamp(z, -(p.HalfWidth - 2), p.HalfWidth-2)
	return mgl64.Vec3{x * sign, 0, z}
}

// position moves g to its formation spot plus any active lapse offset and
// faces the ball on arrival.
func (t *Team) position(m *Match, g *Agent) {
	a := g.Actor
	spot := t.FormationSpot(m, g).Add(g.lapse)
	spot, _ = t.pitch.ClampActor(spot, 0.5)

	dist := geom.PlanarDist(a.Position, spot)
	if dist <= t.cfg.ArriveRadius {
		m.Kin.Halt(a)
		m.Kin.FaceToward(a, m.Ball.Position)
		return
	}
	speed := a.Caps.BaseSpeed * math.Min(1, dist/(t.cfg.ArriveRadius*3))
	if dist > t.cfg.SprintDistance*2 {
		speed = a.Caps.BaseSpeed * a.Caps.SprintMultiplier
	}
	m.Kin.Move(a, geom.PlanarDir(a.Position, spot, a.FacingDir()), speed, 1, m.Now)
}

// updateLapse occasionally pulls g out of shape for a while. Better
// positioning profiles lapse less often.
func (t *Team) updateLapse(m *Match, g *Agent, dt float64) {
	c := t.cfg
	if g.lapseTimer > 0 {
		g.lapseTimer -= dt
		if g.lapseTimer <= 0 {
			g.lapseTimer = 0
			g.lapse = mgl64.Vec3{}
		}
		return
	}
	rate := c.LapseRate * (1 - t.profile.PositioningQuality)
	if !physics.Chance(m.Rand, rate*dt) {
		return
	}
	dir := geom.FromHeading(physics.Spread(m.Rand, math.Pi))
	g.lapse = dir.Mul(physics.Between(m.Rand, 0.3, 1) * c.LapseMaxOffset)
	g.lapseTimer = c.LapseDuration
}
