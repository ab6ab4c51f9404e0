package ai

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/luketas/soccer-ai/internal/geom"
	"github.com/luketas/soccer-ai/internal/physics"
	"github.com/luketas/soccer-ai/internal/tuning"
)

// PassOption is a scored pass candidate.
type PassOption struct {
	Target *physics.Actor
	// Point is the led receiving position.
	Point mgl64.Vec3
	Score float64
}

// rolePreference biases passes toward forward roles.
var rolePreference = map[tuning.Role]float64{
	tuning.Goalkeeper: -0.5,
	tuning.Defender:   0,
	tuning.Midfielder: 0.1,
	tuning.Attacker:   0.2,
}

// BestPass scores every teammate in passing range and returns the highest
// one with a clear lane. ok is false when no option clears MinPassScore.
func (t *Team) BestPass(m *Match, from *physics.Actor) (PassOption, bool) {
	var best PassOption
	found := false
	for _, mate := range m.Roster.Team(t.Side) {
		if mate == from {
			continue
		}
		opt, ok := t.scorePass(m, from, mate)
		if !ok {
			continue
		}
		if !found || opt.Score > best.Score {
			best, found = opt, true
		}
	}
	return best, found
}

func (t *Team) scorePass(m *Match, from, mate *physics.Actor) (PassOption, bool) {
	c := t.cfg
	point := mate.Position.Add(geom.Planar(mate.Velocity).Mul(c.LeadTime))
	point, _ = t.pitch.ClampActor(point, 1)
	point[1] = 0
	dist := geom.PlanarDist(from.Position, point)
	if dist < c.PassMinDist || dist > c.PassMaxDist {
		return PassOption{}, false
	}
	if !t.laneClear(m, from.Position, point) {
		return PassOption{}, false
	}

	sign := float64(t.Side.AttackSide())
	progress := (point[0] - from.Position[0]) * sign / c.PassMaxDist
	score := progress + rolePreference[mate.Role]

	if _, od := m.Roster.Nearest(t.Side.Other(), point, physics.NoActor); od < c.MarkingRadius {
		score -= (1 - od/c.MarkingRadius) * 0.6
	}
	// long balls are less reliable
	score -= 0.2 * dist / c.PassMaxDist

	if score < c.MinPassScore {
		return PassOption{}, false
	}
	return PassOption{Target: mate, Point: point, Score: score}, true
}

// laneClear reports whether no opponent stands within LaneClearance of the
// segment between a and b.
func (t *Team) laneClear(m *Match, a, b mgl64.Vec3) bool {
	for _, o := range m.Roster {
		if o.Team == t.Side {
			continue
		}
		d, along := geom.PointSegmentDist(o.Position, a, b)
		// opponents at the passer's feet are pressure, not interception
		if along <= 0 {
			continue
		}
		if d < t.cfg.LaneClearance {
			return false
		}
	}
	return true
}

// aimPass perturbs a pass point by the profile's pass accuracy.
func (t *Team) aimPass(m *Match, from *physics.Actor, point mgl64.Vec3) mgl64.Vec3 {
	dist := geom.PlanarDist(from.Position, point)
	miss := (1 - t.profile.PassAccuracy) * dist * 0.15
	return point.Add(mgl64.Vec3{physics.Spread(m.Rand, miss), 0, physics.Spread(m.Rand, miss)})
}

// ShotTarget picks an aim point in the opposing goal mouth and a kick kind.
// It aims for the corner away from the keeper and degrades with the
// profile's shooting accuracy.
func (t *Team) ShotTarget(m *Match, from *physics.Actor) (mgl64.Vec3, physics.KickKind) {
	p := t.pitch
	side := t.Side.AttackSide()
	line := p.GoalLineX(side)
	inset := p.GoalHalfWidth - 0.8

	keeper := t.opposingKeeper(m)
	z := inset
	switch {
	case keeper != nil && keeper.Position[2] > 0:
		z = -inset
	case keeper == nil && physics.Chance(m.Rand, 0.5):
		z = -inset
	}
	z += physics.Spread(m.Rand, (1-t.profile.ShootAccuracy)*p.GoalHalfWidth)
	y := physics.Between(m.Rand, 0.3, 1.6)
	target := mgl64.Vec3{line, y, z}

	dist := geom.PlanarDist(from.Position, target)
	kind := physics.KickShot
	switch {
	case keeper != nil && math.Abs(keeper.Position[0]-line) > 4 && dist > 12:
		kind = physics.KickChip
		target[1] = p.GoalHeight * 0.6
	case dist > t.cfg.ShootRange:
		kind = physics.KickPowerShot
	case math.Abs(from.Position[2]) > p.GoalHalfWidth*1.5:
		kind = physics.KickCurvedShot
	}
	return target, kind
}

func (t *Team) opposingKeeper(m *Match) *physics.Actor {
	for _, a := range m.Roster.Team(t.Side.Other()) {
		if a.Role == tuning.Goalkeeper {
			return a
		}
	}
	return nil
}
