package contact

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/luketas/soccer-ai/internal/geom"
	"github.com/luketas/soccer-ai/internal/physics"
	"github.com/luketas/soccer-ai/internal/tuning"
)

// TackleResult describes one tackle attempt.
type TackleResult struct {
	Attempted   bool
	Success     bool
	Granted     bool
	FreeBall    bool
	Target      physics.ID
	Probability float64
}

// Tackler resolves tackle attempts. It keeps no per-attempt state; the
// cooldown lives on the attacking actor.
type Tackler struct {
	cfg        tuning.Tackle
	roles      tuning.RoleTable
	maxControl float64
	radius     float64
	ballRadius float64
}

// NewTackler builds a tackle resolver.
func NewTackler(p tuning.Params) *Tackler {
	return &Tackler{
		cfg:        p.Tackle,
		roles:      p.Roles,
		maxControl: p.Control.MaxDistance,
		radius:     p.ControlRadius(),
		ballRadius: p.Ball.Radius,
	}
}

// SuccessProbability is the tackle success odds: base rate plus the
// attacker's role bonus, minus the defender's role resistance, a linear
// distance falloff and the skill difference, clamped.
func SuccessProbability(cfg tuning.Tackle, roles tuning.RoleTable, att, def tuning.Role, attSkill, defSkill, dist float64) float64 {
	p := cfg.BaseRate + roles.Spec(att).TackleBonus - roles.Spec(def).TackleResistance
	if cfg.MaxRange > 0 {
		p -= cfg.DistanceFalloff * geom.Clamp(dist/cfg.MaxRange, 0, 1)
	}
	p += cfg.SkillWeight * (attSkill - defSkill)
	return geom.Clamp(p, cfg.MinProbability, cfg.MaxProbability)
}

// Probability is SuccessProbability for two actors at their current range.
func (t *Tackler) Probability(attacker, holder *physics.Actor) float64 {
	dist := geom.PlanarDist(attacker.Position, holder.Position)
	return SuccessProbability(t.cfg, t.roles, attacker.Role, holder.Role, attacker.Caps.TackleSkill, holder.Caps.TackleSkill, dist)
}

// InRange reports whether attacker can tackle the ball holder.
func (t *Tackler) InRange(attacker, holder *physics.Actor) bool {
	return geom.PlanarDist(attacker.Position, holder.Position) <= t.cfg.MaxRange
}

// Attempt runs one tackle by attacker. With an opposing ball holder in
// range it contests control; with a free ball in range it runs the
// lower-stakes free-ball check.
func (t *Tackler) Attempt(attacker *physics.Actor, ball *physics.Ball, rng physics.Rand) TackleResult {
	res := TackleResult{Target: physics.NoActor}
	if attacker.TackleCooldown > 0 || attacker.IsDiving() || attacker.IsControllingBall() || ball.Frozen {
		return res
	}
	holder := ball.Controller()
	if holder == nil {
		return t.freeBall(attacker, ball, rng)
	}
	if holder.Team == attacker.Team || !t.InRange(attacker, holder) {
		return res
	}

	res.Attempted = true
	res.Target = holder.ID
	attacker.TackleCooldown = t.cfg.Cooldown
	dist := geom.PlanarDist(attacker.Position, holder.Position)
	res.Probability = t.Probability(attacker, holder)

	if !physics.Chance(rng, res.Probability) {
		t.shrugOff(attacker, holder)
		return res
	}
	res.Success = true

	ball.ReleaseFromControl()
	holder.HasBall = false
	spot := geom.Lerp(holder.Position, attacker.Position, t.cfg.BallLerp)
	ball.Position = mgl64.Vec3{spot[0], t.ballRadius, spot[2]}
	ball.Velocity = mgl64.Vec3{}
	ball.Spin = mgl64.Vec3{}

	grant := t.cfg.GrantFarProbability
	if dist <= t.cfg.GrantRange {
		grant = t.cfg.GrantNearProbability
	}
	if physics.Chance(rng, grant) {
		ball.GiveControl(attacker)
		res.Granted = true
		return res
	}

	dir := geom.PlanarDir(attacker.Position, holder.Position, attacker.FacingDir())
	side := geom.RotateY(dir, math.Pi/2)
	v := dir.Mul(t.cfg.DeflectImpulse).Add(side.Mul(physics.Spread(rng, t.cfg.LateralNoise)))
	ball.Velocity = v
	ball.Touch(attacker)
	return res
}

// shrugOff slows the tackler and pushes the holder away from the tackle.
func (t *Tackler) shrugOff(attacker, holder *physics.Actor) {
	attacker.Velocity = geom.WithPlanar(attacker.Velocity, geom.Planar(attacker.Velocity).Mul(t.cfg.FailSlowdown))
	away := geom.PlanarDir(attacker.Position, holder.Position, holder.MoveDir())
	holder.Velocity = holder.Velocity.Add(away.Mul(t.cfg.ShrugImpulse))
}

// freeBall grants control or pokes the ball forward when nobody holds it.
func (t *Tackler) freeBall(attacker *physics.Actor, ball *physics.Ball, rng physics.Rand) TackleResult {
	res := TackleResult{Target: physics.NoActor, FreeBall: true}
	dist := geom.PlanarDist(attacker.Position, ball.Position)
	if dist > t.cfg.MaxRange {
		return TackleResult{Target: physics.NoActor}
	}
	res.Attempted = true
	attacker.TackleCooldown = t.cfg.Cooldown
	res.Probability = geom.Clamp(t.cfg.FreeBallBase+attacker.Caps.BallControl*t.cfg.FreeBallControlScale, 0, 1)
	if !physics.Chance(rng, res.Probability) {
		return res
	}
	res.Success = true
	if dist <= t.radius*1.5 && dist < t.maxControl {
		ball.GiveControl(attacker)
		res.Granted = true
		return res
	}
	poke := geom.PlanarDir(attacker.Position, ball.Position, attacker.FacingDir()).
		Mul(0.5).Add(attacker.FacingDir().Mul(0.5))
	poke = geom.SafeNormalize(poke, attacker.FacingDir())
	ball.Velocity = geom.WithPlanar(ball.Velocity, geom.Planar(ball.Velocity).Mul(0.3).Add(poke.Mul(t.cfg.FreeBallImpulse)))
	ball.Touch(attacker)
	return res
}
