// Package contact arbitrates actor-ball interactions: automatic possession
// acquisition, deflections, out-of-range release and tackles.
package contact

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/luketas/soccer-ai/internal/geom"
	"github.com/luketas/soccer-ai/internal/physics"
	"github.com/luketas/soccer-ai/internal/tuning"
)

// Outcome is what a single actor-ball contact produced.
type Outcome int

const (
	Ignored Outcome = iota
	Acquired
	Deflected
	Released
)

func (o Outcome) String() string {
	switch o {
	case Acquired:
		return "acquired"
	case Deflected:
		return "deflected"
	case Released:
		return "released"
	default:
		return "ignored"
	}
}

// Result records one resolved contact.
type Result struct {
	Actor   physics.ID
	Outcome Outcome
	// Probability is the acquisition odds that were rolled, zero when the
	// gentleness gate failed.
	Probability float64
}

// Resolver runs the per-tick contact scan.
type Resolver struct {
	cfg         tuning.Contact
	maxControl  float64
	radius      float64
	actorRadius float64
	ballRadius  float64
	lastContact map[physics.ID]float64
	log         zerolog.Logger
}

// NewResolver builds a resolver from the tuning.
func NewResolver(p tuning.Params, log zerolog.Logger) *Resolver {
	return &Resolver{
		cfg:         p.Contact,
		maxControl:  p.Control.MaxDistance,
		radius:      p.ControlRadius(),
		actorRadius: p.Kinematics.ActorRadius,
		ballRadius:  p.Ball.Radius,
		lastContact: make(map[physics.ID]float64),
		log:         log.With().Str("component", "contact").Logger(),
	}
}

// Radius is the control radius.
func (r *Resolver) Radius() float64 { return r.radius }

// Reset clears contact cooldowns after a restart.
func (r *Resolver) Reset() {
	clear(r.lastContact)
}

// Resolve scans every actor against the ball. activeID is the actor under
// human control, or physics.NoActor.
func (r *Resolver) Resolve(roster physics.Roster, ball *physics.Ball, activeID physics.ID, now float64, rng physics.Rand) []Result {
	if ball.Frozen {
		return nil
	}
	var results []Result

	if c := ball.Controller(); c != nil && geom.PlanarDist(c.Position, ball.Position) > r.maxControl {
		ball.ReleaseFromControl()
		results = append(results, Result{Actor: c.ID, Outcome: Released})
		r.log.Debug().Int("actor", int(c.ID)).Msg("control lost: out of range")
	}

	for _, a := range roster {
		a.HasBall = a.IsControllingBall() || geom.PlanarDist(a.Position, ball.Position) < r.radius
	}

	for _, a := range roster {
		if a.IsControllingBall() {
			continue
		}
		if geom.PlanarDist(a.Position, ball.Position) >= r.radius || ball.Position[1] > r.cfg.ReachHeight {
			continue
		}
		if t, ok := r.lastContact[a.ID]; ok && now-t < r.cfg.Cooldown {
			continue
		}
		if ball.State() == physics.BallFree && ball.LastContact == a.ID && ball.SinceContact < r.cfg.KickerGrace {
			continue
		}
		r.lastContact[a.ID] = now

		if res, ok := r.contact(a, ball, a.ID == activeID, rng); ok {
			results = append(results, res)
		}
	}
	return results
}

func (r *Resolver) contact(a *physics.Actor, ball *physics.Ball, active bool, rng physics.Rand) (Result, bool) {
	owner := ball.Controller()
	if owner != nil && owner.Team == a.Team {
		return Result{}, false
	}

	p := r.AcquireProbability(a, ball, active)
	if p > 0 && physics.Chance(rng, p) {
		ball.GiveControl(a)
		return Result{Actor: a.ID, Outcome: Acquired, Probability: p}, true
	}
	if owner != nil {
		// a contested dribble is never deflected, only penalised
		return Result{Actor: a.ID, Outcome: Ignored, Probability: p}, true
	}
	r.deflect(a, ball)
	return Result{Actor: a.ID, Outcome: Deflected, Probability: p}, true
}

// Gentle reports whether every gate on automatic acquisition passes:
// relative speed, approach alignment and ball speed.
func (r *Resolver) Gentle(a *physics.Actor, ball *physics.Ball) bool {
	if a.IsDiving() {
		return false
	}
	rel := geom.PlanarLen(ball.Velocity.Sub(a.Velocity))
	if rel >= r.cfg.GentleSpeed {
		return false
	}
	toBall := geom.PlanarDir(a.Position, ball.Position, a.FacingDir())
	if a.MoveDir().Dot(toBall) <= r.cfg.AlignmentMin {
		return false
	}
	return ball.Speed() < r.cfg.BallSpeedCap
}

// AcquireProbability is the automatic acquisition chance for a contact,
// zero when the gentleness gate fails.
func (r *Resolver) AcquireProbability(a *physics.Actor, ball *physics.Ball, active bool) float64 {
	if !r.Gentle(a, ball) {
		return 0
	}
	c := r.cfg
	p := c.BaseProbability + a.Caps.BallControl*c.ControlScale
	if active {
		p += c.ActiveBonus
	}
	dist := geom.PlanarDist(a.Position, ball.Position)
	speed := ball.Speed()
	if dist < r.radius*c.CloseRadiusFraction && speed < c.CloseSpeed {
		p += c.CloseBonus
	}
	if active && ball.Grounded() && speed < c.RestingSpeed && p < c.RestingProbability {
		p = c.RestingProbability
	}
	if _, controlled := ball.Owner(); controlled {
		p *= c.ControlledPenalty
	}
	return geom.Clamp(p, 0, 1)
}

// deflect knocks the ball away from the actor: an impulse scaled by actor
// speed and approach alignment, blended with facing, plus a hop and spin
// for off-centre hits.
func (r *Resolver) deflect(a *physics.Actor, ball *physics.Ball) {
	c := r.cfg
	n := geom.PlanarDir(a.Position, ball.Position, a.FacingDir())
	move := a.MoveDir()

	impulse := c.DeflectBase + a.PlanarSpeed()*c.DeflectSpeedScale
	if align := move.Dot(n); align > 0 {
		impulse *= 1 + align*c.DeflectAlignBoost
	}

	bv := geom.Planar(ball.Velocity)
	if vn := bv.Dot(n); vn < 0 {
		impulse += -vn * c.Rebound
		bv = bv.Sub(n.Mul(vn))
	}
	dir := geom.SafeNormalize(n.Mul(1-c.FacingBlend).Add(a.FacingDir().Mul(c.FacingBlend)), n)
	planar := dir.Mul(impulse).Add(bv.Mul(c.BallRetain))

	hop := c.HopBase + impulse*c.HopSpeedScale
	vy := ball.Velocity[1]
	if vy < hop {
		vy = hop
	}
	ball.Velocity = mgl64.Vec3{planar[0], vy, planar[2]}

	if lateral := move.Cross(n)[1]; lateral > c.OffCenterThreshold || lateral < -c.OffCenterThreshold {
		ball.Spin = ball.Spin.Add(geom.Up.Mul(lateral * c.SpinImpulse))
	}

	sep := a.Position.Add(n.Mul(r.actorRadius + r.ballRadius))
	ball.Position = geom.WithPlanar(ball.Position, sep)
	ball.Touch(a)
}
