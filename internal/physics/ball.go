package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/luketas/soccer-ai/internal/geom"
	"github.com/luketas/soccer-ai/internal/pitch"
	"github.com/luketas/soccer-ai/internal/tuning"
)

// BallState is the possession state of the ball.
type BallState int

const (
	BallFree BallState = iota
	BallControlled
	BallFrozen
)

func (s BallState) String() string {
	switch s {
	case BallControlled:
		return "controlled"
	case BallFrozen:
		return "frozen"
	default:
		return "free"
	}
}

// Hit flags the boundaries the ball touched during an update.
type Hit uint8

const (
	HitSideline Hit = 1 << iota
	HitEndline
	HitPost
	HitCrossbar
	HitNet
)

// Has reports whether h contains flag.
func (h Hit) Has(flag Hit) bool { return h&flag != 0 }

// Ball is the single shared dynamic object. Control is an owner tag that
// only GiveControl and ReleaseFromControl mutate.
type Ball struct {
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Spin     mgl64.Vec3
	Rotation mgl64.Quat
	// Frozen zeroes velocity and spin every update while set.
	Frozen bool

	// LastContact is the actor that last touched or kicked the ball.
	LastContact  ID
	SinceContact float64

	cfg     tuning.Ball
	control tuning.Control
	kick    tuning.Kick
	pitch   pitch.Pitch
	roster  Roster

	owner     ID
	target    mgl64.Vec3
	hasTarget bool
	lastDir   mgl64.Vec3
	inNet     bool
}

// NewBall places a free ball on the centre spot.
func NewBall(p tuning.Params, roster Roster) *Ball {
	return &Ball{
		Position:     mgl64.Vec3{0, p.Ball.Radius, 0},
		Rotation:     mgl64.QuatIdent(),
		LastContact:  NoActor,
		SinceContact: 1e9,
		cfg:          p.Ball,
		control:      p.Control,
		kick:         p.Kick,
		pitch:        p.Pitch,
		roster:       roster,
		owner:        NoActor,
	}
}

// Radius is the ball radius.
func (b *Ball) Radius() float64 { return b.cfg.Radius }

// State reports the possession state.
func (b *Ball) State() BallState {
	switch {
	case b.Frozen:
		return BallFrozen
	case b.owner != NoActor:
		return BallControlled
	default:
		return BallFree
	}
}

// Owner returns the controlling actor id, if any.
func (b *Ball) Owner() (ID, bool) {
	return b.owner, b.owner != NoActor
}

// Controller returns the controlling actor or nil.
func (b *Ball) Controller() *Actor {
	if b.owner == NoActor {
		return nil
	}
	return b.roster.Get(b.owner)
}

// GiveControl makes a the sole controller. Any previous controller loses its
// flag first. It reports whether the owner changed.
func (b *Ball) GiveControl(a *Actor) bool {
	if a == nil {
		return false
	}
	if b.owner == a.ID && a.controlling {
		return false
	}
	b.ReleaseFromControl()
	b.owner = a.ID
	a.controlling = true
	a.HasBall = true
	b.hasTarget = false
	b.lastDir = mgl64.Vec3{}
	b.Touch(a)
	return true
}

// ReleaseFromControl transitions Controlled to Free.
func (b *Ball) ReleaseFromControl() {
	if prev := b.Controller(); prev != nil {
		prev.controlling = false
	}
	b.owner = NoActor
	b.hasTarget = false
}

// Touch records a contact by a for de-bouncing.
func (b *Ball) Touch(a *Actor) {
	b.LastContact = a.ID
	b.SinceContact = 0
}

// EnforceExclusivity restores the possession invariant and reports whether
// anything had to be repaired.
func (b *Ball) EnforceExclusivity() bool {
	repaired := false
	for _, a := range b.roster {
		if a.controlling && a.ID != b.owner {
			a.controlling = false
			repaired = true
		}
	}
	if c := b.Controller(); c != nil && !c.controlling {
		c.controlling = true
		repaired = true
	} else if b.owner != NoActor && c == nil {
		b.owner = NoActor
		repaired = true
	}
	return repaired
}

// Freeze sets the frozen flag and stops the ball immediately.
func (b *Ball) Freeze() {
	b.Frozen = true
	b.Velocity = mgl64.Vec3{}
	b.Spin = mgl64.Vec3{}
}

// Reset releases control and places the ball at rest at pos.
func (b *Ball) Reset(pos mgl64.Vec3) {
	b.ReleaseFromControl()
	b.Position = mgl64.Vec3{pos[0], b.cfg.Radius, pos[2]}
	b.Velocity = mgl64.Vec3{}
	b.Spin = mgl64.Vec3{}
	b.LastContact = NoActor
	b.SinceContact = 1e9
	b.inNet = false
}

// Speed is the total speed.
func (b *Ball) Speed() float64 { return b.Velocity.Len() }

// PlanarSpeed is the ground speed.
func (b *Ball) PlanarSpeed() float64 { return geom.PlanarLen(b.Velocity) }

// Grounded reports whether the ball rests on the ground.
func (b *Ball) Grounded() bool { return b.Position[1] <= b.cfg.Radius+1e-3 }

// Update integrates the ball for dt and reports boundary contacts.
func (b *Ball) Update(dt float64, rng Rand) Hit {
	b.SinceContact += dt
	if b.Frozen {
		b.Velocity = mgl64.Vec3{}
		b.Spin = mgl64.Vec3{}
		return 0
	}
	if c := b.Controller(); c != nil {
		b.updateControlled(c, dt)
	} else {
		b.updateFree(dt)
	}
	hit := b.collide(rng)
	b.rotate(dt)
	return hit
}

func (b *Ball) updateFree(dt float64) {
	r := b.cfg.Radius
	airborne := b.Position[1] > r+1e-3
	if airborne || b.Velocity[1] > 0 {
		b.Velocity[1] -= b.cfg.Gravity * dt
	}
	if airborne && !geom.IsZero(b.Spin) {
		b.Velocity = b.Velocity.Add(b.Spin.Cross(b.Velocity).Mul(b.cfg.MagnusCoeff * dt))
	}

	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	if b.Position[1] < r {
		b.Position[1] = r
		if b.Velocity[1] < -b.cfg.BounceThreshold {
			b.Velocity[1] = -b.Velocity[1] * b.cfg.BounceFactor
		} else if b.Velocity[1] < 0 {
			b.Velocity[1] = 0
		}
	}

	drag := b.cfg.AirResistance
	if b.Grounded() {
		drag = b.cfg.GroundFriction
	}
	f := geom.TickFactor(drag, dt)
	b.Velocity[0] *= f
	b.Velocity[2] *= f

	b.Velocity = geom.ClampLen(b.Velocity, b.cfg.MaxSpeed)
	if b.Grounded() && b.Velocity.Len() < b.cfg.SettleSpeed {
		b.Velocity = mgl64.Vec3{}
	}
	b.Spin = b.Spin.Mul(geom.TickFactor(b.cfg.SpinDecay, dt))
}

// updateControlled drives the ball toward a smoothed point ahead of the
// controller with a clamped spring and damping.
func (b *Ball) updateControlled(a *Actor, dt float64) {
	c := b.control
	r := b.cfg.Radius
	facing := a.FacingDir()
	forward := geom.SafeNormalize(a.MoveDir().Mul(0.6).Add(facing.Mul(0.4)), facing)

	speed := a.PlanarSpeed()
	factor := 1 + speed*c.SpeedFactor
	if factor > c.MaxSpeedFactor {
		factor = c.MaxSpeedFactor
	}
	raw := a.Position.Add(forward.Mul(c.Distance * factor))
	raw[1] = r

	smooth := c.AISmoothing
	if a.Human {
		smooth = c.HumanSmoothing
	}
	if !b.hasTarget {
		b.target, b.hasTarget = raw, true
	} else {
		b.target = geom.Lerp(b.target, raw, smooth)
	}

	turnRate := 0.0
	if !geom.IsZero(b.lastDir) && dt > 0 {
		turnRate = geom.AngleBetween(b.lastDir, forward) / dt
	}
	b.lastDir = forward

	toTarget := geom.Planar(b.target.Sub(b.Position))
	strength := c.BaseAttraction + c.TurnAttraction*turnRate + c.DistanceAttraction*toTarget.Len()
	strength = geom.Clamp(strength, 0, c.MaxAttraction)

	desired := geom.Planar(a.Velocity).Add(toTarget.Mul(strength))
	planar := geom.Planar(b.Velocity).Mul(c.Damping).Add(desired.Mul(1 - c.Damping))
	b.Velocity = geom.WithPlanar(b.Velocity, planar)

	if b.Position[1] > r {
		b.Velocity[1] -= b.cfg.Gravity * dt
		if b.Position[1] > r+c.MaxHeight {
			b.Velocity[1] -= b.cfg.Gravity * dt
		}
	}
	b.Position = b.Position.Add(b.Velocity.Mul(dt))
	if b.Position[1] < r {
		b.Position[1] = r
		if b.Velocity[1] < 0 {
			b.Velocity[1] = 0
		}
	}
	if b.Position[1] > r+c.MaxHeight {
		b.Position[1] = r + c.MaxHeight
		if b.Velocity[1] > 0 {
			b.Velocity[1] = 0
		}
	}
	b.Spin = b.Spin.Mul(geom.TickFactor(b.cfg.SpinDecay, dt))
}

// rotate integrates the render orientation from rolling and spin.
func (b *Ball) rotate(dt float64) {
	r := b.cfg.Radius
	if b.Grounded() {
		if v := geom.PlanarLen(b.Velocity); v > geom.Epsilon {
			axis := geom.Up.Cross(geom.Planar(b.Velocity)).Normalize()
			b.Rotation = mgl64.QuatRotate(v/r*dt, axis).Mul(b.Rotation)
		}
	}
	if s := b.Spin.Len(); s > geom.Epsilon {
		b.Rotation = mgl64.QuatRotate(s*dt, b.Spin.Mul(1/s)).Mul(b.Rotation)
	}
	b.Rotation = b.Rotation.Normalize()
}
