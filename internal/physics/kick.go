package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/luketas/soccer-ai/internal/geom"
)

// KickKind distinguishes the kick variants.
type KickKind int

const (
	KickPass KickKind = iota
	KickLoftedPass
	KickShot
	KickCurvedShot
	KickChip
	KickPowerShot
	KickClearance
)

func (k KickKind) String() string {
	switch k {
	case KickPass:
		return "pass"
	case KickLoftedPass:
		return "lofted_pass"
	case KickShot:
		return "shot"
	case KickCurvedShot:
		return "curved_shot"
	case KickChip:
		return "chip"
	case KickPowerShot:
		return "power_shot"
	case KickClearance:
		return "clearance"
	default:
		return "kick"
	}
}

// IsShot reports whether k is aimed at goal.
func (k KickKind) IsShot() bool {
	switch k {
	case KickShot, KickCurvedShot, KickChip, KickPowerShot:
		return true
	}
	return false
}

// Kick is the result of a kick request.
type Kick struct {
	Kind     KickKind
	By       ID
	Power    float64
	Velocity mgl64.Vec3
}

// Strike releases control and sets the ball velocity directly from
// dir*power plus lift, with an optional spin vector.
func (b *Ball) Strike(by *Actor, dir mgl64.Vec3, power, lift float64, spin mgl64.Vec3) mgl64.Vec3 {
	dir = geom.SafeNormalize(geom.Planar(dir), by.FacingDir())
	b.ReleaseFromControl()
	by.HasBall = false
	if b.Position[1] < b.cfg.Radius {
		b.Position[1] = b.cfg.Radius
	}
	b.Velocity = dir.Mul(power).Add(geom.Up.Mul(lift))
	b.Velocity = geom.ClampLen(b.Velocity, b.cfg.MaxSpeed)
	b.Spin = spin
	b.Touch(by)
	return b.Velocity
}

// PassTo kicks toward target with power scaled by distance. Long passes
// are lofted.
func (b *Ball) PassTo(by *Actor, target mgl64.Vec3) Kick {
	k := b.kick
	dist := geom.PlanarDist(b.Position, target)
	power := geom.Clamp(k.PassBase+dist*k.PassPowerPerUnit, k.PassMinPower, k.PassMaxPower)
	kind, lift := KickPass, 0.0
	if dist > k.LoftDistance {
		kind, lift = KickLoftedPass, power*k.LoftLift
	}
	dir := geom.PlanarDir(b.Position, target, by.FacingDir())
	v := b.Strike(by, dir, power, lift, mgl64.Vec3{})
	return Kick{Kind: kind, By: by.ID, Power: power, Velocity: v}
}

// ShootAt kicks toward target, a point in the goal mouth whose y is the
// aimed height. Curved shots bend in from outside the aim line.
func (b *Ball) ShootAt(by *Actor, target mgl64.Vec3, kind KickKind) Kick {
	k := b.kick
	dir := geom.PlanarDir(b.Position, target, by.FacingDir())
	dist := geom.PlanarDist(b.Position, target)
	var power, lift float64
	var spin mgl64.Vec3

	switch kind {
	case KickChip:
		power = k.ChipPower
		lift = power * k.ChipLift
	case KickPowerShot:
		power = k.PowerShotPower
		lift = b.arcFor(dist, power, target[1]) + power*k.PowerShotLift*0.25
	case KickCurvedShot:
		power = k.ShotPower
		// start outside the aim line, spin pulls it back in the air
		tz := geom.Sign(target[2])
		out := geom.RotateY(dir, k.CurveAngle*0.5)
		if alt := geom.RotateY(dir, -k.CurveAngle*0.5); alt[2]*tz > out[2]*tz {
			out = alt
		}
		dir = out
		spin = geom.Up.Mul(tz * geom.Sign(dir[0]) * k.CurveSpin)
		lift = b.arcFor(dist, power, target[1])
	default:
		kind = KickShot
		power = k.ShotPower
		lift = b.arcFor(dist, power, target[1]) + power*k.ShotLift*0.25
	}
	v := b.Strike(by, dir, power, lift, spin)
	return Kick{Kind: kind, By: by.ID, Power: power, Velocity: v}
}

// Clear boots the ball long and high along dir.
func (b *Ball) Clear(by *Actor, dir mgl64.Vec3) Kick {
	k := b.kick
	power := k.ClearancePower
	v := b.Strike(by, dir, power, power*k.ClearanceLift, mgl64.Vec3{})
	return Kick{Kind: KickClearance, By: by.ID, Power: power, Velocity: v}
}

// arcFor is the vertical launch speed that puts the ball at height y after
// travelling dist at the given planar speed.
func (b *Ball) arcFor(dist, power, y float64) float64 {
	if power <= 0 {
		return 0
	}
	t := dist / power
	if t < geom.Epsilon {
		return 0
	}
	vy := (y+b.cfg.Radius-b.Position[1])/t + 0.5*b.cfg.Gravity*t
	return geom.Clamp(vy, 0, power*0.5)
}

// PredictLanding projects the free ball under gravity, ignoring drag, and
// returns where it will be after t seconds with its height floored.
func (b *Ball) PredictLanding(t float64) mgl64.Vec3 {
	p := b.Position.Add(b.Velocity.Mul(t))
	p[1] -= 0.5 * b.cfg.Gravity * t * t
	p[1] = math.Max(p[1], b.cfg.Radius)
	return p
}
