package physics

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/luketas/soccer-ai/internal/geom"
	"github.com/luketas/soccer-ai/internal/pitch"
	"github.com/luketas/soccer-ai/internal/tuning"
)

// Kinematics applies movement requests and integrates actors.
type Kinematics struct {
	cfg   tuning.Kinematics
	pitch pitch.Pitch
}

// NewKinematics builds the actor movement model.
func NewKinematics(cfg tuning.Kinematics, p pitch.Pitch) *Kinematics {
	if cfg.HistorySize < 2 {
		cfg.HistorySize = 2
	}
	return &Kinematics{cfg: cfg, pitch: p}
}

// TurnSharpness maps the divergence between two unit directions to [0,1].
func TurnSharpness(last, next mgl64.Vec3) float64 {
	return geom.Clamp((1-last.Dot(next))/2, 0, 1)
}

// Move requests movement along dir at speed*mult. Velocity is blended by
// agility, never assigned. Requests are ignored while the actor is diving.
func (k *Kinematics) Move(a *Actor, dir mgl64.Vec3, speed, mult, now float64) {
	if a.IsDiving() {
		return
	}
	agility := a.Caps.Agility
	dir = geom.SafeNormalize(geom.Planar(dir), mgl64.Vec3{})
	if geom.IsZero(dir) {
		a.Velocity = geom.WithPlanar(a.Velocity, geom.Planar(a.Velocity).Mul(1-agility))
		return
	}

	last := a.SteerDir
	if geom.IsZero(last) {
		last = dir
	}
	sharp := TurnSharpness(last, dir)
	steer := k.stabilize(a, dir, sharp, now)
	a.SteerDir = steer

	speed *= mult
	speed *= 1 - sharp*k.cfg.TurnSpeedPenalty
	if a.controlling {
		speed *= 1 - sharp*(1-a.Caps.BallControl)*k.cfg.DribbleTurnPenalty
	}
	if speed < 0 {
		speed = 0
	}

	planar := geom.Planar(a.Velocity).Mul(1 - agility).Add(steer.Mul(speed * agility))
	a.Velocity = geom.WithPlanar(a.Velocity, planar)
	a.Facing = geom.LerpAngle(a.Facing, geom.Heading(steer), k.cfg.FacingRate)
}

// Halt bleeds off planar velocity as if the actor requested no movement.
func (k *Kinematics) Halt(a *Actor) {
	k.Move(a, mgl64.Vec3{}, 0, 1, 0)
}

// FaceToward turns the actor toward target without moving it.
func (k *Kinematics) FaceToward(a *Actor, target mgl64.Vec3) {
	d := geom.PlanarDir(a.Position, target, mgl64.Vec3{})
	if geom.IsZero(d) {
		return
	}
	a.Facing = geom.LerpAngle(a.Facing, geom.Heading(d), k.cfg.FacingRate)
}

// stabilize records the request and returns the smoothed steering direction.
func (k *Kinematics) stabilize(a *Actor, dir mgl64.Vec3, sharp, now float64) mgl64.Vec3 {
	k.record(a, dir, now)

	window, strong := k.cfg.OscillationWindow, k.cfg.StabilizedBlend
	if a.Human {
		window, strong = k.cfg.HumanOscillationWindow, k.cfg.HumanStabilizedBlend
	}
	if k.oscillating(a.history, window) {
		a.stabilizeUntil = now + k.cfg.OscillationCooldown
	}

	prev := a.SteerDir
	if geom.IsZero(prev) {
		return dir
	}
	var w float64
	switch {
	case now < a.stabilizeUntil:
		w = strong
	case a.Human:
		w = k.cfg.HumanBlend
	default:
		w = k.cfg.SmoothMaxBlend - (k.cfg.SmoothMaxBlend-k.cfg.SmoothMinBlend)*sharp
	}
	// angular blend so an exact reversal still turns
	return geom.FromHeading(geom.LerpAngle(geom.Heading(prev), geom.Heading(dir), w))
}

func (k *Kinematics) record(a *Actor, dir mgl64.Vec3, now float64) {
	if len(a.history) >= k.cfg.HistorySize {
		copy(a.history, a.history[1:])
		a.history = a.history[:len(a.history)-1]
	}
	a.history = append(a.history, DirSample{Dir: dir, T: now})
}

// oscillating checks the newest 3..OscillationSamples samples for a
// cumulative turn above the threshold inside the window.
func (k *Kinematics) oscillating(h []DirSample, window float64) bool {
	maxN := k.cfg.OscillationSamples
	if maxN > len(h) {
		maxN = len(h)
	}
	for n := maxN; n >= 3; n-- {
		s := h[len(h)-n:]
		if s[n-1].T-s[0].T > window {
			continue
		}
		total := 0.0
		for i := 1; i < n; i++ {
			total += geom.AngleBetween(s[i-1].Dir, s[i].Dir)
		}
		if total > k.cfg.OscillationAngle {
			return true
		}
	}
	return false
}

// Integrate advances position by velocity, applies gravity above ground and
// clamps the actor to the field.
func (k *Kinematics) Integrate(a *Actor, dt float64) {
	if a.Position[1] > 0 || a.Velocity[1] > 0 {
		a.Velocity[1] -= k.cfg.Gravity * dt
	}
	a.Position = a.Position.Add(a.Velocity.Mul(dt))
	if a.Position[1] <= 0 {
		a.Position[1] = 0
		if a.Velocity[1] < 0 {
			a.Velocity[1] = 0
		}
	}

	pos, clamped := k.pitch.ClampActor(a.Position, k.cfg.ActorRadius)
	if clamped {
		if pos[0] != a.Position[0] {
			a.Velocity[0] = 0
		}
		if pos[2] != a.Position[2] {
			a.Velocity[2] = 0
		}
		a.Position = pos
	}
}
