// Package physics implements the kinematic actor model and the ball
// dynamics model. It owns the possession tag: only Ball may change which
// actor controls the ball.
package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/luketas/soccer-ai/internal/geom"
	"github.com/luketas/soccer-ai/internal/pitch"
	"github.com/luketas/soccer-ai/internal/tuning"
)

// Team identifies one of the two sides.
type Team int

const (
	Self Team = iota
	Opponent
)

func (t Team) String() string {
	switch t {
	case Self:
		return "self"
	case Opponent:
		return "opponent"
	default:
		return fmt.Sprintf("team(%d)", int(t))
	}
}

// Other returns the opposing team.
func (t Team) Other() Team {
	if t == Self {
		return Opponent
	}
	return Self
}

// AttackSide is the goal this team shoots at.
func (t Team) AttackSide() pitch.Side {
	if t == Self {
		return pitch.East
	}
	return pitch.West
}

// OwnSide is the goal this team defends.
func (t Team) OwnSide() pitch.Side {
	return -t.AttackSide()
}

// AttackDir is the unit planar direction toward the attacked goal.
func (t Team) AttackDir() mgl64.Vec3 {
	return mgl64.Vec3{float64(t.AttackSide()), 0, 0}
}

// ID indexes an actor in its Roster.
type ID int

// NoActor marks an empty possession tag.
const NoActor ID = -1

// Capabilities are the role-derived movement and skill attributes.
type Capabilities struct {
	BaseSpeed          float64
	SprintMultiplier   float64
	DribbleSpeed       float64
	DribbleSprintSpeed float64
	BallControl        float64
	Agility            float64
	TackleSkill        float64
	// Reflexes is non-zero for goalkeepers only.
	Reflexes float64
}

// CapabilitiesFor derives capabilities from the role table row and the
// difficulty profile. The result depends only on role and difficulty.
func CapabilitiesFor(role tuning.Role, spec tuning.RoleSpec, prof tuning.Profile) Capabilities {
	mult := prof.SpeedMultiplier
	if mult <= 0 {
		mult = 1
	}
	c := Capabilities{
		BaseSpeed:          spec.BaseSpeed * mult,
		SprintMultiplier:   spec.SprintMultiplier,
		DribbleSpeed:       spec.DribbleSpeed * mult,
		DribbleSprintSpeed: spec.DribbleSprintSpeed * mult,
		BallControl:        geom.Clamp(spec.BallControl, 0, 1),
		Agility:            geom.Clamp(spec.Agility, 0.01, 1),
		TackleSkill:        geom.Clamp(spec.TackleSkill, 0, 1),
	}
	if role == tuning.Goalkeeper {
		c.Reflexes = geom.Clamp(spec.Reflexes*prof.GoalkeeperReflexes, 0, 1)
	}
	return c
}

// DirSample is one steering request in the oscillation window.
type DirSample struct {
	Dir mgl64.Vec3
	T   float64
}

// DiveState is the goalkeeper dive lock.
type DiveState struct {
	Active   bool
	Elapsed  float64
	Duration float64
}

// Actor is one player on the pitch.
type Actor struct {
	ID   ID
	Team Team
	Role tuning.Role
	// Slot is the actor's formation index within its team.
	Slot int

	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Facing   float64
	// SteerDir is the persistent stabilized steering direction.
	SteerDir mgl64.Vec3

	Caps Capabilities

	// Human is set while the input layer directs this actor.
	Human bool
	// HasBall is the proximity flag refreshed by the contact resolver.
	HasBall bool

	Dive           DiveState
	TackleCooldown float64

	controlling    bool
	history        []DirSample
	stabilizeUntil float64
}

// NewActor creates an actor at pos facing along its attack direction.
func NewActor(id ID, team Team, role tuning.Role, slot int, caps Capabilities, pos mgl64.Vec3) *Actor {
	a := &Actor{
		ID:       id,
		Team:     team,
		Role:     role,
		Slot:     slot,
		Caps:     caps,
		Position: pos,
	}
	a.Facing = geom.Heading(team.AttackDir())
	return a
}

// IsControllingBall reports whether this actor is the ball's controller.
func (a *Actor) IsControllingBall() bool { return a.controlling }

// IsDiving reports whether the dive lock is active.
func (a *Actor) IsDiving() bool { return a.Dive.Active }

// Stabilizing reports whether oscillation smoothing is in its cooldown.
func (a *Actor) Stabilizing(now float64) bool { return now < a.stabilizeUntil }

// FacingDir is the unit planar direction the actor faces.
func (a *Actor) FacingDir() mgl64.Vec3 { return geom.FromHeading(a.Facing) }

// PlanarSpeed is the actor's ground speed.
func (a *Actor) PlanarSpeed() float64 { return geom.PlanarLen(a.Velocity) }

// MoveDir is the direction of travel, falling back to facing when still.
func (a *Actor) MoveDir() mgl64.Vec3 {
	return geom.SafeNormalize(geom.Planar(a.Velocity), a.FacingDir())
}

// StartDive locks the actor into a scripted dive with the given velocity.
func (a *Actor) StartDive(vel mgl64.Vec3, duration float64) {
	a.Dive = DiveState{Active: true, Duration: duration}
	a.Velocity = vel
}

// Tick advances the actor's countdown timers.
func (a *Actor) Tick(dt float64) {
	if a.TackleCooldown > 0 {
		a.TackleCooldown -= dt
		if a.TackleCooldown < 0 {
			a.TackleCooldown = 0
		}
	}
	if a.Dive.Active {
		a.Dive.Elapsed += dt
		if a.Dive.Elapsed >= a.Dive.Duration {
			a.Dive = DiveState{}
			a.Velocity = geom.WithPlanar(a.Velocity, geom.Planar(a.Velocity).Mul(0.2))
		}
	}
}

// Reposition places the actor for a restart and clears transient state.
func (a *Actor) Reposition(pos mgl64.Vec3, facing float64) {
	a.Position = pos
	a.Velocity = mgl64.Vec3{}
	a.Facing = facing
	a.SteerDir = mgl64.Vec3{}
	a.Dive = DiveState{}
	a.TackleCooldown = 0
	a.HasBall = false
	a.history = a.history[:0]
	a.stabilizeUntil = 0
}

// Roster is the fixed set of actors, indexed by ID.
type Roster []*Actor

// Get returns the actor with id or nil.
func (r Roster) Get(id ID) *Actor {
	if id < 0 || int(id) >= len(r) {
		return nil
	}
	return r[id]
}

// Team returns the actors of t in slot order.
func (r Roster) Team(t Team) []*Actor {
	out := make([]*Actor, 0, len(r)/2+1)
	for _, a := range r {
		if a.Team == t {
			out = append(out, a)
		}
	}
	return out
}

// Nearest returns the actor of team t closest to pos, skipping exclude.
// The distance is +Inf when there is no candidate.
func (r Roster) Nearest(t Team, pos mgl64.Vec3, exclude ID) (*Actor, float64) {
	var best *Actor
	bestDist := math.Inf(1)
	for _, a := range r {
		if a.Team != t || a.ID == exclude {
			continue
		}
		d := geom.PlanarDist(a.Position, pos)
		if best == nil || d < bestDist {
			best, bestDist = a, d
		}
	}
	return best, bestDist
}

// Controllers counts actors whose control flag is set.
func (r Roster) Controllers() int {
	n := 0
	for _, a := range r {
		if a.controlling {
			n++
		}
	}
	return n
}
