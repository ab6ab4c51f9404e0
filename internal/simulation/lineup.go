package simulation

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/luketas/soccer-ai/internal/geom"
	"github.com/luketas/soccer-ai/internal/physics"
	"github.com/luketas/soccer-ai/internal/shared/types"
	"github.com/luketas/soccer-ai/internal/tuning"
)

// TeamSize is the number of actors per side.
const TeamSize = 5

type slot struct {
	role tuning.Role
	// x is the advance from the own goal side as a fraction of the half
	// length; negative is the own half.
	x, z float64
}

// lineup is one side's kickoff shape: GK, two defenders, a midfielder and
// an attacker.
var lineup = [TeamSize]slot{
	{tuning.Goalkeeper, -0.96, 0},
	{tuning.Defender, -0.62, -0.3},
	{tuning.Defender, -0.62, 0.3},
	{tuning.Midfielder, -0.35, 0},
	{tuning.Attacker, -0.19, 0},
}

// kickoffGap keeps the non-kicking attacker outside the centre circle.
const kickoffGap = 9.15

func spawnRoster(p tuning.Params, cfg Config) physics.Roster {
	roster := make(physics.Roster, 0, 2*TeamSize)
	for _, team := range []physics.Team{physics.Self, physics.Opponent} {
		d := cfg.SelfDifficulty
		if team == physics.Opponent {
			d = cfg.OpponentDifficulty
		}
		prof := p.Profiles.For(d)
		for i, s := range lineup {
			id := physics.ID(len(roster))
			caps := physics.CapabilitiesFor(s.role, p.Roles.Spec(s.role), prof)
			roster = append(roster, physics.NewActor(id, team, s.role, i, caps, kickoffSpot(p, team, i, false)))
		}
	}
	return roster
}

// kickoffSpot is slot i's restart position. The kicking team's attacker
// stands over the ball.
func kickoffSpot(p tuning.Params, team physics.Team, i int, kicking bool) mgl64.Vec3 {
	s := lineup[i]
	sign := float64(team.AttackSide())
	x := s.x * p.Pitch.HalfLength
	if s.role == tuning.Attacker {
		if kicking {
			x = -(p.Kinematics.ActorRadius + p.Ball.Radius + 0.2)
		} else {
			x = -kickoffGap
		}
	}
	return mgl64.Vec3{x * sign, 0, s.z * p.Pitch.HalfWidth}
}

// kickoff repositions every actor and the ball for a restart taken by
// team. Actors and ball are reused.
func (w *World) kickoff(team physics.Team) {
	for _, a := range w.roster {
		pos := kickoffSpot(w.params, a.Team, a.Slot, a.Team == team)
		a.Reposition(pos, geom.Heading(a.Team.AttackDir()))
	}
	w.ball.Reset(mgl64.Vec3{})
	w.ball.Frozen = false
	for _, t := range w.teams {
		if t != nil {
			t.Reset()
		}
	}
	w.contact.Reset()
	w.celebration = 0
	w.shotBy = physics.NoActor
	w.lastOwner = physics.NoActor

	if w.humanControl {
		w.setActive(w.kickoffActor())
	}
	w.emit(types.EventKickoff, physics.NoActor, team.String(), "")
	w.emit(types.EventWhistle, physics.NoActor, "", "kickoff")
}

// kickoffActor is the Self attacker, or the first Self outfield actor.
func (w *World) kickoffActor() physics.ID {
	fallback := physics.NoActor
	for _, a := range w.roster.Team(physics.Self) {
		if a.Role == tuning.Attacker {
			return a.ID
		}
		if fallback == physics.NoActor && a.Role != tuning.Goalkeeper {
			fallback = a.ID
		}
	}
	return fallback
}
