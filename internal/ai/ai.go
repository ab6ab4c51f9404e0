// Package ai drives non-human actors: a team strategy layer, one finite
// state machine per actor and a dedicated goalkeeper controller.
package ai

import (
	"github.com/luketas/soccer-ai/internal/contact"
	"github.com/luketas/soccer-ai/internal/physics"
)

// Match is the per-tick view the AI reads and acts upon.
type Match struct {
	Roster  physics.Roster
	Ball    *physics.Ball
	Kin     *physics.Kinematics
	Tackler *contact.Tackler
	Now     float64
	Rand    physics.Rand
}

// ActionKind classifies what an actor did to the ball.
type ActionKind int

const (
	ActKick ActionKind = iota
	ActTackle
	ActDive
	ActSave
)

func (k ActionKind) String() string {
	switch k {
	case ActKick:
		return "kick"
	case ActTackle:
		return "tackle"
	case ActDive:
		return "dive"
	case ActSave:
		return "save"
	default:
		return "action"
	}
}

// Action is reported back to the world for events and metrics.
type Action struct {
	Kind   ActionKind
	Actor  physics.ID
	Kick   physics.Kick
	Tackle contact.TackleResult
	// Caught is set on saves that ended with the keeper holding the ball.
	Caught bool
}
