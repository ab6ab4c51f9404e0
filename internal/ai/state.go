package ai

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/luketas/soccer-ai/internal/physics"
)

// State is a behavior FSM state.
type State int

const (
	Idle State = iota
	MoveToBall
	Dribble
	Pass
	Shoot
	Defend
	Intercept
	Support
	stateCount
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case MoveToBall:
		return "move_to_ball"
	case Dribble:
		return "dribble"
	case Pass:
		return "pass"
	case Shoot:
		return "shoot"
	case Defend:
		return "defend"
	case Intercept:
		return "intercept"
	case Support:
		return "support"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Valid reports whether s is a known state.
func (s State) Valid() bool { return s >= 0 && s < stateCount }

// Agent is the AI bookkeeping attached to one actor.
type Agent struct {
	Actor *physics.Actor
	State State
	// Index is the actor's position among teammates of the same role.
	Index int
	// RoleCount is how many teammates share the role.
	RoleCount int

	decisionTimer float64

	dribbleTarget mgl64.Vec3
	hasDribble    bool
	retarget      float64

	lapse      mgl64.Vec3
	lapseTimer float64
}

func (g *Agent) setState(s State) {
	if s != Dribble {
		g.hasDribble = false
	}
	g.State = s
}

// reset clears transient behavior after a restart.
func (g *Agent) reset() {
	g.State = Idle
	g.decisionTimer = 0
	g.hasDribble = false
	g.retarget = 0
	g.lapse = mgl64.Vec3{}
	g.lapseTimer = 0
}
