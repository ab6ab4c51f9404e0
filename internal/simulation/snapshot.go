package simulation

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/luketas/soccer-ai/internal/physics"
	"github.com/luketas/soccer-ai/internal/shared/types"
)

func vec(v mgl64.Vec3) types.Vec3 {
	return types.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

// Snapshot returns a deep copy of state for safe replication.
func (w *World) Snapshot() types.MatchState {
	w.mu.RLock()
	defer w.mu.RUnlock()

	actors := make([]types.ActorState, 0, len(w.roster))
	for _, a := range w.roster {
		state := "human"
		if !a.Human {
			if g := w.teams[a.Team].Agent(a.ID); g != nil {
				state = g.State.String()
			}
		}
		actors = append(actors, types.ActorState{
			ID:       int(a.ID),
			Team:     a.Team.String(),
			Role:     a.Role.String(),
			Position: vec(a.Position),
			Velocity: vec(a.Velocity),
			Facing:   a.Facing,
			State:    state,
			Active:   a.ID == w.active,
			Diving:   a.IsDiving(),
			HasBall:  a.IsControllingBall(),
		})
	}

	owner, ok := w.ball.Owner()
	if !ok {
		owner = physics.NoActor
	}
	rot := w.ball.Rotation
	ball := types.BallState{
		Position: vec(w.ball.Position),
		Velocity: vec(w.ball.Velocity),
		Spin:     vec(w.ball.Spin),
		Rotation: types.Quat{W: rot.W, X: rot.V[0], Y: rot.V[1], Z: rot.V[2]},
		Radius:   w.ball.Radius(),
		Owner:    int(owner),
		Frozen:   w.ball.Frozen,
	}

	strategy := make(map[string]string, len(w.teams))
	for _, t := range w.teams {
		strategy[t.Side.String()] = t.Strategy.Mode().String()
	}

	events := make([]types.GameplayEvent, len(w.state.Events))
	copy(events, w.state.Events)

	out := w.state
	out.Actors = actors
	out.Ball = ball
	out.Strategy = strategy
	out.Events = events
	return out
}
