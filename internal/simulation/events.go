package simulation

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/luketas/soccer-ai/internal/ai"
	"github.com/luketas/soccer-ai/internal/physics"
	"github.com/luketas/soccer-ai/internal/shared/types"
	"github.com/luketas/soccer-ai/internal/tuning"
)

// emit appends an event to this tick's snapshot and forwards it to the
// sink.
func (w *World) emit(kind string, actor physics.ID, team, detail string) {
	ev := types.GameplayEvent{
		Type:       kind,
		ActorID:    int(actor),
		Team:       team,
		Detail:     detail,
		OccurredMS: int64(w.now * 1000),
	}
	w.state.Events = append(w.state.Events, ev)
	if w.sink != nil {
		w.sink.Emit(ev)
	}
}

// handleActions turns AI and human actions into events and counters.
func (w *World) handleActions(actions []ai.Action) {
	ctx := context.Background()
	for _, act := range actions {
		a := w.roster.Get(act.Actor)
		if a == nil {
			continue
		}
		team := a.Team.String()
		switch act.Kind {
		case ai.ActKick:
			w.emit(types.EventKick, a.ID, team, act.Kick.Kind.String())
			if act.Kick.Kind.IsShot() {
				w.shotBy = a.ID
				w.emit(types.EventShoot, a.ID, team, act.Kick.Kind.String())
			} else {
				w.shotBy = physics.NoActor
				w.emit(types.EventPass, a.ID, team, act.Kick.Kind.String())
			}
		case ai.ActTackle:
			if !act.Tackle.Attempted {
				continue
			}
			detail := "failed"
			if act.Tackle.Success {
				detail = "won"
			}
			w.emit(types.EventTackle, a.ID, team, detail)
			w.metrics.tackles.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", act.Tackle.Success)))
		case ai.ActDive:
			w.emit(types.EventDive, a.ID, team, "")
		case ai.ActSave:
			detail := "parried"
			if act.Caught {
				detail = "caught"
			}
			w.shotBy = physics.NoActor
			w.emit(types.EventSave, a.ID, team, detail)
		}
	}
}

// trackPossession reports owner changes once per tick.
func (w *World) trackPossession() {
	owner, ok := w.ball.Owner()
	if !ok {
		owner = physics.NoActor
	}
	if owner == w.lastOwner {
		return
	}
	w.lastOwner = owner
	if owner == physics.NoActor {
		return
	}
	a := w.roster.Get(owner)
	w.shotBy = physics.NoActor
	w.emit(types.EventPossession, owner, a.Team.String(), a.Role.String())
	w.metrics.possession.Add(context.Background(), 1, metric.WithAttributes(attribute.String("team", a.Team.String())))
	if w.humanControl && a.Team == physics.Self && owner != w.active && a.Role != tuning.Goalkeeper {
		w.setActive(owner)
	}
}
