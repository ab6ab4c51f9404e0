package simulation

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/luketas/soccer-ai/internal/physics"
	"github.com/luketas/soccer-ai/internal/pitch"
	"github.com/luketas/soccer-ai/internal/shared/types"
)

// advanceClock runs the match timer down and reports whether it just hit
// zero.
func (w *World) advanceClock(dt float64) bool {
	if w.state.Score.TimeRemainingMS <= 0 {
		return false
	}
	deltaMS := int(dt * 1000)
	if deltaMS < 1 {
		deltaMS = 1
	}
	w.state.Score.TimeRemainingMS -= deltaMS
	if w.state.Score.TimeRemainingMS > 0 {
		return false
	}
	w.state.Score.TimeRemainingMS = 0
	w.state.Finished = true
	w.ball.Freeze()
	w.emit(types.EventWhistle, physics.NoActor, "", "full_time")
	w.log.Info().
		Int("self", w.state.Score.Self).
		Int("opponent", w.state.Score.Opponent).
		Msg("full time")
	return true
}

// applyRules checks goal and miss conditions after the ball has moved.
func (w *World) applyRules(hit physics.Hit) {
	if side, ok := w.params.Pitch.GoalScored(w.ball.Position); ok {
		w.goal(side)
		return
	}
	if hit.Has(physics.HitEndline) && w.shotBy != physics.NoActor {
		if a := w.roster.Get(w.shotBy); a != nil {
			w.emit(types.EventMiss, a.ID, a.Team.String(), "")
		}
		w.shotBy = physics.NoActor
	}
}

// goal credits the team attacking side, freezes play and schedules the
// restart for the conceding team.
func (w *World) goal(side pitch.Side) {
	scorer := physics.Self
	if physics.Opponent.AttackSide() == side {
		scorer = physics.Opponent
	}
	if scorer == physics.Self {
		w.state.Score.Self++
	} else {
		w.state.Score.Opponent++
	}

	by := w.ball.LastContact
	w.ball.ReleaseFromControl()
	w.ball.Freeze()
	w.emit(types.EventGoal, by, scorer.String(), "")
	w.metrics.goals.Add(context.Background(), 1, metric.WithAttributes(attribute.String("team", scorer.String())))
	w.log.Info().
		Stringer("scorer", scorer).
		Int("self", w.state.Score.Self).
		Int("opponent", w.state.Score.Opponent).
		Msg("goal")

	w.shotBy = physics.NoActor
	w.kickoffTeam = scorer.Other()
	if w.onGoal != nil {
		w.onGoal(scorer)
	}
	w.celebration = w.celebrationDur
	if w.celebration <= 0 {
		w.kickoff(w.kickoffTeam)
	}
}
