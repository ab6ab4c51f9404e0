package telemetry

import (
	"github.com/rs/zerolog"

	"github.com/luketas/soccer-ai/internal/shared/types"
)

// MatchSink adapts a Store to the simulation's event sink for one match.
type MatchSink struct {
	MatchID string
	Store   *Store
	Log     zerolog.Logger
}

// Emit records ev. Failures are logged and otherwise ignored.
func (m MatchSink) Emit(ev types.GameplayEvent) {
	te := types.TelemetryEvent{
		EventType: ev.Type,
		MatchID:   m.MatchID,
		ActorID:   ev.ActorID,
		Team:      ev.Team,
		Timestamp: ev.OccurredMS,
	}
	if ev.Detail != "" {
		te.Payload = map[string]any{"detail": ev.Detail}
	}
	if _, err := m.Store.Ingest(te); err != nil {
		m.Log.Warn().Err(err).Str("type", ev.Type).Msg("dropping telemetry event")
	}
}
