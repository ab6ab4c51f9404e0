package simulation

import (
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/luketas/soccer-ai/internal/simulation"

type metrics struct {
	ticks      metric.Int64Counter
	goals      metric.Int64Counter
	tackles    metric.Int64Counter
	possession metric.Int64Counter
}

// newMetrics registers the match counters on the global meter, which is a
// no-op unless a provider is installed. Registration failures fall back to
// no-op instruments.
func newMetrics(log zerolog.Logger) *metrics {
	m, err := register(otel.Meter(instrumentationName))
	if err != nil {
		log.Warn().Err(err).Msg("metrics disabled")
		m, _ = register(noop.NewMeterProvider().Meter(instrumentationName))
	}
	return m
}

func register(meter metric.Meter) (*metrics, error) {
	var (
		m   metrics
		err error
	)
	if m.ticks, err = meter.Int64Counter("match.ticks",
		metric.WithDescription("Simulation ticks advanced")); err != nil {
		return nil, err
	}
	if m.goals, err = meter.Int64Counter("match.goals",
		metric.WithDescription("Goals scored")); err != nil {
		return nil, err
	}
	if m.tackles, err = meter.Int64Counter("match.tackles",
		metric.WithDescription("Tackle attempts by outcome")); err != nil {
		return nil, err
	}
	if m.possession, err = meter.Int64Counter("match.possession.changes",
		metric.WithDescription("Possession changes by gaining team")); err != nil {
		return nil, err
	}
	return &m, nil
}
