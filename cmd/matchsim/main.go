package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/luketas/soccer-ai/internal/config"
	"github.com/luketas/soccer-ai/internal/shared/logger"
	"github.com/luketas/soccer-ai/internal/simulation"
	"github.com/luketas/soccer-ai/internal/telemetry"
	"github.com/luketas/soccer-ai/internal/tuning"
)

type matchSummary struct {
	MatchID      string             `yaml:"match_id"`
	Seed         uint64             `yaml:"seed"`
	Self         string             `yaml:"self_difficulty"`
	Opponent     string             `yaml:"opponent_difficulty"`
	Score        scoreLine          `yaml:"score"`
	Ticks        uint64             `yaml:"ticks"`
	SimulatedSec float64            `yaml:"simulated_sec"`
	WallMS       int64              `yaml:"wall_ms"`
	Possession   map[string]float64 `yaml:"possession"`
	Events       map[string]int64   `yaml:"events"`
}

type scoreLine struct {
	Self     int `yaml:"self"`
	Opponent int `yaml:"opponent"`
}

type report struct {
	Matches []matchSummary `yaml:"matches"`
	Totals  scoreLine      `yaml:"totals"`
}

func main() {
	flags := pflag.NewFlagSet("matchsim", pflag.ExitOnError)
	cfgPath := flags.String("config", "", "path to a json, yaml or toml config file")
	runs := flags.Int("runs", 1, "number of matches to simulate")
	flags.String("difficulty", "medium", "opponent difficulty: easy|medium|hard")
	flags.String("teamDifficulty", "medium", "self team difficulty: easy|medium|hard")
	flags.Uint64("seed", 1, "seed of the first match; later matches increment it")
	flags.Int("match.durationSec", 300, "match length in simulated seconds")
	flags.Int("tickRate", 60, "simulation steps per simulated second")
	_ = flags.Parse(os.Args[1:])

	log := logger.New("matchsim")
	if err := config.Load(*cfgPath); err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if err := viper.BindPFlags(flags); err != nil {
		log.Fatal().Err(err).Msg("binding flags")
	}
	settings := config.Current(log)
	logger.SetLevel(settings.LogLevel)
	if settings.MatchDuration <= 0 {
		log.Fatal().Dur("duration", settings.MatchDuration).Msg("match duration must be positive")
	}
	params, err := config.Tuning()
	if err != nil {
		log.Fatal().Err(err).Msg("tuning")
	}

	var out report
	for i := range max(*runs, 1) {
		s := runMatch(params, settings, settings.Seed+uint64(i), log)
		out.Totals.Self += s.Score.Self
		out.Totals.Opponent += s.Score.Opponent
		out.Matches = append(out.Matches, s)
	}
	if err := writeReport(os.Stdout, out); err != nil {
		log.Fatal().Err(err).Msg("writing report")
	}
}

func runMatch(params tuning.Params, settings config.Settings, seed uint64, log logger.Logger) matchSummary {
	matchID := uuid.NewString()
	store := telemetry.NewStore(telemetry.DefaultCapacity)
	w := simulation.NewWorld(matchID, settings.MatchDuration, simulation.Config{
		Params:             params,
		SelfDifficulty:     settings.TeamDifficulty,
		OpponentDifficulty: settings.Difficulty,
		Seed:               seed,
		MaxFrameDelta:      settings.MaxFrameDelta,
		Celebration:        settings.Celebration,
	}, log, simulation.WithSink(telemetry.MatchSink{MatchID: matchID, Store: store, Log: log}))

	dt := 1.0 / float64(settings.TickRate)
	held := map[string]int{}
	owned := 0
	start := time.Now()
	for !w.Finished() {
		w.Tick(dt)
		state := w.Snapshot()
		if state.Ball.Owner >= 0 {
			held[state.Actors[state.Ball.Owner].Team]++
			owned++
		}
	}

	final := w.Snapshot()
	possession := map[string]float64{}
	for team, n := range held {
		possession[team] = float64(n) / float64(max(owned, 1))
	}
	return matchSummary{
		MatchID:      matchID,
		Seed:         seed,
		Self:         settings.TeamDifficulty.String(),
		Opponent:     settings.Difficulty.String(),
		Score:        scoreLine{Self: final.Score.Self, Opponent: final.Score.Opponent},
		Ticks:        final.Tick,
		SimulatedSec: w.Elapsed(),
		WallMS:       time.Since(start).Milliseconds(),
		Possession:   possession,
		Events:       store.Summary().ByType,
	}
}

func writeReport(w io.Writer, r report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}
