package simulation

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/luketas/soccer-ai/internal/ai"
	"github.com/luketas/soccer-ai/internal/contact"
	"github.com/luketas/soccer-ai/internal/physics"
	"github.com/luketas/soccer-ai/internal/shared/types"
	"github.com/luketas/soccer-ai/internal/tuning"
)

// DefaultMaxFrameDelta caps a single step so a stalled frame cannot
// tunnel bodies through the boundaries.
const DefaultMaxFrameDelta = 0.1

// Config selects tuning, difficulty and control for a new match.
type Config struct {
	Params             tuning.Params
	SelfDifficulty     tuning.Difficulty
	OpponentDifficulty tuning.Difficulty
	// HumanControl hands one Self actor to ApplyInput.
	HumanControl  bool
	Seed          uint64
	MaxFrameDelta float64
	Celebration   time.Duration
}

// DefaultConfig is an AI-vs-AI medium match.
func DefaultConfig() Config {
	return Config{
		Params:             tuning.Default(),
		SelfDifficulty:     tuning.Medium,
		OpponentDifficulty: tuning.Medium,
		Seed:               1,
		MaxFrameDelta:      DefaultMaxFrameDelta,
		Celebration:        3 * time.Second,
	}
}

// EventSink receives gameplay events as they happen. Emit must not block.
type EventSink interface {
	Emit(ev types.GameplayEvent)
}

// Option customizes a World.
type Option func(*World)

// WithSink forwards every gameplay event to s.
func WithSink(s EventSink) Option {
	return func(w *World) { w.sink = s }
}

// WithGoalCallback registers fn to run after each goal, under the world
// lock.
func WithGoalCallback(fn func(scorer physics.Team)) Option {
	return func(w *World) { w.onGoal = fn }
}

// WithRand replaces the seeded random source.
func WithRand(r physics.Rand) Option {
	return func(w *World) { w.rng = r }
}

type triggers struct {
	pass, shoot, swap bool
}

// World is the authoritative match state: roster, ball, both AI teams,
// human control and match rules.
type World struct {
	mu     sync.RWMutex
	params tuning.Params
	log    zerolog.Logger
	rng    physics.Rand

	roster  physics.Roster
	ball    *physics.Ball
	kin     *physics.Kinematics
	contact *contact.Resolver
	tackler *contact.Tackler
	teams   [2]*ai.Team

	state         types.MatchState
	now           float64
	maxFrameDelta float64

	humanControl bool
	active       physics.ID
	input        types.HumanInput
	pending      triggers

	celebration    float64
	celebrationDur float64
	kickoffTeam    physics.Team
	lastOwner      physics.ID
	shotBy         physics.ID

	sink    EventSink
	onGoal  func(scorer physics.Team)
	metrics *metrics
}

// NewWorld creates a match with both teams in kickoff positions.
func NewWorld(matchID string, duration time.Duration, cfg Config, log zerolog.Logger, opts ...Option) *World {
	p := cfg.Params
	if cfg.MaxFrameDelta <= 0 {
		cfg.MaxFrameDelta = DefaultMaxFrameDelta
	}

	w := &World{
		params:         p,
		log:            log.With().Str("component", "world").Str("match", matchID).Logger(),
		rng:            physics.NewRand(cfg.Seed),
		kin:            physics.NewKinematics(p.Kinematics, p.Pitch),
		tackler:        contact.NewTackler(p),
		maxFrameDelta:  cfg.MaxFrameDelta,
		humanControl:   cfg.HumanControl,
		active:         physics.NoActor,
		celebrationDur: cfg.Celebration.Seconds(),
		lastOwner:      physics.NoActor,
		shotBy:         physics.NoActor,
	}
	w.contact = contact.NewResolver(p, w.log)
	w.roster = spawnRoster(p, cfg)
	w.ball = physics.NewBall(p, w.roster)

	w.teams[physics.Self] = ai.NewTeam(physics.Self, w.roster, p, p.Profiles.For(cfg.SelfDifficulty), w.log)
	w.teams[physics.Opponent] = ai.NewTeam(physics.Opponent, w.roster, p, p.Profiles.For(cfg.OpponentDifficulty), w.log)

	for _, opt := range opts {
		opt(w)
	}
	w.metrics = newMetrics(w.log)

	w.state = types.MatchState{
		MatchID:   matchID,
		CreatedAt: time.Now().UTC(),
		Score:     types.ScoreState{TimeRemainingMS: int(duration.Milliseconds())},
	}
	w.kickoff(physics.Self)
	return w
}

// Tick advances the match by dt seconds, capped at the max frame delta.
// Order: timers, celebration, team AI, human control, actor integration,
// contact, ball, rules.
func (w *World) Tick(dt float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dt <= 0 {
		return
	}
	if dt > w.maxFrameDelta {
		dt = w.maxFrameDelta
	}
	w.state.Tick++
	w.state.Events = w.state.Events[:0]
	w.metrics.ticks.Add(context.Background(), 1)
	if w.state.Finished {
		return
	}
	w.now += dt
	for _, a := range w.roster {
		a.Tick(dt)
	}
	if w.advanceClock(dt) {
		return
	}

	if w.celebration > 0 {
		w.celebration -= dt
		w.ball.Update(dt, w.rng)
		if w.celebration <= 0 {
			w.kickoff(w.kickoffTeam)
		}
		return
	}

	m := w.match()
	for _, t := range w.teams {
		w.handleActions(t.Update(m, dt))
	}
	w.stepHuman()

	for _, a := range w.roster {
		w.kin.Integrate(a, dt)
	}
	w.contact.Resolve(w.roster, w.ball, w.active, w.now, w.rng)
	hit := w.ball.Update(dt, w.rng)

	w.applyRules(hit)
	if w.ball.EnforceExclusivity() {
		w.log.Error().Uint64("tick", w.state.Tick).Msg("possession invariant repaired")
	}
	w.trackPossession()
}

func (w *World) match() *ai.Match {
	return &ai.Match{
		Roster:  w.roster,
		Ball:    w.ball,
		Kin:     w.kin,
		Tackler: w.tackler,
		Now:     w.now,
		Rand:    w.rng,
	}
}

// SetFrozen sets the ball's frozen flag from outside the rules shell.
func (w *World) SetFrozen(frozen bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if frozen {
		w.ball.Freeze()
		return
	}
	w.ball.Frozen = false
}

// ActiveActor is the human-controlled actor, or physics.NoActor.
func (w *World) ActiveActor() physics.ID {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.active
}

// Elapsed is the simulated match time in seconds.
func (w *World) Elapsed() float64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.now
}

// Finished reports whether the match clock has run out.
func (w *World) Finished() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state.Finished
}
