package ai

import (
	"github.com/rs/zerolog"

	"github.com/luketas/soccer-ai/internal/geom"
	"github.com/luketas/soccer-ai/internal/physics"
	"github.com/luketas/soccer-ai/internal/pitch"
	"github.com/luketas/soccer-ai/internal/tuning"
)

// Team runs the strategy layer, the per-actor FSMs and the goalkeeper for
// one side.
type Team struct {
	Side     physics.Team
	Strategy *Strategy

	cfg     tuning.AI
	roles   tuning.RoleTable
	profile tuning.Profile
	pitch   pitch.Pitch
	agents  []*Agent
	keeper  *Keeper
	log     zerolog.Logger
}

// NewTeam wires AI agents to the actors of side.
func NewTeam(side physics.Team, roster physics.Roster, p tuning.Params, prof tuning.Profile, log zerolog.Logger) *Team {
	t := &Team{
		Side:     side,
		Strategy: NewStrategy(side, p.AI),
		cfg:      p.AI,
		roles:    p.Roles,
		profile:  prof,
		pitch:    p.Pitch,
		log:      log.With().Str("component", "ai").Stringer("team", side).Logger(),
	}
	counts := map[tuning.Role]int{}
	for _, a := range roster.Team(side) {
		g := &Agent{Actor: a, Index: counts[a.Role]}
		counts[a.Role]++
		t.agents = append(t.agents, g)
		if a.Role == tuning.Goalkeeper && t.keeper == nil {
			t.keeper = NewKeeper(side, p)
		}
	}
	for _, g := range t.agents {
		g.RoleCount = counts[g.Actor.Role]
	}
	return t
}

// Agents returns the team's agents in roster order.
func (t *Team) Agents() []*Agent { return t.agents }

// Agent returns the agent driving actor id, or nil.
func (t *Team) Agent(id physics.ID) *Agent {
	for _, g := range t.agents {
		if g.Actor.ID == id {
			return g
		}
	}
	return nil
}

// Reset clears strategy and agent state after a goal.
func (t *Team) Reset() {
	t.Strategy.Reset()
	for _, g := range t.agents {
		g.reset()
	}
	if t.keeper != nil {
		t.keeper.reset()
	}
}

// Update runs one AI tick: strategy first, then each agent's transitions
// and execution. Human-directed actors are skipped.
func (t *Team) Update(m *Match, dt float64) []Action {
	if t.Strategy.Update(dt, m.Roster, m.Ball) {
		t.log.Debug().Stringer("mode", t.Strategy.Mode()).Msg("strategy changed")
	}
	chaser := t.ForcedChaser(m)

	var actions []Action
	for _, g := range t.agents {
		a := g.Actor
		if a.Human {
			continue
		}
		if a.Role == tuning.Goalkeeper && t.keeper != nil {
			actions = append(actions, t.keeper.Update(m, t, g, dt)...)
			continue
		}

		g.decisionTimer -= dt
		if g.decisionTimer <= 0 {
			actions = append(actions, t.decide(m, g)...)
			g.decisionTimer = t.profile.ReactionTime * physics.Between(m.Rand, 0.7, 1.3)
		}
		t.updateLapse(m, g, dt)

		if g == chaser && !a.IsControllingBall() && g.State != MoveToBall && g.State != Intercept {
			t.chase(m, g, t.cfg.PredictionFactor)
			continue
		}
		actions = append(actions, t.execute(m, g, dt)...)
	}
	return actions
}

// ForcedChaser picks the nearest role-appropriate outfield actor within its
// role chase radius whenever the team does not hold the ball. A loose ball
// out of everyone's radius still gets the nearest outfield actor.
func (t *Team) ForcedChaser(m *Match) *Agent {
	if c := m.Ball.Controller(); c != nil && c.Team == t.Side {
		return nil
	}
	var best, nearest *Agent
	bestDist, nearestDist := 0.0, 0.0
	for _, g := range t.agents {
		a := g.Actor
		if a.Human || a.Role == tuning.Goalkeeper || a.IsDiving() {
			continue
		}
		d := geom.PlanarDist(a.Position, m.Ball.Position)
		if nearest == nil || d < nearestDist {
			nearest, nearestDist = g, d
		}
		radius := t.roles.Spec(a.Role).ChaseRadius * (0.8 + 0.4*t.profile.Aggressiveness)
		if d > radius {
			continue
		}
		if best == nil || d < bestDist {
			best, bestDist = g, d
		}
	}
	if best == nil && m.Ball.State() == physics.BallFree {
		return nearest
	}
	return best
}

// chaseRank counts teammates closer to the ball than g.
func (t *Team) chaseRank(m *Match, g *Agent) int {
	d := geom.PlanarDist(g.Actor.Position, m.Ball.Position)
	rank := 0
	for _, o := range t.agents {
		if o == g || o.Actor.Role == tuning.Goalkeeper {
			continue
		}
		if geom.PlanarDist(o.Actor.Position, m.Ball.Position) < d {
			rank++
		}
	}
	return rank
}
