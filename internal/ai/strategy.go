package ai

import (
	"github.com/luketas/soccer-ai/internal/geom"
	"github.com/luketas/soccer-ai/internal/physics"
	"github.com/luketas/soccer-ai/internal/tuning"
)

// Mode is the binary team strategy.
type Mode int

const (
	Defending Mode = iota
	Attacking
)

func (m Mode) String() string {
	if m == Attacking {
		return "attack"
	}
	return "defend"
}

// Strategy aggregates possession evidence into Attack or Defend. It is
// re-evaluated on a fixed interval and switches with hysteresis.
type Strategy struct {
	team physics.Team
	cfg  tuning.AI

	mode     Mode
	timer    float64
	evidence float64
	lastOwn  bool
}

// NewStrategy starts in Defend with an immediate first evaluation.
func NewStrategy(team physics.Team, cfg tuning.AI) *Strategy {
	return &Strategy{team: team, cfg: cfg}
}

// Mode returns the current mode.
func (s *Strategy) Mode() Mode { return s.mode }

// IsAttacking reports the attack flag. It is never set together with
// IsDefending.
func (s *Strategy) IsAttacking() bool { return s.mode == Attacking }

// IsDefending reports the defend flag.
func (s *Strategy) IsDefending() bool { return s.mode == Defending }

// Evidence exposes the accumulator.
func (s *Strategy) Evidence() float64 { return s.evidence }

// Reset returns to Defend with an empty accumulator.
func (s *Strategy) Reset() {
	s.mode = Defending
	s.timer = 0
	s.evidence = 0
	s.lastOwn = false
}

// Update counts down the evaluation timer and reports whether the mode
// changed on this call.
func (s *Strategy) Update(dt float64, roster physics.Roster, ball *physics.Ball) bool {
	s.timer -= dt
	if s.timer > 0 {
		return false
	}
	s.timer = s.cfg.StrategyInterval
	return s.evaluate(roster, ball)
}

func (s *Strategy) evaluate(roster physics.Roster, ball *physics.Ball) bool {
	sign := float64(s.team.AttackSide())
	inAttackHalf := ball.Position[0]*sign > 0

	var ev float64
	own := false
	if c := ball.Controller(); c != nil {
		if c.Team == s.team {
			own = true
			ev = 1
			// winning the ball with few opponents goal-side is a counter-attack
			if !s.lastOwn && goalSideOpponents(roster, s.team, ball) <= 2 {
				ev += s.cfg.AttackThreshold
			}
		} else {
			ev = -1
		}
	} else {
		ev = -0.25
		if inAttackHalf {
			ev = 0.25
		}
		mate, md := roster.Nearest(s.team, ball.Position, physics.NoActor)
		opp, od := roster.Nearest(s.team.Other(), ball.Position, physics.NoActor)
		if mate != nil && (opp == nil || md < od) {
			ev += 0.25
		}
	}
	s.lastOwn = own
	s.evidence = geom.Clamp(s.evidence+ev, -s.cfg.EvidenceMax, s.cfg.EvidenceMax)

	prev := s.mode
	switch s.mode {
	case Defending:
		if s.evidence >= s.cfg.AttackThreshold {
			s.mode = Attacking
		}
	case Attacking:
		if s.evidence <= s.cfg.DefendThreshold {
			s.mode = Defending
		}
	}
	return s.mode != prev
}

// goalSideOpponents counts opponents between the ball and the goal team
// attacks.
func goalSideOpponents(roster physics.Roster, team physics.Team, ball *physics.Ball) int {
	sign := float64(team.AttackSide())
	n := 0
	for _, a := range roster {
		if a.Team != team && (a.Position[0]-ball.Position[0])*sign > 0 {
			n++
		}
	}
	return n
}
