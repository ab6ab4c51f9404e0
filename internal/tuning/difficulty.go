package tuning

import (
	"fmt"
	"strings"
)

// Difficulty selects an AI profile.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
)

// DefaultDifficulty is used whenever a level cannot be parsed.
const DefaultDifficulty = Medium

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

// ParseDifficulty maps a level name onto a Difficulty. Unknown names yield
// DefaultDifficulty and ok=false so the caller can log a diagnostic.
func ParseDifficulty(s string) (Difficulty, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return Easy, true
	case "medium":
		return Medium, true
	case "hard":
		return Hard, true
	default:
		return DefaultDifficulty, false
	}
}

// Profile holds the difficulty-scaled AI tunables.
type Profile struct {
	// ReactionTime is the mean FSM decision interval in seconds.
	ReactionTime float64 `mapstructure:"reactionTime"`
	// DecisionAccuracy is the chance the FSM keeps its best option.
	DecisionAccuracy float64 `mapstructure:"decisionAccuracy"`
	PassAccuracy     float64 `mapstructure:"passAccuracy"`
	ShootAccuracy    float64 `mapstructure:"shootAccuracy"`
	// SpeedMultiplier scales every role's base speed.
	SpeedMultiplier float64 `mapstructure:"speedMultiplier"`
	// Aggressiveness scales tackle attempts and chase ranges.
	Aggressiveness float64 `mapstructure:"aggressiveness"`
	// PositioningQuality lowers the defensive lapse rate.
	PositioningQuality float64 `mapstructure:"positioningQuality"`
	// GoalkeeperReflexes scales dive decisions and save odds.
	GoalkeeperReflexes float64 `mapstructure:"goalkeeperReflexes"`
}

// Profiles is the difficulty table.
type Profiles struct {
	Easy   Profile `mapstructure:"easy"`
	Medium Profile `mapstructure:"medium"`
	Hard   Profile `mapstructure:"hard"`
}

// For returns the profile for d, falling back to medium.
func (p Profiles) For(d Difficulty) Profile {
	switch d {
	case Easy:
		return p.Easy
	case Hard:
		return p.Hard
	default:
		return p.Medium
	}
}

// DefaultProfiles returns the stock difficulty table.
func DefaultProfiles() Profiles {
	return Profiles{
		Easy: Profile{
			ReactionTime: 0.6, DecisionAccuracy: 0.6, PassAccuracy: 0.65, ShootAccuracy: 0.55,
			SpeedMultiplier: 0.85, Aggressiveness: 0.4, PositioningQuality: 0.6, GoalkeeperReflexes: 0.5,
		},
		Medium: Profile{
			ReactionTime: 0.4, DecisionAccuracy: 0.75, PassAccuracy: 0.8, ShootAccuracy: 0.7,
			SpeedMultiplier: 0.95, Aggressiveness: 0.6, PositioningQuality: 0.75, GoalkeeperReflexes: 0.7,
		},
		Hard: Profile{
			ReactionTime: 0.25, DecisionAccuracy: 0.9, PassAccuracy: 0.92, ShootAccuracy: 0.85,
			SpeedMultiplier: 1.05, Aggressiveness: 0.8, PositioningQuality: 0.9, GoalkeeperReflexes: 0.88,
		},
	}
}
