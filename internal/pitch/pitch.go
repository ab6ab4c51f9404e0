// Package pitch describes the field rectangle and the two goals.
//
// The pitch is centred on the origin with its length along x and width
// along z. The Self team defends the goal at -x and attacks +x.
package pitch

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pitch holds field geometry in world units.
type Pitch struct {
	HalfLength    float64 `mapstructure:"halfLength"`
	HalfWidth     float64 `mapstructure:"halfWidth"`
	GoalHalfWidth float64 `mapstructure:"goalHalfWidth"`
	GoalHeight    float64 `mapstructure:"goalHeight"`
	GoalDepth     float64 `mapstructure:"goalDepth"`
	PostRadius    float64 `mapstructure:"postRadius"`
	PenaltyDepth  float64 `mapstructure:"penaltyDepth"`
	PenaltyWidth  float64 `mapstructure:"penaltyWidth"`
}

// Default returns the arcade pitch used by the match world.
func Default() Pitch {
	return Pitch{
		HalfLength:    50,
		HalfWidth:     32,
		GoalHalfWidth: 5,
		GoalHeight:    3.5,
		GoalDepth:     2.5,
		PostRadius:    0.15,
		PenaltyDepth:  16,
		PenaltyWidth:  20,
	}
}

// Side selects one of the two goals by the sign of its x coordinate.
type Side int

const (
	// West is the goal at -x.
	West Side = -1
	// East is the goal at +x.
	East Side = 1
)

// GoalLineX is the x coordinate of the goal line on side s.
func (p Pitch) GoalLineX(s Side) float64 {
	return float64(s) * p.HalfLength
}

// GoalCenter is the centre of the goal mouth on the ground.
func (p Pitch) GoalCenter(s Side) mgl64.Vec3 {
	return mgl64.Vec3{p.GoalLineX(s), 0, 0}
}

// Posts returns the planar positions of the two posts of goal s.
func (p Pitch) Posts(s Side) [2]mgl64.Vec3 {
	x := p.GoalLineX(s)
	return [2]mgl64.Vec3{{x, 0, -p.GoalHalfWidth}, {x, 0, p.GoalHalfWidth}}
}

// InGoalMouthWindow reports whether a planar position lies in the narrow z
// band in front of or inside either goal where end-line containment is
// relaxed.
func (p Pitch) InGoalMouthWindow(pos mgl64.Vec3, radius float64) bool {
	return math.Abs(pos[2]) < p.GoalHalfWidth-radius
}

// InsideGoal reports whether pos is behind a goal line within the net.
func (p Pitch) InsideGoal(pos mgl64.Vec3) (Side, bool) {
	if math.Abs(pos[2]) >= p.GoalHalfWidth || pos[1] >= p.GoalHeight {
		return 0, false
	}
	if pos[0] >= p.HalfLength {
		return East, true
	}
	if pos[0] <= -p.HalfLength {
		return West, true
	}
	return 0, false
}

// GoalScored is the goal-detection predicate: the ball centre is at or past
// a goal line, between the posts and under the crossbar.
func (p Pitch) GoalScored(ball mgl64.Vec3) (Side, bool) {
	return p.InsideGoal(ball)
}

// Contains reports whether a planar position satisfies the field clamp,
// including the goal-mouth exception.
func (p Pitch) Contains(pos mgl64.Vec3, radius float64) bool {
	if math.Abs(pos[2]) > p.HalfWidth-radius+1e-9 {
		return false
	}
	maxX := p.HalfLength - radius
	if p.InGoalMouthWindow(pos, 0) {
		maxX = p.HalfLength + p.GoalDepth - radius
	}
	return math.Abs(pos[0]) <= maxX+1e-9
}

// ClampActor keeps an actor inside the field rectangle. Inside the goal
// mouth band the x range is extended through the goal depth.
func (p Pitch) ClampActor(pos mgl64.Vec3, radius float64) (mgl64.Vec3, bool) {
	clamped := false
	maxZ := p.HalfWidth - radius
	if pos[2] > maxZ {
		pos[2] = maxZ
		clamped = true
	} else if pos[2] < -maxZ {
		pos[2] = -maxZ
		clamped = true
	}

	maxX := p.HalfLength - radius
	if p.InGoalMouthWindow(pos, 0) {
		maxX = p.HalfLength + p.GoalDepth - radius
		// inside the net the side netting bounds z
		if math.Abs(pos[0]) > p.HalfLength {
			gz := p.GoalHalfWidth - radius
			if pos[2] > gz {
				pos[2] = gz
				clamped = true
			} else if pos[2] < -gz {
				pos[2] = -gz
				clamped = true
			}
		}
	}
	if pos[0] > maxX {
		pos[0] = maxX
		clamped = true
	} else if pos[0] < -maxX {
		pos[0] = -maxX
		clamped = true
	}
	return pos, clamped
}

// HalfOf returns the side whose half contains x.
func (p Pitch) HalfOf(x float64) Side {
	if x < 0 {
		return West
	}
	return East
}

// InPenaltyArea reports whether pos is inside the penalty box in front of s.
func (p Pitch) InPenaltyArea(pos mgl64.Vec3, s Side) bool {
	if math.Abs(pos[2]) > p.PenaltyWidth {
		return false
	}
	depth := (p.GoalLineX(s) - pos[0]) * float64(s)
	return depth >= 0 && depth <= p.PenaltyDepth
}
