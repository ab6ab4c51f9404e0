package pitch

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestGoalScoredBallAtRestOnGoalLine(t *testing.T) {
	p := Default()

	side, ok := p.GoalScored(mgl64.Vec3{p.HalfLength, 0.4, p.GoalHalfWidth - 0.5})
	assert.True(t, ok)
	assert.Equal(t, East, side)

	side, ok = p.GoalScored(mgl64.Vec3{-p.HalfLength, 0.4, 0})
	assert.True(t, ok)
	assert.Equal(t, West, side)
}

func TestGoalScoredRejectsWideHighAndShort(t *testing.T) {
	p := Default()
	for name, pos := range map[string]mgl64.Vec3{
		"wide":  {p.HalfLength + 0.2, 0.4, p.GoalHalfWidth + 0.1},
		"high":  {p.HalfLength + 0.2, p.GoalHeight + 0.1, 0},
		"short": {p.HalfLength - 0.01, 0.4, 0},
	} {
		_, ok := p.GoalScored(pos)
		assert.False(t, ok, name)
	}
}

func TestClampActorKeepsFieldRectangle(t *testing.T) {
	p := Default()
	pos, clamped := p.ClampActor(mgl64.Vec3{80, 0, -50}, 0.5)
	assert.True(t, clamped)
	assert.InDelta(t, p.HalfLength-0.5, pos[0], 1e-9)
	assert.InDelta(t, -(p.HalfWidth - 0.5), pos[2], 1e-9)
	assert.True(t, p.Contains(pos, 0.5))
}

func TestClampActorAllowsGoalMouthEntry(t *testing.T) {
	p := Default()
	pos, _ := p.ClampActor(mgl64.Vec3{p.HalfLength + 1.5, 0, 1}, 0.5)
	assert.InDelta(t, p.HalfLength+1.5, pos[0], 1e-9)

	pos, clamped := p.ClampActor(mgl64.Vec3{p.HalfLength + 10, 0, 1}, 0.5)
	assert.True(t, clamped)
	assert.InDelta(t, p.HalfLength+p.GoalDepth-0.5, pos[0], 1e-9)
	assert.True(t, p.Contains(pos, 0.5))
}

func TestInPenaltyArea(t *testing.T) {
	p := Default()
	assert.True(t, p.InPenaltyArea(mgl64.Vec3{-45, 0, 3}, West))
	assert.False(t, p.InPenaltyArea(mgl64.Vec3{-30, 0, 3}, West))
	assert.True(t, p.InPenaltyArea(mgl64.Vec3{40, 0, -10}, East))
	assert.False(t, p.InPenaltyArea(mgl64.Vec3{40, 0, -10}, West))
}

func TestHalfOf(t *testing.T) {
	p := Default()
	assert.Equal(t, West, p.HalfOf(-0.01))
	assert.Equal(t, East, p.HalfOf(0))
	assert.Equal(t, East, p.HalfOf(p.HalfLength))
}
