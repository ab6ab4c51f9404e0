package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luketas/soccer-ai/internal/tuning"
)

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(""))

	s := Current(zerolog.Nop())
	assert.Equal(t, "info", s.LogLevel)
	assert.Equal(t, tuning.Medium, s.Difficulty)
	assert.Equal(t, tuning.Medium, s.TeamDifficulty)
	assert.False(t, s.HumanControl)
	assert.EqualValues(t, 1, s.Seed)
	assert.Equal(t, 60, s.TickRate)
	assert.InDelta(t, 0.1, s.MaxFrameDelta, 1e-12)
	assert.Equal(t, ":9003", s.ServerAddr)
	assert.Equal(t, 30, s.BroadcastRate)
	assert.Equal(t, 5*time.Minute, s.MatchDuration)
	assert.Equal(t, 3*time.Second, s.Celebration)
}

func TestLoad_WithYAMLFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	cfg := `
difficulty: hard
humanControl: true
match:
  durationSec: 90
  celebrationSec: 1.5
tuning:
  tackle:
    baseRate: 0.5
  ai:
    shootRange: 22
`
	path := filepath.Join(dir, "soccer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	require.NoError(t, Load(path))

	s := Current(zerolog.Nop())
	assert.Equal(t, tuning.Hard, s.Difficulty)
	assert.True(t, s.HumanControl)
	assert.Equal(t, 90*time.Second, s.MatchDuration)
	assert.Equal(t, 1500*time.Millisecond, s.Celebration)

	p, err := Tuning()
	require.NoError(t, err)
	def := tuning.Default()
	assert.Equal(t, 0.5, p.Tackle.BaseRate)
	assert.Equal(t, 22.0, p.AI.ShootRange)
	assert.Equal(t, def.Tackle.MaxRange, p.Tackle.MaxRange, "untouched keys keep defaults")
	assert.Equal(t, def.Contact, p.Contact)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("SOCCER_DIFFICULTY", "easy")
	t.Setenv("SOCCER_SERVER_ADDR", ":7000")
	require.NoError(t, Load(""))

	s := Current(zerolog.Nop())
	assert.Equal(t, tuning.Easy, s.Difficulty)
	assert.Equal(t, ":7000", s.ServerAddr)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)
	err := Load("/nonexistent/soccer.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestUnknownDifficultyFallsBackToMedium(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(""))
	viper.Set("difficulty", "nightmare")
	assert.Equal(t, tuning.Medium, Current(zerolog.Nop()).Difficulty)
}

func TestTuningWithoutOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(""))
	p, err := Tuning()
	require.NoError(t, err)
	assert.Equal(t, tuning.Default(), p)
}
