package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
		ok   bool
	}{
		{"debug", zerolog.DebugLevel, true},
		{" WARN ", zerolog.WarnLevel, true},
		{"error", zerolog.ErrorLevel, true},
		{"info", zerolog.InfoLevel, true},
		{"loud", zerolog.InfoLevel, false},
		{"", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseLevel(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestNewWithWriterTagsService(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })
	SetLevel("debug")

	var buf bytes.Buffer
	log := NewWithWriter("matchsim", &buf)
	log.Info().Int("tick", 3).Msg("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "matchsim", line["service"])
	assert.Equal(t, "hello", line["message"])
	assert.EqualValues(t, 3, line["tick"])
	assert.Contains(t, line, "time")
}

func TestSetLevelFiltersBelow(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })
	assert.True(t, SetLevel("warn"))

	var buf bytes.Buffer
	log := NewWithWriter("matchsim", &buf)
	log.Info().Msg("dropped")
	assert.Zero(t, buf.Len())
	log.Warn().Msg("kept")
	assert.NotZero(t, buf.Len())

	assert.False(t, SetLevel("nope"))
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
