// Package config loads match settings and tuning overrides through viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/luketas/soccer-ai/internal/tuning"
)

// EnvPrefix namespaces environment overrides, e.g. SOCCER_DIFFICULTY.
const EnvPrefix = "SOCCER"

// Settings are the resolved non-tuning options.
type Settings struct {
	LogLevel       string
	Difficulty     tuning.Difficulty
	TeamDifficulty tuning.Difficulty
	HumanControl   bool
	Seed           uint64
	TickRate       int
	MaxFrameDelta  float64
	ServerAddr     string
	BroadcastRate  int
	MatchDuration  time.Duration
	Celebration    time.Duration
}

// SetDefaults registers every key with its default value.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("difficulty", "medium")
	viper.SetDefault("teamDifficulty", "medium")
	viper.SetDefault("humanControl", false)
	viper.SetDefault("seed", 1)
	viper.SetDefault("tickRate", 60)
	viper.SetDefault("maxFrameDelta", 0.1)

	viper.SetDefault("server.addr", ":9003")
	viper.SetDefault("server.broadcastRate", 30)

	viper.SetDefault("match.durationSec", 300)
	viper.SetDefault("match.celebrationSec", 3)
}

// Load sets defaults, enables SOCCER_* environment overrides and, when
// path is non-empty, reads that config file (json, yaml or toml by
// extension).
func Load(path string) error {
	SetDefaults()
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path == "" {
		return nil
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// Current resolves Settings from viper. Unknown difficulty names fall back
// to medium with a warning.
func Current(log zerolog.Logger) Settings {
	return Settings{
		LogLevel:       viper.GetString("logLevel"),
		Difficulty:     difficulty("difficulty", log),
		TeamDifficulty: difficulty("teamDifficulty", log),
		HumanControl:   viper.GetBool("humanControl"),
		Seed:           viper.GetUint64("seed"),
		TickRate:       max(viper.GetInt("tickRate"), 1),
		MaxFrameDelta:  viper.GetFloat64("maxFrameDelta"),
		ServerAddr:     viper.GetString("server.addr"),
		BroadcastRate:  max(viper.GetInt("server.broadcastRate"), 1),
		MatchDuration:  time.Duration(viper.GetInt("match.durationSec")) * time.Second,
		Celebration:    time.Duration(viper.GetFloat64("match.celebrationSec") * float64(time.Second)),
	}
}

func difficulty(key string, log zerolog.Logger) tuning.Difficulty {
	raw := viper.GetString(key)
	d, ok := tuning.ParseDifficulty(raw)
	if !ok {
		log.Warn().Str("key", key).Str("value", raw).Stringer("fallback", d).Msg("unknown difficulty")
	}
	return d
}

// Tuning returns the stock tuning with any tuning.* keys applied on top.
func Tuning() (tuning.Params, error) {
	p := tuning.Default()
	if !viper.IsSet("tuning") {
		return p, nil
	}
	if err := viper.UnmarshalKey("tuning", &p); err != nil {
		return p, fmt.Errorf("decoding tuning overrides: %w", err)
	}
	return p, nil
}
