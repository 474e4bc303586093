// Package config loads server settings from the environment.
package config

import "github.com/spf13/viper"

type Config struct {
	Port             int
	MaxSessions      int
	MaxPlayers       int
	QuestionTimeSec  int
	ReconnectTimeout int
	StaticDir        string
}

// Load reads configuration from environment variables, falling back to the
// documented defaults.
func Load() *Config {
	v := viper.New()

	v.SetDefault("PORT", 3000)
	v.SetDefault("MAX_SESSIONS", 10)
	v.SetDefault("MAX_PLAYERS", 50)
	v.SetDefault("QUESTION_TIME_SEC", 20)
	v.SetDefault("RECONNECT_TIMEOUT", 120)
	v.SetDefault("STATIC_DIR", "")

	for _, key := range []string{
		"PORT",
		"MAX_SESSIONS",
		"MAX_PLAYERS",
		"QUESTION_TIME_SEC",
		"RECONNECT_TIMEOUT",
		"STATIC_DIR",
	} {
		_ = v.BindEnv(key)
	}

	return &Config{
		Port:             v.GetInt("PORT"),
		MaxSessions:      v.GetInt("MAX_SESSIONS"),
		MaxPlayers:       v.GetInt("MAX_PLAYERS"),
		QuestionTimeSec:  v.GetInt("QUESTION_TIME_SEC"),
		ReconnectTimeout: v.GetInt("RECONNECT_TIMEOUT"),
		StaticDir:        v.GetString("STATIC_DIR"),
	}
}
