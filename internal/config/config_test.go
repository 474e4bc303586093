package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	require.Equal(t, 3000, cfg.Port)
	require.Equal(t, 10, cfg.MaxSessions)
	require.Equal(t, 50, cfg.MaxPlayers)
	require.Equal(t, 20, cfg.QuestionTimeSec)
	require.Equal(t, 120, cfg.ReconnectTimeout)
	require.Empty(t, cfg.StaticDir)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("MAX_SESSIONS", "3")
	t.Setenv("MAX_PLAYERS", "5")
	t.Setenv("QUESTION_TIME_SEC", "30")
	t.Setenv("RECONNECT_TIMEOUT", "60")
	t.Setenv("STATIC_DIR", "/srv/static")

	cfg := Load()
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, 3, cfg.MaxSessions)
	require.Equal(t, 5, cfg.MaxPlayers)
	require.Equal(t, 30, cfg.QuestionTimeSec)
	require.Equal(t, 60, cfg.ReconnectTimeout)
	require.Equal(t, "/srv/static", cfg.StaticDir)
}
