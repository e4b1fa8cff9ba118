package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "APP_ENV", "DB_PATH", "PUZZLES_DIR", "JWT_SECRET", "CLIENT_ORIGIN", "HINT_CACHE_SIZE"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5175", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.Local())
	assert.Equal(t, "./data/brainburst.db", cfg.DBPath)
	assert.Equal(t, 256, cfg.HintCacheSize)
	assert.Empty(t, cfg.PuzzlesDir)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", ":8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("HINT_CACHE_SIZE", "32")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PUZZLES_DIR", "./puzzles")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.Local())
	assert.Equal(t, 32, cfg.HintCacheSize)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, "./puzzles", cfg.PuzzlesDir)
}

func TestLoadRejectsBadCacheSize(t *testing.T) {
	t.Setenv("HINT_CACHE_SIZE", "lots")
	_, err := Load()
	assert.Error(t, err)
}
