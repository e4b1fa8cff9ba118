// Package config loads server settings from the environment (and .env).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	LogLevel      string
	Env           string
	DBPath        string
	PuzzlesDir    string // optional; *.json daily puzzles imported at startup
	JWTSecret     string
	ClientOrigin  string
	HintCacheSize int
}

// Local reports whether the server runs in the local development
// environment.
func (c *Config) Local() bool { return strings.EqualFold(c.Env, "local") }

func Load() (*Config, error) {
	_ = godotenv.Load()

	cacheSize, err := envInt("HINT_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}
	return &Config{
		Port:          strings.TrimPrefix(getEnv("PORT", "5175"), ":"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		Env:           getEnv("APP_ENV", "local"),
		DBPath:        getEnv("DB_PATH", "./data/brainburst.db"),
		PuzzlesDir:    getEnv("PUZZLES_DIR", ""),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		HintCacheSize: cacheSize,
	}, nil
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(k))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s: want a positive integer, got %q", k, raw)
	}
	return v, nil
}
