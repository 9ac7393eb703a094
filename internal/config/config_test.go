package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.Migrate)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("APP_MIGRATE", "true")

	cfg := Load()
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.True(t, cfg.Migrate)
}

func TestParseDurationFallback(t *testing.T) {
	assert.Equal(t, time.Hour, parseDuration("nonsense", time.Hour))
	assert.Equal(t, 5*time.Second, parseDuration("5s", time.Hour))
}
