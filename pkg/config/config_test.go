package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 15*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 1, cfg.AdminCap)
	assert.Equal(t, 2, cfg.ModeratorCap)
	assert.Equal(t, "ollama", cfg.AIProvider)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("AI_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "60")
	t.Setenv("ROLE_CAP_MODERATOR", "3")
	t.Setenv("METRICS_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 3*time.Second, cfg.AITimeout)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, 3, cfg.ModeratorCap)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("RATE_LIMIT_MAX", "lots")
	t.Setenv("AI_TIMEOUT", "soon")

	cfg := Load()

	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, 15*time.Second, cfg.AITimeout)
}
