package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "user123", cfg.DefaultUserID)
	assert.True(t, cfg.UseMemoryQueue)
	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, "rules", cfg.ClassifierMode)
	assert.Equal(t, 10*time.Second, cfg.ClassifierTimeout)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CLASSIFIER_MODE", "HTTP")
	t.Setenv("CLASSIFIER_TIMEOUT", "2s")
	t.Setenv("USE_MEMORY_QUEUE", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CHAT_RATE_PER_SECOND", "2.5")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http", cfg.ClassifierMode)
	assert.Equal(t, 2*time.Second, cfg.ClassifierTimeout)
	assert.False(t, cfg.UseMemoryQueue)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 2.5, cfg.ChatRatePerSecond)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("WORKER_COUNT", "lots")
	t.Setenv("CLASSIFIER_TIMEOUT", "soon")
	t.Setenv("REDIS_TLS", "yep")

	cfg := Load()

	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, 10*time.Second, cfg.ClassifierTimeout)
	assert.False(t, cfg.RedisTLS)
}
