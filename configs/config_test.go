package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("PUBLISH_TIMEOUT", "")
	t.Setenv("TRIGGER_BATCH", "")

	cfg := LoadConfig()

	assert.Equal(t, 30*time.Second, cfg.PublishTimeout)
	assert.Equal(t, 100, cfg.Trigger.BatchSize)
	assert.Equal(t, "postgres", cfg.Store)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PUBLISH_TIMEOUT", "5s")
	t.Setenv("TRIGGER_CONCURRENCY", "3")
	t.Setenv("AUTO_MIGRATE", "true")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")

	cfg := LoadConfig()

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 5*time.Second, cfg.PublishTimeout)
	assert.Equal(t, 3, cfg.Trigger.Concurrency)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CorsOrigins)
}

func TestLoadConfigIgnoresMalformedValues(t *testing.T) {
	t.Setenv("FIRE_LEASE", "soon")
	t.Setenv("AI_RATE_PER_MINUTE", "many")

	cfg := LoadConfig()

	assert.Equal(t, 5*time.Minute, cfg.Trigger.Lease)
	assert.Equal(t, 20, cfg.OpenAI.RatePerMinute)
}
