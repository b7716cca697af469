package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "MODEL_BACKEND", "SAMPLE_COUNT", "SERIALIZE_BACKEND", "MODEL_TIMEOUT", "DATABASE_URL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "ollama", cfg.ModelBackend)
	assert.Equal(t, 9, cfg.SampleCount)
	assert.True(t, cfg.SerializeBackend)
	assert.Equal(t, 2*time.Minute, cfg.ModelTimeout)
	assert.Empty(t, cfg.DatabaseURL)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GO_ENV", "production")
	t.Setenv("MODEL_BACKEND", "OpenAI")
	t.Setenv("SAMPLE_COUNT", "3")
	t.Setenv("SAMPLE_PARALLELISM", "4")
	t.Setenv("SERIALIZE_BACKEND", "false")
	t.Setenv("BREAKER_TIMEOUT", "5s")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "openai", cfg.ModelBackend)
	assert.Equal(t, 3, cfg.SampleCount)
	assert.Equal(t, 4, cfg.SampleParallelism)
	assert.False(t, cfg.SerializeBackend)
	assert.Equal(t, 5*time.Second, cfg.BreakerTimeout)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("SAMPLE_COUNT", "many")
	t.Setenv("CACHE_TTL", "soon")

	cfg := Load()

	assert.Equal(t, 9, cfg.SampleCount)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
}
