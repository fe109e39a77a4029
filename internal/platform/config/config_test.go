package config

import (
	"testing"

	"github.com/SscSPs/bookkeeping_engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SEQUENCE_BACKEND", "")
	t.Setenv("SEQUENCE_CEILING", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, SequenceBackendPostgres, cfg.SequenceBackend)
	assert.Equal(t, domain.DefaultSequenceCeiling, cfg.SequenceCeiling)
	assert.NotEmpty(t, cfg.Port)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SEQUENCE_BACKEND", " Redis ")
	t.Setenv("SEQUENCE_CEILING", "99999")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,,")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, SequenceBackendRedis, cfg.SequenceBackend)
	assert.Equal(t, int64(99999), cfg.SequenceCeiling)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("SEQUENCE_BACKEND", "etcd")
	t.Setenv("SEQUENCE_CEILING", "-5")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, SequenceBackendPostgres, cfg.SequenceBackend)
	assert.Equal(t, domain.DefaultSequenceCeiling, cfg.SequenceCeiling)
}
