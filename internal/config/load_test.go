package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorplex-labs/cci/internal/cci"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "low", cfg.Level)
	assert.Equal(t, 1, cfg.Components)
	assert.Equal(t, "raw", cfg.Strategy)
	assert.Equal(t, "Cichy_s", cfg.SubjectPrefix)
	assert.Equal(t, 8888, cfg.Port)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryWait)
	assert.Empty(t, cfg.RedisHost)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CCI_LEVEL", "mid")
	t.Setenv("CCI_WORKERS", "4")
	t.Setenv("CCI_STRATEGY", "projected")
	t.Setenv("CCI_STRICT_BASELINE", "true")
	t.Setenv("REDIS_HOST", "cache")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "mid", cfg.Level)
	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.StrictBaseline)
	assert.Equal(t, "cache", cfg.RedisHost)

	opts, err := cfg.CCIEnvConfig.Options()
	require.NoError(t, err)

	o := cci.NewOrchestrator(opts...)
	assert.Equal(t, cci.MidBoundaries, o.Boundaries)
	assert.Equal(t, 4, o.Aligner.Workers)
	assert.Equal(t, cci.ProjectedVariance, o.Aligner.Strategy)
	assert.True(t, o.Aligner.StrictBaseline)
}

func TestOptionsRejectsInvalidValues(t *testing.T) {
	tests := []CCIEnvConfig{
		{Level: "finest", Components: 1, Strategy: "raw"},
		{Level: "low", Components: 1, Strategy: "aligned"},
		{Level: "low", Components: 0, Strategy: "raw"},
	}
	for _, c := range tests {
		_, err := c.Options()
		assert.Error(t, err, "%+v", c)
	}
}

func TestLoadConfigInvalidEnv(t *testing.T) {
	t.Setenv("CCI_WORKERS", "many")
	_, err := LoadConfig()
	assert.Error(t, err)
}
