package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/go-line-processor/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LINEPROC_LOG_LEVEL", "debug")
	t.Setenv("LINEPROC_LOG_DEV", "true")
	t.Setenv("LINEPROC_FLUSH_TAIL", "true")
	t.Setenv("LINEPROC_GRAPH_FILE", "pipeline.dot")
	t.Setenv("LINEPROC_METRICS_FILE", "lineproc.prom")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, &config.Config{
		LogLevel:       "debug",
		LogDevelopment: true,
		FlushTail:      true,
		GraphFile:      "pipeline.dot",
		MetricsFile:    "lineproc.prom",
	}, cfg)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("LINEPROC_FLUSH_TAIL", "maybe")

	_, err := config.Load()
	require.Error(t, err)
}
