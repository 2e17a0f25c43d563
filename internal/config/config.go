// Package config loads the lineproc settings from the environment.
package config

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Prefix is prepended to every environment variable, e.g. LINEPROC_LOG_LEVEL.
const Prefix = "lineproc"

// Config holds the lineproc configuration.
type Config struct {
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
	LogDevelopment bool   `envconfig:"LOG_DEV" default:"false"`
	// FlushTail writes the last partial record on end of stream instead of dropping it.
	FlushTail bool `envconfig:"FLUSH_TAIL" default:"false"`
	// GraphFile is where the DOT graph of the run is written. Empty disables it.
	GraphFile string `envconfig:"GRAPH_FILE"`
	// MetricsFile is where the Prometheus text exposition is written. Empty disables it.
	MetricsFile string `envconfig:"METRICS_FILE"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config

	err := envconfig.Process(Prefix, &cfg)
	if err != nil {
		return nil, errors.Wrap(err, "unable to load config")
	}

	return &cfg, nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
	}
}
