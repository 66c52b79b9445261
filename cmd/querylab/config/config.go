// Package config provides configuration structures for the querylab CLI.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/TFMV/querylab/pkg/client"
	"github.com/TFMV/querylab/pkg/poller"
	"github.com/TFMV/querylab/pkg/render"
)

// Config represents the CLI configuration.
type Config struct {
	// Backend settings
	BaseURL string        `yaml:"base_url" json:"base_url"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// Local state
	SessionFile string `yaml:"session_file" json:"session_file"`

	LogLevel string `yaml:"log_level" json:"log_level"`

	// Output
	Color   bool `yaml:"color" json:"color"`
	MaxRows int  `yaml:"max_rows" json:"max_rows"`

	// Sample data progress polling
	PollInterval time.Duration `yaml:"poll_interval" json:"poll_interval"`

	// Metrics configuration
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// MetricsConfig represents metrics configuration.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Address string `yaml:"address" json:"address"`
	Path    string `yaml:"path" json:"path"`
}

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate validates the configuration and fills unset values with
// defaults.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		c.BaseURL = client.DefaultBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL %q must use http or https", c.BaseURL)
	}
	if u.Host == "" {
		return fmt.Errorf("base URL %q has no host", c.BaseURL)
	}

	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}

	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if !logLevels[c.LogLevel] {
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}

	if c.MaxRows <= 0 {
		c.MaxRows = render.DefaultMaxRows
	}

	if c.PollInterval <= 0 {
		c.PollInterval = poller.DefaultInterval
	}

	if c.Metrics.Enabled {
		if c.Metrics.Address == "" {
			return fmt.Errorf("metrics address is required when metrics are enabled")
		}
		if c.Metrics.Path == "" {
			c.Metrics.Path = "/metrics"
		}
	}

	return nil
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:      client.DefaultBaseURL,
		Timeout:      60 * time.Second,
		LogLevel:     "warn",
		Color:        true,
		MaxRows:      render.DefaultMaxRows,
		PollInterval: poller.DefaultInterval,
		Metrics: MetricsConfig{
			Enabled: false,
			Address: ":9090",
			Path:    "/metrics",
		},
	}
}
