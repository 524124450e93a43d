package config

import (
	"maps"
	"strings"
	"time"
)

const (
	defaultMetricsPrefix      = "lpwan_console"
	defaultMetricsDialTimeout = 2 * time.Second
)

// ObservabilityConfig groups the metrics settings.
type ObservabilityConfig struct {
	Metrics ObservabilityMetricsConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
}

// ObservabilityMetricsConfig controls StatsD emission. Tags is a list of
// key:value pairs such as "env:prod,region:eu" added to every metric.
type ObservabilityMetricsConfig struct {
	Enabled       bool              `env:"OBSERVABILITY_METRICS_ENABLED"        envDefault:"false"`
	StatsdAddress string            `env:"OBSERVABILITY_METRICS_STATSD_ADDRESS" envDefault:"127.0.0.1:8125"`
	Prefix        string            `env:"OBSERVABILITY_METRICS_PREFIX"         envDefault:"lpwan_console"`
	Tags          map[string]string `env:"OBSERVABILITY_METRICS_TAGS"           envSeparator:"," envKeyValSeparator:":"`
	DialTimeout   time.Duration     `env:"OBSERVABILITY_METRICS_DIAL_TIMEOUT"   envDefault:"2s"`
}

// Sanitize trims values, disables emission without an address and drops
// tags with an empty key or value.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	if c.StatsdAddress == "" {
		c.Enabled = false
	}
	if c.Prefix = strings.TrimSpace(c.Prefix); c.Prefix == "" {
		c.Prefix = defaultMetricsPrefix
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = defaultMetricsDialTimeout
	}

	tags := make(map[string]string, len(c.Tags))
	for k, v := range c.Tags {
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if k != "" && v != "" {
			tags[k] = v
		}
	}
	c.Tags = tags
}

// IsEnabled reports whether metrics should be emitted.
func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}

// GlobalTags returns a copy of the configured tags.
func (c *ObservabilityMetricsConfig) GlobalTags() map[string]string {
	return maps.Clone(c.Tags)
}
