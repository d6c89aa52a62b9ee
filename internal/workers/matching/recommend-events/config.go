package recommendevents

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled         bool          `mapstructure:"enabled"`
	MaxJobsActive   int           `mapstructure:"max_jobs_active"`
	Timeout         time.Duration `mapstructure:"timeout"`
	EventIndex      string        `mapstructure:"event_index"`
	MaxResults      int           `mapstructure:"max_results"`
	DefaultMinScore int           `mapstructure:"default_min_score"`
	ProfileCacheTTL time.Duration `mapstructure:"profile_cache_ttl"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		MaxJobsActive:   5,
		Timeout:         30 * time.Second,
		EventIndex:      "events",
		MaxResults:      20,
		DefaultMinScore: 40,
		ProfileCacheTTL: 10 * time.Minute,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.EventIndex == "" {
		return fmt.Errorf("event_index is required")
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("max_results must be positive")
	}
	return nil
}
