package optimizeassignments

import "time"

type Config struct {
	EventCacheTTL time.Duration
	Timeout       time.Duration
}

func LoadConfig() *Config {
	return &Config{
		EventCacheTTL: 5 * time.Minute,
		Timeout:       30 * time.Second,
	}
}
