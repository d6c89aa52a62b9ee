// internal/workers/assignment/bulk-assign/config.go
package bulkassign

import "time"

type Config struct {
	Timeout       time.Duration
	MaxCandidates int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       60 * time.Second,
		MaxCandidates: 100,
	}
}
