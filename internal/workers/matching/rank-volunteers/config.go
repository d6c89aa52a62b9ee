// internal/workers/matching/rank-volunteers/config.go
package rankvolunteers

import "time"

type Config struct {
	MaxItems int
	Timeout  time.Duration
}

func LoadConfig() *Config {
	return &Config{
		MaxItems: 100,
		Timeout:  30 * time.Second,
	}
}
