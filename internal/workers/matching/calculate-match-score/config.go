// internal/workers/matching/calculate-match-score/config.go
package calculatematchscore

import "time"

type Config struct {
	ProfileCacheTTL time.Duration
	EventCacheTTL   time.Duration
	Timeout         time.Duration
}

func LoadConfig() *Config {
	return &Config{
		ProfileCacheTTL: 10 * time.Minute,
		EventCacheTTL:   5 * time.Minute,
		Timeout:         30 * time.Second,
	}
}
