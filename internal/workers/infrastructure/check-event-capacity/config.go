// internal/workers/infrastructure/check-event-capacity/config.go
package checkeventcapacity

import "time"

type Config struct {
	// Capacity changes quickly while proposals are in flight, so the
	// cache window is short.
	CapacityCacheTTL time.Duration
	Timeout          time.Duration
}

func LoadConfig() *Config {
	return &Config{
		CapacityCacheTTL: 30 * time.Second,
		Timeout:          10 * time.Second,
	}
}
