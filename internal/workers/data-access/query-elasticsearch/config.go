// internal/workers/data-access/query-elasticsearch/config.go
package queryelasticsearch

import "time"

type Config struct {
	DefaultIndex string
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		DefaultIndex: "events",
		Timeout:      30 * time.Second,
	}
}
