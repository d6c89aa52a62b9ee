// internal/workers/communication/send-notification/config.go
package sendnotification

import "time"

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	AWSRegion    string
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		EmailEnabled: true,
		SMSEnabled:   true,
		FromEmail:    "no-reply@volunteerhub.org",
		AWSRegion:    "us-east-1",
		Timeout:      30 * time.Second,
	}
}
