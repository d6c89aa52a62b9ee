// internal/workers/infrastructure/check-event-capacity/models.go
package checkeventcapacity

type Input struct {
	EventID string `json:"eventId"`
}

type Capacity struct {
	EventID           string `json:"eventId"`
	MaxVolunteers     int    `json:"maxVolunteers"`
	CurrentVolunteers int    `json:"currentVolunteers"`
}

type Output struct {
	EventID    string `json:"eventId"`
	OpenSlots  int    `json:"openSlots"`
	AtCapacity bool   `json:"atCapacity"`
	Message    string `json:"message,omitempty"`
}
