// internal/models/event.go
package models

import "time"

// Urgency levels as persisted. The matching engine normalizes case before
// comparing, since legacy rows carry lowercase values.
const (
	UrgencyLow      = "LOW"
	UrgencyMedium   = "MEDIUM"
	UrgencyHigh     = "HIGH"
	UrgencyCritical = "CRITICAL"
)

// SkillRequirement is one skill an event asks for.
type SkillRequirement struct {
	SkillID        string `json:"skillId"`
	SkillName      string `json:"skillName,omitempty"`
	MinProficiency string `json:"minProficiencyLevel"`
	IsRequired     bool   `json:"isRequired"`
}

// Event is the read-only matching input describing an event occurrence.
type Event struct {
	ID                string             `json:"id" db:"id"`
	Title             string             `json:"title" db:"title"`
	Description       string             `json:"description,omitempty" db:"description"`
	Location          *GeoPoint          `json:"location,omitempty"`
	StartTime         time.Time          `json:"startTime" db:"start_time"`
	EndTime           time.Time          `json:"endTime" db:"end_time"`
	Urgency           string             `json:"urgency" db:"urgency"`
	Category          string             `json:"category" db:"category"`
	MaxVolunteers     int                `json:"maxVolunteers" db:"max_volunteers"`
	CurrentVolunteers int                `json:"currentVolunteers" db:"current_volunteers"`
	SkillRequirements []SkillRequirement `json:"skillRequirements,omitempty"`
}

// OpenSlots returns the remaining capacity, never negative.
func (e *Event) OpenSlots() int {
	open := e.MaxVolunteers - e.CurrentVolunteers
	if open < 0 {
		return 0
	}
	return open
}

// AtCapacity reports whether the event has no open volunteer slots.
func (e *Event) AtCapacity() bool {
	return e.CurrentVolunteers >= e.MaxVolunteers
}
