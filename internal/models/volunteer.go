// internal/models/volunteer.go
package models

import "time"

// GeoPoint is a WGS84 coordinate pair.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// VolunteerSkill pairs a skill with the volunteer's proficiency level.
// Proficiency appears in both upper and lower case across historic records.
type VolunteerSkill struct {
	SkillID     string `json:"skillId"`
	Proficiency string `json:"proficiencyLevel"`
}

// AvailabilitySlot describes when a volunteer can work. Recurring slots match
// by day-of-week name; one-off slots match by specific date.
type AvailabilitySlot struct {
	DayOfWeek    string `json:"dayOfWeek,omitempty"`    // "Monday".."Sunday"
	SpecificDate string `json:"specificDate,omitempty"` // "2006-01-02"
	StartTime    string `json:"startTime"`              // "15:04"
	EndTime      string `json:"endTime"`                // "15:04"
	IsRecurring  bool   `json:"isRecurring"`
}

// VolunteerPreferences captures the volunteer's stated matching preferences.
type VolunteerPreferences struct {
	MaxDistanceKm      *float64 `json:"maxDistance,omitempty"`
	PreferredCauses    []string `json:"preferredCauses,omitempty"`
	PreferredTimeSlots []string `json:"preferredTimeSlots,omitempty"` // morning, afternoon, evening
	WeekdaysOnly       bool     `json:"weekdaysOnly"`
}

// VolunteerProfile is the read-only matching input describing a volunteer.
type VolunteerProfile struct {
	ID           string               `json:"id" db:"id"`
	FirstName    string               `json:"firstName" db:"first_name"`
	LastName     string               `json:"lastName" db:"last_name"`
	Email        string               `json:"email" db:"email"`
	Phone        string               `json:"phone,omitempty" db:"phone"`
	Address      string               `json:"address,omitempty" db:"address"`
	Location     *GeoPoint            `json:"location,omitempty"`
	Skills       []VolunteerSkill     `json:"skills,omitempty"`
	Availability []AvailabilitySlot   `json:"availability,omitempty"`
	Preferences  VolunteerPreferences `json:"preferences"`
	CreatedAt    time.Time            `json:"createdAt" db:"created_at"`
}

// HasCompleteContact reports whether the profile carries the full contact set
// used by the reliability heuristic.
func (v *VolunteerProfile) HasCompleteContact() bool {
	return v.FirstName != "" && v.LastName != "" && v.Phone != "" && v.Address != ""
}
