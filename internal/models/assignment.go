// internal/models/assignment.go
package models

import "time"

// Assignment statuses.
const (
	AssignmentStatusProposed  = "proposed"
	AssignmentStatusConfirmed = "confirmed"
	AssignmentStatusDeclined  = "declined"
	AssignmentStatusCancelled = "cancelled"
)

// Assignment links a volunteer to an event with the score that proposed it.
type Assignment struct {
	ID           string    `json:"id" db:"id"`
	VolunteerID  string    `json:"volunteerId" db:"volunteer_id"`
	EventID      string    `json:"eventId" db:"event_id"`
	MatchScore   int       `json:"matchScore" db:"match_score"`
	MatchQuality string    `json:"matchQuality" db:"match_quality"`
	Notes        string    `json:"notes,omitempty" db:"notes"`
	Status       string    `json:"status" db:"status"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// AssignmentCandidate is one entry in a ranked pool handed to the optimizer
// or bulk-assignment worker.
type AssignmentCandidate struct {
	VolunteerID  string `json:"volunteerId"`
	TotalScore   int    `json:"totalScore"`
	MatchQuality string `json:"matchQuality"`
	Status       string `json:"status,omitempty"` // existing assignment status, if any
}

// BulkAssignmentResult records the outcome for a single candidate in a batch.
type BulkAssignmentResult struct {
	VolunteerID  string `json:"volunteerId"`
	AssignmentID string `json:"assignmentId,omitempty"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
}

// BulkAssignmentSummary aggregates a batch run. Successful+Failed always
// equals the number of candidates submitted.
type BulkAssignmentSummary struct {
	EventID    string                 `json:"eventId"`
	Successful int                    `json:"successful"`
	Failed     int                    `json:"failed"`
	Results    []BulkAssignmentResult `json:"results"`
}
