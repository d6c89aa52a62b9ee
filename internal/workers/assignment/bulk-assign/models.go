// internal/workers/assignment/bulk-assign/models.go
package bulkassign

import (
	"volunteerhub-workers/internal/models"
)

type Candidate struct {
	VolunteerID  string `json:"volunteerId"`
	MatchScore   int    `json:"totalScore"`
	MatchQuality string `json:"matchQuality"`
	Notes        string `json:"notes,omitempty"`
}

type Input struct {
	EventID    string      `json:"eventId"`
	Candidates []Candidate `json:"candidates"`
}

type Output struct {
	EventID    string                        `json:"eventId"`
	Successful int                           `json:"successful"`
	Failed     int                           `json:"failed"`
	Results    []models.BulkAssignmentResult `json:"results"`
}
