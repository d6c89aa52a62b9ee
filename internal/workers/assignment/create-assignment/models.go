// internal/workers/assignment/create-assignment/models.go
package createassignment

type Input struct {
	VolunteerID  string `json:"volunteerId"`
	EventID      string `json:"eventId"`
	MatchScore   int    `json:"matchScore"`
	MatchQuality string `json:"matchQuality"`
	Notes        string `json:"notes,omitempty"`
}

type Output struct {
	AssignmentID     string `json:"assignmentId"`
	AssignmentStatus string `json:"assignmentStatus"`
	CreatedAt        string `json:"createdAt"` // ISO 8601
}
