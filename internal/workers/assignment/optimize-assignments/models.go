package optimizeassignments

import (
	"volunteerhub-workers/internal/matching"
	"volunteerhub-workers/internal/models"
)

type Input struct {
	EventID           string                       `json:"eventId"`
	Event             *models.Event                `json:"event,omitempty"`
	Candidates        []*models.VolunteerProfile   `json:"candidates"`
	Existing          []models.AssignmentCandidate `json:"existingAssignments,omitempty"`
	MinScore          int                          `json:"minScore,omitempty"`
	MaxAssignments    int                          `json:"maxAssignments,omitempty"`
	PreserveConfirmed bool                         `json:"preserveConfirmed,omitempty"`
	SkillNames        map[string]string            `json:"skillNames,omitempty"`
}

type Output struct {
	EventID    string                        `json:"eventId"`
	OpenSlots  int                           `json:"openSlots"`
	AtCapacity bool                          `json:"atCapacity"`
	Message    string                        `json:"message,omitempty"`
	Proposed   []matching.ProposedAssignment `json:"proposed"`
}
