// internal/workers/matching/calculate-match-score/models.go
package calculatematchscore

import (
	"volunteerhub-workers/internal/matching"
	"volunteerhub-workers/internal/models"
)

type Input struct {
	VolunteerID string `json:"volunteerId"`
	EventID     string `json:"eventId"`

	// Inline objects bypass the database fetch when the process already
	// carries them as variables.
	Volunteer *models.VolunteerProfile `json:"volunteer,omitempty"`
	Event     *models.Event            `json:"event,omitempty"`

	// SkillNames resolves skill IDs to display names in recommendations.
	SkillNames map[string]string `json:"skillNames,omitempty"`
}

type Output struct {
	Match *matching.MatchResult `json:"match"`
}
