// internal/workers/matching/rank-volunteers/models.go
package rankvolunteers

import (
	"volunteerhub-workers/internal/matching"
	"volunteerhub-workers/internal/models"
)

type Input struct {
	Event      *models.Event              `json:"event"`
	Candidates []*models.VolunteerProfile `json:"candidates"`
	MinScore   int                        `json:"minScore"`
	SkillNames map[string]string          `json:"skillNames,omitempty"`
}

type Output struct {
	RankedVolunteers []RankedVolunteer `json:"rankedVolunteers"`
	TotalCandidates  int               `json:"totalCandidates"`
	Skipped          int               `json:"skipped"`
}

type RankedVolunteer struct {
	VolunteerID     string                    `json:"volunteerId"`
	TotalScore      int                       `json:"totalScore"`
	MatchQuality    string                    `json:"matchQuality"`
	ScoreBreakdown  *matching.ScoreBreakdown  `json:"scoreBreakdown,omitempty"`
	Recommendations []matching.Recommendation `json:"recommendations,omitempty"`
}
