package recommendevents

import (
	"volunteerhub-workers/internal/common/logger"
	"volunteerhub-workers/internal/matching"
	"volunteerhub-workers/internal/models"
)

type Input struct {
	VolunteerID string                   `json:"volunteerId"`
	Volunteer   *models.VolunteerProfile `json:"volunteer"`
	Category    string                   `json:"category,omitempty"`
	Urgency     string                   `json:"urgency,omitempty"`
	MinScore    int                      `json:"minScore,omitempty"`
	MaxResults  int                      `json:"maxResults,omitempty"`
	SkillNames  map[string]string        `json:"skillNames,omitempty"`
}

type Output struct {
	Recommendations []EventRecommendation `json:"recommendations"`
	TotalEvents     int                   `json:"totalEvents"`
	Message         string                `json:"message,omitempty"`
}

type EventRecommendation struct {
	EventID         string                    `json:"eventId"`
	Title           string                    `json:"title"`
	TotalScore      int                       `json:"totalScore"`
	MatchQuality    string                    `json:"matchQuality"`
	ScoreBreakdown  *matching.ScoreBreakdown  `json:"scoreBreakdown,omitempty"`
	Recommendations []matching.Recommendation `json:"recommendations,omitempty"`
}

type ServiceDependencies struct {
	Logger   logger.Logger
	Searcher EventSearcher
}
