package matching

import (
	"time"

	"volunteerhub-workers/internal/models"
)

// scoreReliability is a heuristic 0-100 proxy for dependability built from
// profile completeness and account age; no participation history is consulted
// in this version.
func scoreReliability(volunteer *models.VolunteerProfile, now time.Time) int {
	score := 75

	if volunteer.HasCompleteContact() {
		score += 10
	}
	if len(volunteer.Skills) > 0 {
		score += 10
	}
	if len(volunteer.Availability) > 0 {
		score += 5
	}
	if accountAgeMonths(volunteer.CreatedAt, now) > 6 {
		score += 10
	}

	return clampScore(score)
}

func accountAgeMonths(createdAt, now time.Time) float64 {
	if createdAt.IsZero() {
		return 0
	}
	days := now.Sub(createdAt).Hours() / 24
	return days / 30
}
