package matching

import (
	"math"

	"volunteerhub-workers/internal/models"
)

// scoreLocation rates geographic proximity 0-100. Either party missing
// coordinates yields the neutral 50 so matching stays permissive.
func scoreLocation(volunteer *models.VolunteerProfile, event *models.Event) int {
	if volunteer.Location == nil || event.Location == nil {
		return 50
	}

	distance := DistanceKm(
		volunteer.Location.Latitude, volunteer.Location.Longitude,
		event.Location.Latitude, event.Location.Longitude,
	)

	score := 100 - 2*distance

	if distance <= 5 {
		score += 10
	}

	if maxDist := volunteer.Preferences.MaxDistanceKm; maxDist != nil && distance > *maxDist {
		score -= 30
	}

	return clampScore(int(math.Round(score)))
}

// clampScore bounds a score to [0,100].
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
