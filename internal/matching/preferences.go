package matching

import (
	"strings"

	"volunteerhub-workers/internal/models"
)

// scorePreferences rates alignment with the volunteer's stated preferences
// 0-100 from a neutral base of 50. A non-empty cause list shifts the score by
// whether the event's category is in it; event urgency nudges the rest.
func scorePreferences(volunteer *models.VolunteerProfile, event *models.Event) int {
	prefs := volunteer.Preferences
	if len(prefs.PreferredCauses) == 0 && len(prefs.PreferredTimeSlots) == 0 &&
		prefs.MaxDistanceKm == nil && !prefs.WeekdaysOnly {
		return 50
	}

	score := 50

	if len(prefs.PreferredCauses) > 0 {
		if containsFold(prefs.PreferredCauses, event.Category) {
			score += 30
		} else {
			score -= 15
		}
	}

	score += urgencyAdjustment(event.Urgency)

	return clampScore(score)
}

// urgencyAdjustment normalizes urgency to lowercase before switching, since
// persisted values are uppercase (LOW|MEDIUM|HIGH|CRITICAL) while legacy rows
// use lowercase. CRITICAL maps to the urgent bump, MEDIUM to neutral;
// unrecognized values stay neutral.
func urgencyAdjustment(urgency string) int {
	switch strings.ToLower(strings.TrimSpace(urgency)) {
	case "urgent", "critical":
		return 10
	case "high":
		return 5
	case "low":
		return -5
	default: // normal, medium, unknown
		return 0
	}
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}
