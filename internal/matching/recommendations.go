package matching

import (
	"fmt"
	"strings"

	"volunteerhub-workers/internal/models"
)

// Recommendation priorities and types.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
	PriorityInfo   = "info"

	RecommendationLocation     = "location"
	RecommendationSkills       = "skills"
	RecommendationAvailability = "availability"
	RecommendationPreferences  = "preferences"
	RecommendationOverall      = "overall"
)

// Recommendation is one human-readable advisory attached to a match result.
type Recommendation struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

// SkillResolver resolves skill IDs to display names for recommendation text.
type SkillResolver interface {
	SkillName(skillID string) string
}

// MapSkillResolver is a map-backed SkillResolver. Unknown IDs resolve to
// themselves so recommendations never lose information.
type MapSkillResolver map[string]string

func (m MapSkillResolver) SkillName(skillID string) string {
	if name, ok := m[skillID]; ok && name != "" {
		return name
	}
	return skillID
}

// buildRecommendations generates the applicable advisories in a fixed order:
// location, skills, availability, preferences, then an overall verdict. The
// overall tier is derived from the raw weighted total, not the rounded score.
func buildRecommendations(
	breakdown ScoreBreakdown,
	rawTotal float64,
	volunteer *models.VolunteerProfile,
	event *models.Event,
	resolver SkillResolver,
) []Recommendation {
	var recs []Recommendation

	if breakdown.Location < 50 {
		recs = append(recs, Recommendation{
			Type:     RecommendationLocation,
			Priority: PriorityMedium,
			Message:  "Event location may be far from the volunteer; consider travel distance before assigning.",
		})
	}

	if breakdown.Skills < 60 {
		missing := missingRequiredSkills(volunteer, event)
		message := "Volunteer's skills only partially match the event requirements."
		if len(missing) > 0 {
			names := make([]string, len(missing))
			for i, id := range missing {
				names[i] = resolver.SkillName(id)
			}
			message = fmt.Sprintf("Volunteer is missing required skills: %s.", strings.Join(names, ", "))
		}
		recs = append(recs, Recommendation{
			Type:     RecommendationSkills,
			Priority: PriorityHigh,
			Message:  message,
		})
	}

	if breakdown.Availability < 50 {
		recs = append(recs, Recommendation{
			Type:     RecommendationAvailability,
			Priority: PriorityHigh,
			Message:  "Volunteer's availability has limited overlap with the event schedule.",
		})
	}

	if breakdown.Preferences < 40 {
		recs = append(recs, Recommendation{
			Type:     RecommendationPreferences,
			Priority: PriorityLow,
			Message:  "Event does not align well with the volunteer's stated preferences.",
		})
	}

	recs = append(recs, overallRecommendation(rawTotal))
	return recs
}

func overallRecommendation(rawTotal float64) Recommendation {
	switch {
	case rawTotal >= 80:
		return Recommendation{
			Type:     RecommendationOverall,
			Priority: PriorityInfo,
			Message:  "This is an excellent match.",
		}
	case rawTotal >= 60:
		return Recommendation{
			Type:     RecommendationOverall,
			Priority: PriorityInfo,
			Message:  "This is a good match.",
		}
	case rawTotal >= 40:
		return Recommendation{
			Type:     RecommendationOverall,
			Priority: PriorityMedium,
			Message:  "This is a moderate match; review the concerns above before assigning.",
		}
	default:
		return Recommendation{
			Type:     RecommendationOverall,
			Priority: PriorityHigh,
			Message:  "This is a poor match; consider alternative volunteers.",
		}
	}
}
