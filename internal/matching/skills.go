package matching

import (
	"math"

	"volunteerhub-workers/internal/models"
)

// scoreSkills rates skill alignment 0-100. Required skills weigh double,
// over-qualification credit caps at 1.5x, and missing optional skills still
// earn 30% partial credit. Matching every required skill adds a flat bonus to
// both numerator and denominator.
func scoreSkills(volunteer *models.VolunteerProfile, event *models.Event) int {
	if len(event.SkillRequirements) == 0 {
		return 100
	}
	if len(volunteer.Skills) == 0 {
		return 0
	}

	held := make(map[string]ProficiencyLevel, len(volunteer.Skills))
	for _, s := range volunteer.Skills {
		held[s.SkillID] = ParseProficiency(s.Proficiency)
	}

	var totalScore, maxPossibleScore float64
	requiredCount := 0
	matchedRequired := 0

	for _, req := range event.SkillRequirements {
		weight := 1.0
		if req.IsRequired {
			weight = 2.0
			requiredCount++
		}

		requiredValue := float64(ParseProficiency(req.MinProficiency).Rank())
		maxPossibleScore += requiredValue * weight

		level, hasSkill := held[req.SkillID]
		if hasSkill {
			proficiencyRatio := math.Min(float64(level.Rank())/requiredValue, 1.5)
			totalScore += proficiencyRatio * requiredValue * weight
			if req.IsRequired {
				matchedRequired++
			}
		} else if !req.IsRequired {
			totalScore += requiredValue * weight * 0.3
		}
	}

	if requiredCount > 0 && matchedRequired == requiredCount {
		totalScore += 10
		maxPossibleScore += 10
	}

	if maxPossibleScore <= 0 {
		return 100
	}

	return clampScore(int(math.Round(100 * totalScore / maxPossibleScore)))
}

// missingRequiredSkills lists the skill IDs of required requirements the
// volunteer does not hold, in requirement order.
func missingRequiredSkills(volunteer *models.VolunteerProfile, event *models.Event) []string {
	held := make(map[string]struct{}, len(volunteer.Skills))
	for _, s := range volunteer.Skills {
		held[s.SkillID] = struct{}{}
	}

	var missing []string
	for _, req := range event.SkillRequirements {
		if !req.IsRequired {
			continue
		}
		if _, ok := held[req.SkillID]; !ok {
			missing = append(missing, req.SkillID)
		}
	}
	return missing
}
