package matching

import "strings"

// ProficiencyLevel is the ordered skill proficiency enum. Comparisons use
// the integer rank.
type ProficiencyLevel int

const (
	ProficiencyBeginner     ProficiencyLevel = 1
	ProficiencyIntermediate ProficiencyLevel = 2
	ProficiencyAdvanced     ProficiencyLevel = 3
	ProficiencyExpert       ProficiencyLevel = 4
)

// ParseProficiency maps a proficiency string to its rank. Historic records
// carry both upper and lower case spellings, so matching is case-insensitive.
// Unrecognized values fall back to BEGINNER (rank 1).
func ParseProficiency(s string) ProficiencyLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BEGINNER":
		return ProficiencyBeginner
	case "INTERMEDIATE":
		return ProficiencyIntermediate
	case "ADVANCED":
		return ProficiencyAdvanced
	case "EXPERT":
		return ProficiencyExpert
	default:
		return ProficiencyBeginner
	}
}

// Rank returns the integer rank of the level.
func (p ProficiencyLevel) Rank() int {
	return int(p)
}

func (p ProficiencyLevel) String() string {
	switch p {
	case ProficiencyBeginner:
		return "BEGINNER"
	case ProficiencyIntermediate:
		return "INTERMEDIATE"
	case ProficiencyAdvanced:
		return "ADVANCED"
	case ProficiencyExpert:
		return "EXPERT"
	default:
		return "BEGINNER"
	}
}
