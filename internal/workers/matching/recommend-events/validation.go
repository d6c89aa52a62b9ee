package recommendevents

import (
	"volunteerhub-workers/internal/common/validation"
)

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"volunteerId": {
				Type:        "string",
				Description: "Volunteer to recommend events for",
				MinLength:   intPtr(1),
			},
			"category": {
				Type:        "string",
				Description: "Optional category filter for the search",
			},
			"urgency": {
				Type:        "string",
				Description: "Optional urgency filter for the search",
				Enum:        []string{"LOW", "MEDIUM", "HIGH", "CRITICAL"},
			},
			"minScore": {
				Type:        "integer",
				Description: "Minimum match score to include an event",
				Minimum:     floatPtr(0),
				Maximum:     floatPtr(100),
			},
			"maxResults": {
				Type:        "integer",
				Description: "Maximum number of recommendations to return",
				Minimum:     floatPtr(1),
			},
		},
		Required: []string{"volunteerId"},
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"recommendations": {
				Type:        "array",
				Description: "Events ranked by match score, best first",
				Items: &validation.Property{
					Type: "object",
					Properties: map[string]validation.Property{
						"eventId":      {Type: "string"},
						"title":        {Type: "string"},
						"totalScore":   {Type: "integer"},
						"matchQuality": {Type: "string"},
					},
					Required: []string{"eventId", "totalScore"},
				},
			},
			"totalEvents": {
				Type:        "integer",
				Description: "Number of open events considered",
			},
			"message": {
				Type:        "string",
				Description: "Set when no events qualified",
			},
		},
		Required: []string{"recommendations", "totalEvents"},
	}
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}
