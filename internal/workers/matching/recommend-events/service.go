package recommendevents

import (
	"context"
	"sort"
	"time"

	"volunteerhub-workers/internal/common/errors"
	"volunteerhub-workers/internal/common/logger"
	"volunteerhub-workers/internal/matching"
)

type Service struct {
	config   *Config
	searcher EventSearcher
	logger   logger.Logger
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:   config,
		searcher: deps.Searcher,
		logger:   deps.Logger,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil || input.Volunteer == nil {
		return nil, &errors.StandardError{
			Code:      "VALIDATION_FAILED",
			Message:   "Recommendation input validation failed",
			Details:   "volunteer profile is required",
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}

	s.logger.Info("Recommending events", map[string]interface{}{
		"volunteerId": input.Volunteer.ID,
		"category":    input.Category,
	})

	query := EventSearchQuery{
		Category: input.Category,
		Urgency:  input.Urgency,
		Size:     s.config.MaxResults * 3, // over-fetch so score filtering still fills the page
	}
	if input.Volunteer.Location != nil && input.Volunteer.Preferences.MaxDistanceKm != nil {
		query.Center = input.Volunteer.Location
		query.RadiusKm = *input.Volunteer.Preferences.MaxDistanceKm
	}

	events, err := s.searcher.SearchEvents(ctx, query)
	if err != nil {
		return nil, errors.NewSearchQueryFailedError("recommend_events", err)
	}

	minScore := input.MinScore
	if minScore <= 0 {
		minScore = s.config.DefaultMinScore
	}
	maxResults := input.MaxResults
	if maxResults <= 0 || maxResults > s.config.MaxResults {
		maxResults = s.config.MaxResults
	}

	engine := matching.NewEngine(
		matching.WithSkillResolver(matching.MapSkillResolver(input.SkillNames)),
	)

	var recommendations []EventRecommendation
	for _, event := range events {
		if event == nil || event.AtCapacity() {
			continue
		}

		result := engine.CalculateMatchScore(input.Volunteer, event)
		if result.Error != "" || result.TotalScore < minScore {
			continue
		}

		recommendations = append(recommendations, EventRecommendation{
			EventID:         event.ID,
			Title:           event.Title,
			TotalScore:      result.TotalScore,
			MatchQuality:    result.MatchQuality,
			ScoreBreakdown:  result.ScoreBreakdown,
			Recommendations: result.Recommendations,
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].TotalScore > recommendations[j].TotalScore
	})
	if len(recommendations) > maxResults {
		recommendations = recommendations[:maxResults]
	}

	output := &Output{
		Recommendations: recommendations,
		TotalEvents:     len(events),
	}
	if len(recommendations) == 0 {
		// Empty list with a message is a success, not an error.
		output.Recommendations = []EventRecommendation{}
		output.Message = "No matching events found for this volunteer."
	}

	s.logger.Info("Event recommendations computed", map[string]interface{}{
		"volunteerId": input.Volunteer.ID,
		"candidates":  len(events),
		"recommended": len(output.Recommendations),
	})

	return output, nil
}
