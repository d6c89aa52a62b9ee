package matching

import (
	"fmt"
	"math"
	"time"

	"volunteerhub-workers/internal/models"
)

// ScoreBreakdown carries the five factor sub-scores, each 0-100.
type ScoreBreakdown struct {
	Location     int `json:"location"`
	Skills       int `json:"skills"`
	Availability int `json:"availability"`
	Preferences  int `json:"preferences"`
	Reliability  int `json:"reliability"`
}

// MatchResult is the output of a single volunteer-event scoring. Produced
// fresh on every call; stateless beyond its two foreign keys and timestamp.
type MatchResult struct {
	VolunteerID     string           `json:"volunteerId"`
	EventID         string           `json:"eventId"`
	TotalScore      int              `json:"totalScore"`
	ScoreBreakdown  *ScoreBreakdown  `json:"scoreBreakdown,omitempty"`
	Weights         Weights          `json:"weights"`
	Recommendations []Recommendation `json:"recommendations,omitempty"`
	MatchQuality    string           `json:"matchQuality"`
	CalculatedAt    time.Time        `json:"calculatedAt"`
	Error           string           `json:"error,omitempty"`
}

// Engine computes match scores. Safe for concurrent use; it holds only
// immutable configuration.
type Engine struct {
	weights  Weights
	resolver SkillResolver
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithWeights overrides the default factor weighting.
func WithWeights(w Weights) Option {
	return func(e *Engine) { e.weights = w }
}

// WithSkillResolver sets the resolver used for recommendation text.
func WithSkillResolver(r SkillResolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithClock overrides the time source. Tests use this to pin account-age
// calculations and timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine with the production weights and a pass-through
// skill resolver unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		weights:  DefaultWeights(),
		resolver: MapSkillResolver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Weights returns the engine's configured weighting.
func (e *Engine) Weights() Weights {
	return e.weights
}

// CalculateMatchScore scores a volunteer against an event. It never panics:
// any internal failure degrades to a zero-score result carrying the error
// text and no breakdown.
func (e *Engine) CalculateMatchScore(volunteer *models.VolunteerProfile, event *models.Event) (result *MatchResult) {
	defer func() {
		if r := recover(); r != nil {
			result = &MatchResult{
				VolunteerID:  safeID(volunteer),
				EventID:      safeEventID(event),
				TotalScore:   0,
				Weights:      e.weights,
				MatchQuality: MatchQuality(0),
				CalculatedAt: e.now().UTC(),
				Error:        fmt.Sprintf("match scoring failed: %v", r),
			}
		}
	}()

	now := e.now()

	breakdown := ScoreBreakdown{
		Location:     scoreLocation(volunteer, event),
		Skills:       scoreSkills(volunteer, event),
		Availability: scoreAvailability(volunteer, event),
		Preferences:  scorePreferences(volunteer, event),
		Reliability:  scoreReliability(volunteer, now),
	}

	rawTotal := float64(breakdown.Location)*e.weights.Location +
		float64(breakdown.Skills)*e.weights.Skills +
		float64(breakdown.Availability)*e.weights.Availability +
		float64(breakdown.Preferences)*e.weights.Preferences +
		float64(breakdown.Reliability)*e.weights.Reliability

	total := int(math.Round(rawTotal))
	if total > 100 {
		total = 100
	}

	return &MatchResult{
		VolunteerID:     volunteer.ID,
		EventID:         event.ID,
		TotalScore:      total,
		ScoreBreakdown:  &breakdown,
		Weights:         e.weights,
		Recommendations: buildRecommendations(breakdown, rawTotal, volunteer, event, e.resolver),
		MatchQuality:    MatchQuality(total),
		CalculatedAt:    now.UTC(),
	}
}

func safeID(v *models.VolunteerProfile) string {
	if v == nil {
		return ""
	}
	return v.ID
}

func safeEventID(ev *models.Event) string {
	if ev == nil {
		return ""
	}
	return ev.ID
}
