// internal/workers/matching/calculate-match-score/handler.go
package calculatematchscore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"volunteerhub-workers/internal/common/logger"
	"volunteerhub-workers/internal/matching"
	"volunteerhub-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "calculate-match-score"
)

var (
	ErrMatchScoreFailed = errors.New("MATCH_SCORE_FAILED")
	ErrEventNotFound    = errors.New("EVENT_NOT_FOUND")
)

type Handler struct {
	config *Config
	db     *sql.DB
	redis  *redis.Client
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, redis *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
		redis:  redis,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "PARSE_ERROR", fmt.Sprintf("parse input: %v", err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		code := "MATCH_SCORE_FAILED"
		if errors.Is(err, ErrEventNotFound) {
			code = "EVENT_NOT_FOUND"
		}
		h.failJob(client, job, code, err.Error())
		return err
	}

	h.completeJob(client, job, output)
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	event := input.Event
	if event == nil && input.EventID != "" {
		var err error
		event, err = h.getEvent(ctx, input.EventID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrEventNotFound, input.EventID)
		}
	}
	if event == nil {
		return nil, fmt.Errorf("%w: no event supplied", ErrEventNotFound)
	}

	volunteer := input.Volunteer
	if volunteer == nil && input.VolunteerID != "" {
		var err error
		volunteer, err = h.getVolunteerProfile(ctx, input.VolunteerID)
		if err != nil {
			h.logger.Warn("failed to fetch volunteer profile", map[string]interface{}{
				"volunteerId": input.VolunteerID,
				"error":       err,
			})
		}
	}

	if volunteer == nil {
		// Permissive degraded result: score the match as unknown rather
		// than failing the whole process over a missing profile.
		return &Output{
			Match: &matching.MatchResult{
				VolunteerID:  input.VolunteerID,
				EventID:      event.ID,
				TotalScore:   50,
				Weights:      matching.DefaultWeights(),
				MatchQuality: matching.MatchQuality(50),
				Error:        "volunteer profile unavailable",
			},
		}, nil
	}

	engine := matching.NewEngine(
		matching.WithSkillResolver(matching.MapSkillResolver(input.SkillNames)),
	)
	result := engine.CalculateMatchScore(volunteer, event)

	h.logger.Info("match score calculated", map[string]interface{}{
		"volunteerId": result.VolunteerID,
		"eventId":     result.EventID,
		"score":       result.TotalScore,
		"quality":     result.MatchQuality,
	})

	return &Output{Match: result}, nil
}

func (h *Handler) getVolunteerProfile(ctx context.Context, volunteerID string) (*models.VolunteerProfile, error) {
	cacheKey := "volunteer:profile:" + volunteerID
	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var profile models.VolunteerProfile
		if err := json.Unmarshal([]byte(val), &profile); err == nil {
			return &profile, nil
		}
	}

	row := h.db.QueryRowContext(ctx, `
		SELECT first_name, last_name, email, phone, address,
		       latitude, longitude, skills, availability, preferences, created_at
		FROM volunteers WHERE id = $1`, volunteerID)

	profile := models.VolunteerProfile{ID: volunteerID}
	var phone, address sql.NullString
	var lat, lon sql.NullFloat64
	var skills, availability, preferences []byte
	err := row.Scan(
		&profile.FirstName, &profile.LastName, &profile.Email, &phone, &address,
		&lat, &lon, &skills, &availability, &preferences, &profile.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	profile.Phone = phone.String
	profile.Address = address.String
	if lat.Valid && lon.Valid {
		profile.Location = &models.GeoPoint{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	if err := json.Unmarshal(skills, &profile.Skills); err != nil {
		profile.Skills = nil
	}
	if err := json.Unmarshal(availability, &profile.Availability); err != nil {
		profile.Availability = nil
	}
	if err := json.Unmarshal(preferences, &profile.Preferences); err != nil {
		profile.Preferences = models.VolunteerPreferences{}
	}

	data, _ := json.Marshal(profile)
	h.redis.Set(ctx, cacheKey, data, h.config.ProfileCacheTTL)

	return &profile, nil
}

func (h *Handler) getEvent(ctx context.Context, eventID string) (*models.Event, error) {
	cacheKey := "event:details:" + eventID
	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var event models.Event
		if err := json.Unmarshal([]byte(val), &event); err == nil {
			return &event, nil
		}
	}

	row := h.db.QueryRowContext(ctx, `
		SELECT title, latitude, longitude, start_time, end_time,
		       urgency, category, max_volunteers, current_volunteers, skill_requirements
		FROM events WHERE id = $1`, eventID)

	event := models.Event{ID: eventID}
	var lat, lon sql.NullFloat64
	var requirements []byte
	err := row.Scan(
		&event.Title, &lat, &lon, &event.StartTime, &event.EndTime,
		&event.Urgency, &event.Category, &event.MaxVolunteers, &event.CurrentVolunteers,
		&requirements,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid && lon.Valid {
		event.Location = &models.GeoPoint{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	if err := json.Unmarshal(requirements, &event.SkillRequirements); err != nil {
		event.SkillRequirements = nil
	}

	data, _ := json.Marshal(event)
	h.redis.Set(ctx, cacheKey, data, h.config.EventCacheTTL)

	return &event, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, err := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
	if err != nil {
		h.logger.Error("failed to throw error", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
