// internal/workers/matching/recommend-events/handler.go
package recommendevents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"volunteerhub-workers/internal/common/logger"
	"volunteerhub-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "recommend-events"
)

var (
	ErrRecommendationFailed = errors.New("RECOMMENDATION_FAILED")
	ErrVolunteerNotFound    = errors.New("VOLUNTEER_NOT_FOUND")
)

type Handler struct {
	config  *Config
	service *Service
	db      *sql.DB
	redis   *redis.Client
	logger  logger.Logger
}

func NewHandler(config *Config, service *Service, db *sql.DB, redis *redis.Client, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		service: service,
		db:      db,
		redis:   redis,
		logger:  log.WithFields(map[string]interface{}{"taskType": TaskType}),
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
		code := "RECOMMENDATION_FAILED"
		if errors.Is(err, ErrVolunteerNotFound) {
			code = "VOLUNTEER_NOT_FOUND"
		}
		h.failJob(client, job, code, err.Error())
		return err
	}

	h.completeJob(client, job, output)
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.Volunteer == nil {
		if input.VolunteerID == "" {
			return nil, fmt.Errorf("%w: no volunteer supplied", ErrVolunteerNotFound)
		}
		profile, err := h.getVolunteerProfile(ctx, input.VolunteerID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrVolunteerNotFound, input.VolunteerID)
		}
		input.Volunteer = profile
	}

	output, err := h.service.Execute(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecommendationFailed, err)
	}
	return output, nil
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
