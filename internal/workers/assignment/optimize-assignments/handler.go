// internal/workers/assignment/optimize-assignments/handler.go
package optimizeassignments

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
	TaskType = "optimize-assignments"
)

var (
	ErrOptimizationFailed = errors.New("OPTIMIZATION_FAILED")
	ErrEventNotFound      = errors.New("EVENT_NOT_FOUND")
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
		code := "OPTIMIZATION_FAILED"
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

	existing := input.Existing
	if existing == nil {
		var err error
		existing, err = h.getExistingAssignments(ctx, event.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: load existing assignments: %v", ErrOptimizationFailed, err)
		}
	}

	engine := matching.NewEngine(
		matching.WithSkillResolver(matching.MapSkillResolver(input.SkillNames)),
	)
	result := engine.OptimizeAssignments(matching.OptimizeRequest{
		Event:             event,
		Candidates:        input.Candidates,
		Existing:          existing,
		MinScore:          input.MinScore,
		MaxAssignments:    input.MaxAssignments,
		PreserveConfirmed: input.PreserveConfirmed,
	})

	h.logger.Info("assignment optimization finished", map[string]interface{}{
		"eventId":    result.EventID,
		"openSlots":  result.OpenSlots,
		"atCapacity": result.AtCapacity,
		"proposed":   len(result.Proposed),
	})

	return &Output{
		EventID:    result.EventID,
		OpenSlots:  result.OpenSlots,
		AtCapacity: result.AtCapacity,
		Message:    result.Message,
		Proposed:   result.Proposed,
	}, nil
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

// getExistingAssignments loads active assignments so confirmed volunteers
// are never re-proposed or displaced.
func (h *Handler) getExistingAssignments(ctx context.Context, eventID string) ([]models.AssignmentCandidate, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT volunteer_id, match_score, match_quality, status
		FROM assignments
		WHERE event_id = $1 AND status NOT IN ('declined', 'cancelled')`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var existing []models.AssignmentCandidate
	for rows.Next() {
		var candidate models.AssignmentCandidate
		if err := rows.Scan(&candidate.VolunteerID, &candidate.TotalScore, &candidate.MatchQuality, &candidate.Status); err != nil {
			return nil, err
		}
		existing = append(existing, candidate)
	}
	return existing, rows.Err()
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
