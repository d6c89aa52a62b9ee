// internal/workers/assignment/create-assignment/handler.go
package createassignment

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"volunteerhub-workers/internal/common/logger"
	"volunteerhub-workers/internal/common/metrics"
	"volunteerhub-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "create-assignment"
)

var (
	ErrDatabaseInsertFailed = errors.New("DATABASE_INSERT_FAILED")
	ErrDuplicateAssignment  = errors.New("DUPLICATE_ASSIGNMENT")
	ErrEventNotFound        = errors.New("EVENT_NOT_FOUND")
	ErrEventAtCapacity      = errors.New("EVENT_AT_CAPACITY")
	ErrInvalidInput         = errors.New("VALIDATION_FAILED")
)

type Handler struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		db:     db,
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
		code := "ASSIGNMENT_FAILED"
		switch {
		case errors.Is(err, ErrDuplicateAssignment):
			code = "DUPLICATE_ASSIGNMENT"
		case errors.Is(err, ErrEventNotFound):
			code = "EVENT_NOT_FOUND"
		case errors.Is(err, ErrEventAtCapacity):
			code = "EVENT_AT_CAPACITY"
		case errors.Is(err, ErrDatabaseInsertFailed):
			code = "DATABASE_INSERT_FAILED"
		case errors.Is(err, ErrInvalidInput):
			code = "VALIDATION_FAILED"
		}
		h.failJob(client, job, code, err.Error())
		return err
	}

	h.completeJob(client, job, output)
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.VolunteerID == "" || input.EventID == "" {
		return nil, fmt.Errorf("%w: volunteerId and eventId are required", ErrInvalidInput)
	}

	// Capacity re-check against the live event row. The optimizer's view
	// may be stale by the time the assignment lands.
	var maxVolunteers, currentVolunteers int
	err := h.db.QueryRowContext(ctx, `
		SELECT max_volunteers, current_volunteers FROM events WHERE id = $1`,
		input.EventID).Scan(&maxVolunteers, &currentVolunteers)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrEventNotFound, input.EventID)
		}
		return nil, fmt.Errorf("%w: capacity check failed: %v", ErrDatabaseInsertFailed, err)
	}
	if currentVolunteers >= maxVolunteers {
		return nil, fmt.Errorf("%w: event %s has no open slots", ErrEventAtCapacity, input.EventID)
	}

	var exists bool
	err = h.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM assignments
			WHERE volunteer_id = $1 AND event_id = $2
			AND status NOT IN ('declined', 'cancelled')
		)`, input.VolunteerID, input.EventID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: duplicate check failed: %v", ErrDatabaseInsertFailed, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: volunteer %s already assigned to event %s",
			ErrDuplicateAssignment, input.VolunteerID, input.EventID)
	}

	assignmentID := uuid.New().String()
	createdAt := time.Now().UTC().Format(time.RFC3339)

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO assignments (
			id, volunteer_id, event_id, match_score,
			match_quality, notes, status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`,
		assignmentID,
		input.VolunteerID,
		input.EventID,
		input.MatchScore,
		input.MatchQuality,
		input.Notes,
		models.AssignmentStatusProposed,
		createdAt,
	)
	if err != nil {
		metrics.AssignmentsCreated.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("%w: insert failed: %v", ErrDatabaseInsertFailed, err)
	}
	metrics.AssignmentsCreated.WithLabelValues(models.AssignmentStatusProposed).Inc()

	// Audit log entry is non-critical, log errors but don't fail the job.
	auditDetailsJSON, err := json.Marshal(map[string]interface{}{
		"volunteerId":  input.VolunteerID,
		"eventId":      input.EventID,
		"matchScore":   input.MatchScore,
		"matchQuality": input.MatchQuality,
	})
	if err != nil {
		h.logger.Warn("failed to marshal audit log details", map[string]interface{}{
			"error": err,
		})
		auditDetailsJSON = []byte("{}")
	}

	_, err = h.db.ExecContext(ctx, `
		INSERT INTO audit_log (event_type, resource_type, resource_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		"assignment_created",
		"assignment",
		assignmentID,
		auditDetailsJSON,
		createdAt,
	)
	if err != nil {
		h.logger.Warn("audit log insert failed", map[string]interface{}{
			"error":        err,
			"assignmentId": assignmentID,
		})
	}

	h.logger.Info("assignment created", map[string]interface{}{
		"assignmentId": assignmentID,
		"volunteerId":  input.VolunteerID,
		"eventId":      input.EventID,
		"matchScore":   input.MatchScore,
	})

	return &Output{
		AssignmentID:     assignmentID,
		AssignmentStatus: models.AssignmentStatusProposed,
		CreatedAt:        createdAt,
	}, nil
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
	} else {
		h.logger.Info("job completed successfully", map[string]interface{}{
			"jobKey": job.Key,
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
