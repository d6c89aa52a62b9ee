// internal/workers/infrastructure/check-event-capacity/handler.go
package checkeventcapacity

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"volunteerhub-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/redis/go-redis/v9"
)

const (
	TaskType = "check-event-capacity"
)

var (
	ErrEventNotFound       = errors.New("EVENT_NOT_FOUND")
	ErrCapacityCheckFailed = errors.New("CAPACITY_CHECK_FAILED")
	ErrInvalidInput        = errors.New("VALIDATION_FAILED")
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
		code := "CAPACITY_CHECK_FAILED"
		switch {
		case errors.Is(err, ErrEventNotFound):
			code = "EVENT_NOT_FOUND"
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
	if input.EventID == "" {
		return nil, fmt.Errorf("%w: eventId is required", ErrInvalidInput)
	}

	capacity, err := h.getCapacity(ctx, input.EventID)
	if err != nil {
		return nil, err
	}

	openSlots := capacity.MaxVolunteers - capacity.CurrentVolunteers
	if openSlots < 0 {
		openSlots = 0
	}

	output := &Output{
		EventID:   capacity.EventID,
		OpenSlots: openSlots,
	}
	if openSlots == 0 {
		// At capacity is a routing outcome for the process, not a failure.
		output.AtCapacity = true
		output.Message = "Event is at capacity; no open volunteer slots remain."
	}

	h.logger.Info("capacity checked", map[string]interface{}{
		"eventId":    output.EventID,
		"openSlots":  output.OpenSlots,
		"atCapacity": output.AtCapacity,
	})

	return output, nil
}

func (h *Handler) getCapacity(ctx context.Context, eventID string) (*Capacity, error) {
	cacheKey := "event:capacity:" + eventID
	if val, err := h.redis.Get(ctx, cacheKey).Result(); err == nil {
		var capacity Capacity
		if err := json.Unmarshal([]byte(val), &capacity); err == nil {
			return &capacity, nil
		}
	}

	capacity := Capacity{EventID: eventID}
	err := h.db.QueryRowContext(ctx, `
		SELECT max_volunteers, current_volunteers FROM events WHERE id = $1`,
		eventID).Scan(&capacity.MaxVolunteers, &capacity.CurrentVolunteers)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
		}
		return nil, fmt.Errorf("%w: %v", ErrCapacityCheckFailed, err)
	}

	data, _ := json.Marshal(capacity)
	h.redis.Set(ctx, cacheKey, data, h.config.CapacityCacheTTL)

	return &capacity, nil
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
