// internal/workers/assignment/bulk-assign/handler.go
package bulkassign

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"volunteerhub-workers/internal/common/logger"
	"volunteerhub-workers/internal/models"
	createassignment "volunteerhub-workers/internal/workers/assignment/create-assignment"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "bulk-assign"
)

var (
	ErrInvalidInput = errors.New("VALIDATION_FAILED")
)

// AssignmentCreator creates one assignment. *createassignment.Handler
// satisfies it, and tests substitute a fake.
type AssignmentCreator interface {
	Execute(ctx context.Context, input *createassignment.Input) (*createassignment.Output, error)
}

type Handler struct {
	config  *Config
	creator AssignmentCreator
	logger  logger.Logger
}

func NewHandler(config *Config, creator AssignmentCreator, log logger.Logger) *Handler {
	return &Handler{
		config:  config,
		creator: creator,
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
		h.failJob(client, job, "VALIDATION_FAILED", err.Error())
		return err
	}

	h.completeJob(client, job, output)
	return nil
}

// execute creates assignments one by one. A failure for one candidate is
// recorded in its result entry and never aborts the rest of the batch.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.EventID == "" {
		return nil, fmt.Errorf("%w: eventId is required", ErrInvalidInput)
	}

	candidates := input.Candidates
	if len(candidates) > h.config.MaxCandidates {
		h.logger.Warn("candidate list truncated", map[string]interface{}{
			"eventId":   input.EventID,
			"requested": len(candidates),
			"limit":     h.config.MaxCandidates,
		})
		candidates = candidates[:h.config.MaxCandidates]
	}

	results := make([]models.BulkAssignmentResult, 0, len(candidates))
	successful, failed := 0, 0

	for _, candidate := range candidates {
		result := models.BulkAssignmentResult{VolunteerID: candidate.VolunteerID}

		created, err := h.creator.Execute(ctx, &createassignment.Input{
			VolunteerID:  candidate.VolunteerID,
			EventID:      input.EventID,
			MatchScore:   candidate.MatchScore,
			MatchQuality: candidate.MatchQuality,
			Notes:        candidate.Notes,
		})
		if err != nil {
			result.Error = err.Error()
			failed++
			h.logger.Warn("assignment failed for candidate", map[string]interface{}{
				"eventId":     input.EventID,
				"volunteerId": candidate.VolunteerID,
				"error":       err,
			})
		} else {
			result.Success = true
			result.AssignmentID = created.AssignmentID
			successful++
		}

		results = append(results, result)
	}

	h.logger.Info("bulk assignment finished", map[string]interface{}{
		"eventId":    input.EventID,
		"successful": successful,
		"failed":     failed,
	})

	return &Output{
		EventID:    input.EventID,
		Successful: successful,
		Failed:     failed,
		Results:    results,
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
