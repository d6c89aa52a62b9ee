package errors

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// Logger interface for error handler (minimal, avoids import cycle with the
// common logger package).
type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
}

// ErrorHandler handles job failures with proper BPMN error integration.
type ErrorHandler struct {
	logger Logger
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleJobError processes a job error and either fails the job with retries
// or throws a BPMN error for the workflow to catch.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := h.normalizeError(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	h.logger.Error("Job execution failed", map[string]interface{}{
		"jobKey":    job.GetKey(),
		"jobType":   job.GetType(),
		"errorCode": stdErr.Code,
		"category":  GetErrorCategory(stdErr.Code),
		"retryable": stdErr.Retryable,
		"details":   stdErr.Details,
	})

	if bpmnErr.Retries > 0 && job.GetRetries() > 1 {
		h.failJobWithRetries(ctx, client, job, bpmnErr)
		return
	}

	h.throwBPMNError(ctx, client, job, bpmnErr)
}

// normalizeError coerces arbitrary errors into a StandardError.
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return NewExternalServiceError("worker", err)
}

func (h *ErrorHandler) failJobWithRetries(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	retries := job.GetRetries() - 1

	_, err := client.NewFailJobCommand().
		JobKey(job.GetKey()).
		Retries(retries).
		ErrorMessage(fmt.Sprintf("[%s] %s", bpmnErr.Code, bpmnErr.Message)).
		Send(ctx)

	if err != nil {
		h.logger.Error("Failed to fail job with retries", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	h.logger.Warn("Job failed, will retry", map[string]interface{}{
		"jobKey":           job.GetKey(),
		"remainingRetries": retries,
		"errorCode":        bpmnErr.Code,
	})
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	variables, marshalErr := json.Marshal(bpmnErr.ToErrorVariables())
	if marshalErr != nil {
		variables = []byte("{}")
	}

	cmd := client.NewThrowErrorCommand().
		JobKey(job.GetKey()).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	cmdWithVars, varErr := cmd.VariablesFromString(string(variables))
	if varErr != nil {
		h.logger.Warn("Failed to attach error variables", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  varErr.Error(),
		})
		if _, err := cmd.Send(ctx); err != nil {
			h.logger.Error("Failed to throw BPMN error", map[string]interface{}{
				"jobKey": job.GetKey(),
				"error":  err.Error(),
			})
		}
		return
	}

	if _, err := cmdWithVars.Send(ctx); err != nil {
		h.logger.Error("Failed to throw BPMN error", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	h.logger.Info("BPMN error thrown to workflow", map[string]interface{}{
		"jobKey":    job.GetKey(),
		"errorCode": bpmnErr.Code,
	})
}
