// internal/workers/data-access/query-elasticsearch/handler.go
package queryelasticsearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"

	"volunteerhub-workers/internal/common/logger"
	"volunteerhub-workers/internal/workers/data-access/query-elasticsearch/queries"
)

const (
	TaskType = "query-elasticsearch"
)

var (
	ErrElasticsearchConnectionFailed = errors.New("ELASTICSEARCH_CONNECTION_FAILED")
	ErrSearchQueryFailed             = errors.New("SEARCH_QUERY_FAILED")
	ErrSearchTimeout                 = errors.New("SEARCH_TIMEOUT")
	ErrIndexNotFound                 = errors.New("INDEX_NOT_FOUND")
)

type Handler struct {
	config *Config
	client *elasticsearch.Client
	logger logger.Logger
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		client: client,
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
		errorCode := "SEARCH_QUERY_FAILED"
		if errors.Is(err, ErrSearchTimeout) {
			errorCode = "SEARCH_TIMEOUT"
		} else if errors.Is(err, ErrIndexNotFound) {
			errorCode = "INDEX_NOT_FOUND"
		}
		h.failJob(client, job, errorCode, err.Error())
		return err
	}

	h.completeJob(client, job, output)
	return nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	eq := queries.EventQuery{
		Index:     input.IndexName,
		QueryType: input.QueryType,
		Filters:   input.Filters,
		Category:  input.Category,
	}
	if eq.Index == "" {
		eq.Index = h.config.DefaultIndex
	}
	if eq.Filters == nil {
		eq.Filters = map[string]interface{}{}
	}
	eq.Pagination.From = input.Pagination.From
	eq.Pagination.Size = input.Pagination.Size

	result, err := queries.Execute(ctx, h.client, eq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrSearchTimeout
		}
		if errors.Is(err, queries.ErrMissingIndex) {
			return nil, ErrIndexNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}

	h.logger.Info("search executed", map[string]interface{}{
		"queryType": input.QueryType,
		"totalHits": result.TotalHits,
		"tookMs":    result.Took,
	})

	return &Output{
		Data:      result.Data,
		TotalHits: result.TotalHits,
		MaxScore:  result.MaxScore,
		Took:      result.Took,
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
