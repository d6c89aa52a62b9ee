// internal/workers/infrastructure/build-response/handler.go
package buildresponse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"volunteerhub-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/xeipuuv/gojsonschema"
)

const TaskType = "build-response"

var (
	ErrTemplateNotFound         = errors.New("TEMPLATE_NOT_FOUND")
	ErrTemplateValidationFailed = errors.New("TEMPLATE_VALIDATION_FAILED")
)

type templateCacheEntry struct {
	template *TemplateDefinition
	loadedAt time.Time
}

type Handler struct {
	config *Config
	logger logger.Logger
	cache  map[string]*templateCacheEntry
	mu     sync.RWMutex
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		cache:  make(map[string]*templateCacheEntry),
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

	output, err := h.Execute(ctx, &input)
	if err != nil {
		errorCode := "RESPONSE_BUILD_ERROR"
		if errors.Is(err, ErrTemplateNotFound) {
			errorCode = "TEMPLATE_NOT_FOUND"
		} else if errors.Is(err, ErrTemplateValidationFailed) {
			errorCode = "TEMPLATE_VALIDATION_FAILED"
		}
		h.failJob(client, job, errorCode, err.Error())
		return err
	}

	h.completeJob(client, job, output)
	return nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	template, err := h.loadTemplate(input.TemplateID)
	if err != nil {
		return nil, err
	}

	if err := h.validateData(template.Schema, input.Data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateValidationFailed, err)
	}

	rendered := h.substituteTemplate(template.Template, input.Data)
	renderedMap, ok := rendered.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("template %s did not render to an object, got %T",
			input.TemplateID, rendered)
	}

	payload := ResponsePayload{
		RequestID: input.RequestID,
		Status:    "success",
		Data:      renderedMap,
		Message:   input.Message,
		Metadata: ResponseMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   h.config.AppVersion,
		},
	}

	return &Output{Response: payload}, nil
}

// substituteTemplate walks the template structure and replaces
// "{{dotted.path}}" string leaves with values looked up in data.
// Missing values render as nil so the response shape stays stable.
func (h *Handler) substituteTemplate(templateData interface{}, data map[string]interface{}) interface{} {
	switch v := templateData.(type) {
	case string:
		if len(v) > 4 && strings.HasPrefix(v, "{{") && strings.HasSuffix(v, "}}") {
			key := strings.TrimSpace(v[2 : len(v)-2])
			return normalizeNumber(h.lookupNestedValue(data, key))
		}
		return v
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, child := range v {
			result[key] = h.substituteTemplate(child, data)
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = h.substituteTemplate(item, data)
		}
		return result
	default:
		return v
	}
}

// normalizeNumber keeps substituted integers consistent with values that
// arrived through JSON decoding.
func normalizeNumber(value interface{}) interface{} {
	switch n := value.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return value
	}
}

func (h *Handler) lookupNestedValue(data map[string]interface{}, key string) interface{} {
	current := interface{}(data)
	for _, part := range strings.Split(key, ".") {
		currentMap, ok := current.(map[string]interface{})
		if !ok {
			return nil
		}
		val, exists := currentMap[part]
		if !exists {
			return nil
		}
		current = val
	}
	return current
}

func (h *Handler) loadTemplate(id string) (*TemplateDefinition, error) {
	h.mu.RLock()
	if entry, ok := h.cache[id]; ok && time.Since(entry.loadedAt) < h.config.CacheTTL {
		h.mu.RUnlock()
		return entry.template, nil
	}
	h.mu.RUnlock()

	registryBytes, err := os.ReadFile(h.config.TemplateRegistry)
	if err != nil {
		return nil, fmt.Errorf("read template registry: %w", err)
	}

	var registry struct {
		Templates []TemplateDefinition `json:"templates"`
	}
	if err := json.Unmarshal(registryBytes, &registry); err != nil {
		return nil, fmt.Errorf("parse template registry: %w", err)
	}

	for i := range registry.Templates {
		template := registry.Templates[i]
		if template.ID == id {
			h.mu.Lock()
			h.cache[id] = &templateCacheEntry{
				template: &template,
				loadedAt: time.Now(),
			}
			h.mu.Unlock()
			return &template, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
}

func (h *Handler) validateData(schemaMap, data map[string]interface{}) error {
	if len(schemaMap) == 0 {
		return nil
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schemaMap),
		gojsonschema.NewGoLoader(data),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("data validation failed: %v", errs)
	}

	return nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
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
		h.logger.Error("failed to throw error", map[string]interface{}{"error": err})
	}
}
