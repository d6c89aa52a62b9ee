// internal/workers/matching/rank-volunteers/handler.go
package rankvolunteers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"volunteerhub-workers/internal/common/logger"
	"volunteerhub-workers/internal/matching"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "rank-volunteers"
)

var (
	ErrNilInput     = errors.New("input cannot be nil")
	ErrMissingEvent = errors.New("event is required")
)

type Handler struct {
	config *Config
	engine *matching.Engine
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		engine: matching.NewEngine(),
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
		h.failJob(client, job, "RANKING_FAILED", err.Error())
		return err
	}

	h.completeJob(client, job, output)
	return nil
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if input.Event == nil {
		return nil, ErrMissingEvent
	}

	start := time.Now()

	engine := h.engine
	if len(input.SkillNames) > 0 {
		engine = matching.NewEngine(
			matching.WithSkillResolver(matching.MapSkillResolver(input.SkillNames)),
		)
	}

	// Track processed IDs so duplicate candidates rank once.
	processedIDs := make(map[string]bool)
	skipped := 0
	var ranked []RankedVolunteer

	for _, candidate := range input.Candidates {
		if candidate == nil || candidate.ID == "" {
			skipped++
			continue
		}
		if processedIDs[candidate.ID] {
			continue
		}
		processedIDs[candidate.ID] = true

		result := engine.CalculateMatchScore(candidate, input.Event)
		if result.Error != "" {
			// Malformed candidates degrade individually, never the batch.
			h.logger.Warn("candidate scoring degraded", map[string]interface{}{
				"volunteerId": candidate.ID,
				"error":       result.Error,
			})
			skipped++
			continue
		}
		if result.TotalScore < input.MinScore {
			continue
		}

		ranked = append(ranked, RankedVolunteer{
			VolunteerID:     result.VolunteerID,
			TotalScore:      result.TotalScore,
			MatchQuality:    result.MatchQuality,
			ScoreBreakdown:  result.ScoreBreakdown,
			Recommendations: result.Recommendations,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore > ranked[j].TotalScore
	})

	if h.config.MaxItems > 0 && len(ranked) > h.config.MaxItems {
		ranked = ranked[:h.config.MaxItems]
	}

	duration := time.Since(start).Milliseconds()
	h.logger.Info("ranking completed", map[string]interface{}{
		"eventId":     input.Event.ID,
		"inputCount":  len(input.Candidates),
		"outputCount": len(ranked),
		"durationMs":  duration,
	})
	if duration > 500 {
		h.logger.Warn("ranking exceeded 500ms", map[string]interface{}{
			"durationMs": duration,
		})
	}

	return &Output{
		RankedVolunteers: ranked,
		TotalCandidates:  len(input.Candidates),
		Skipped:          skipped,
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
