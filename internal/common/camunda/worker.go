package camunda

import (
	"context"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"

	"volunteerhub-workers/internal/common/metrics"
)

// JobHandler must return an error (required by Zeebe client)
type JobHandler interface {
	Handle(client worker.JobClient, job entities.Job) error
}

// CamundaWorker manages a single registered job worker instance.
type CamundaWorker struct {
	client   zbc.Client
	worker   worker.JobWorker
	logger   *zap.Logger
	taskType string
}

// NewWorker registers a job worker for the given task type. Handler outcomes
// and durations are recorded as Prometheus metrics per task type.
func NewWorker(
	client zbc.Client,
	taskType string,
	maxJobsActive int,
	timeout time.Duration,
	handler JobHandler,
	logger *zap.Logger,
) *CamundaWorker {
	jobWorker := client.NewJobWorker().
		JobType(taskType).
		Handler(func(client worker.JobClient, job entities.Job) {
			metrics.WorkerJobsActive.WithLabelValues(taskType).Inc()
			start := time.Now()

			err := handler.Handle(client, job)

			metrics.WorkerJobsActive.WithLabelValues(taskType).Dec()
			metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())

			if err != nil {
				metrics.WorkerJobsFailed.WithLabelValues(taskType).Inc()
				logger.Error("Handler returned error", zap.Error(err), zap.Int64("jobKey", job.Key))
				return
			}
			metrics.WorkerJobsCompleted.WithLabelValues(taskType).Inc()
		}).
		MaxJobsActive(maxJobsActive).
		Timeout(timeout).
		Open()

	return &CamundaWorker{
		client:   client,
		worker:   jobWorker,
		logger:   logger,
		taskType: taskType,
	}
}

func (w *CamundaWorker) Start() {
	w.logger.Info("worker started", zap.String("taskType", w.taskType))
}

func (w *CamundaWorker) Stop(ctx context.Context) {
	w.logger.Info("stopping worker", zap.String("taskType", w.taskType))
	w.worker.Close()
}
