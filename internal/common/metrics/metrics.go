package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// Matching-specific metrics.

	MatchScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_score",
			Help:    "Distribution of computed volunteer-event match scores",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	AssignmentsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assignments_created_total",
			Help: "Total number of volunteer assignments created",
		},
		[]string{"status"},
	)

	NotificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_sent_total",
			Help: "Total number of notifications sent by channel",
		},
		[]string{"channel", "status"},
	)
)
