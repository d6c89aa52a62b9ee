// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"volunteerhub-workers/internal/common/camunda"
	"volunteerhub-workers/internal/common/config"
	"volunteerhub-workers/internal/common/database"
	"volunteerhub-workers/internal/common/logger"
	"volunteerhub-workers/internal/common/observability"

	// Infrastructure workers
	br "volunteerhub-workers/internal/workers/infrastructure/build-response"
	cec "volunteerhub-workers/internal/workers/infrastructure/check-event-capacity"

	// Data access workers
	qe "volunteerhub-workers/internal/workers/data-access/query-elasticsearch"
	qp "volunteerhub-workers/internal/workers/data-access/query-postgresql"

	// Matching workers
	cms "volunteerhub-workers/internal/workers/matching/calculate-match-score"
	rve "volunteerhub-workers/internal/workers/matching/rank-volunteers"
	rec "volunteerhub-workers/internal/workers/matching/recommend-events"

	// Assignment workers
	ba "volunteerhub-workers/internal/workers/assignment/bulk-assign"
	ca "volunteerhub-workers/internal/workers/assignment/create-assignment"
	oa "volunteerhub-workers/internal/workers/assignment/optimize-assignments"

	// Communication workers
	sn "volunteerhub-workers/internal/workers/communication/send-notification"
)

// retryWithBackoff attempts an operation with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Reconfigure logging once the config is known.
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log = logger.NewZapAdapter(zapLog)

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	tracing, err := observability.NewTracing("worker-manager", os.Getenv("JAEGER_ENDPOINT"))
	if err != nil {
		zapLog.Warn("tracing init failed, continuing without traces", zap.Error(err))
	} else {
		defer tracing.Shutdown()
	}

	ctx := context.Background()

	// --- Init Zeebe client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	var workers []*camunda.CamundaWorker
	register := func(taskType string, handler camunda.JobHandler) {
		wcfg := config.GetWorkerConfig(cfg, taskType)
		if !wcfg.Enabled {
			zapLog.Info("worker disabled", zap.String("taskType", taskType))
			return
		}
		w := camunda.NewWorker(
			zeebeClient,
			taskType,
			wcfg.MaxJobsActive,
			config.GetDuration(wcfg.Timeout),
			handler,
			zapLog,
		)
		w.Start()
		workers = append(workers, w)
	}

	profileTTL := time.Duration(cfg.Matching.ProfileCacheTTL) * time.Second
	eventTTL := time.Duration(cfg.Matching.EventCacheTTL) * time.Second

	// --- Matching workers ---
	register(cms.TaskType, cms.NewHandler(
		&cms.Config{
			ProfileCacheTTL: profileTTL,
			EventCacheTTL:   eventTTL,
			Timeout:         config.GetDuration(config.GetWorkerConfig(cfg, cms.TaskType).Timeout),
		},
		pg.DB, redisClient.Client, log,
	))

	register(rve.TaskType, rve.NewHandler(
		&rve.Config{
			MaxItems: cfg.Matching.MaxCandidates,
			Timeout:  config.GetDuration(config.GetWorkerConfig(cfg, rve.TaskType).Timeout),
		},
		log,
	))

	recConfig := rec.DefaultConfig()
	recConfig.EventIndex = cfg.Database.Elasticsearch.EventIndex
	recConfig.DefaultMinScore = cfg.Matching.DefaultMinScore
	recConfig.ProfileCacheTTL = profileTTL
	recConfig.Timeout = config.GetDuration(config.GetWorkerConfig(cfg, rec.TaskType).Timeout)
	recService := rec.NewService(rec.ServiceDependencies{
		Logger:   log,
		Searcher: rec.NewESEventSearcher(esClient.Client, recConfig.EventIndex),
	}, recConfig)
	register(rec.TaskType, rec.NewHandler(recConfig, recService, pg.DB, redisClient.Client, log))

	// --- Assignment workers ---
	register(oa.TaskType, oa.NewHandler(
		&oa.Config{
			EventCacheTTL: eventTTL,
			Timeout:       config.GetDuration(config.GetWorkerConfig(cfg, oa.TaskType).Timeout),
		},
		pg.DB, redisClient.Client, log,
	))

	creator := ca.NewHandler(ca.LoadConfig(), pg.DB, log)
	register(ca.TaskType, creator)

	register(ba.TaskType, ba.NewHandler(ba.LoadConfig(), creator, log))

	// --- Infrastructure workers ---
	register(cec.TaskType, cec.NewHandler(cec.LoadConfig(), pg.DB, redisClient.Client, log))

	brConfig := br.LoadConfig()
	brConfig.AppVersion = cfg.App.Version
	register(br.TaskType, br.NewHandler(brConfig, log))

	// --- Data access workers ---
	register(qp.TaskType, qp.NewHandler(
		&qp.Config{
			Timeout: config.GetDuration(config.GetWorkerConfig(cfg, qp.TaskType).Timeout),
		},
		pg.DB, log,
	))

	register(qe.TaskType, qe.NewHandler(
		&qe.Config{
			DefaultIndex: cfg.Database.Elasticsearch.EventIndex,
			Timeout:      config.GetDuration(config.GetWorkerConfig(cfg, qe.TaskType).Timeout),
		},
		esClient.Client, log,
	))

	// --- Communication workers ---
	if config.IsWorkerEnabled(cfg, sn.TaskType) {
		snHandler, err := sn.NewHandler(
			&sn.Config{
				EmailEnabled: cfg.Notifications.Email.Enabled,
				SMSEnabled:   cfg.Notifications.SMS.Enabled,
				FromEmail:    cfg.Notifications.Email.FromEmail,
				AWSRegion:    cfg.Notifications.AWS.Region,
				Timeout:      config.GetDuration(config.GetWorkerConfig(cfg, sn.TaskType).Timeout),
			},
			pg.DB, log,
		)
		if err != nil {
			zapLog.Fatal("failed to create send-notification handler", zap.Error(err))
		}
		register(sn.TaskType, snHandler)
	}

	zapLog.Info("All workers registered", zap.Int("count", len(workers)))

	// --- Health & metrics server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			status := "ready"
			code := http.StatusOK
			if err := pg.Ping(r.Context()); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
			if err := camundaClient.HealthCheck(r.Context()); err != nil {
				status = "degraded"
				code = http.StatusServiceUnavailable
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(code)
			json.NewEncoder(w).Encode(map[string]string{
				"status": status,
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop(shutdownCtx)
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
