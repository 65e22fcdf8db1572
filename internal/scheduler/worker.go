package scheduler

import (
	"context"
	"fmt"
	"time"

	"rental_portal_backend/internal/leads/domain"
	"rental_portal_backend/internal/leads/metrics"
	"rental_portal_backend/platform/config"
	"rental_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// LeadJobs is the slice of the lead service the worker drives.
type LeadJobs interface {
	SnapshotMetrics(ctx context.Context) (metrics.Metrics, error)
	StaleInbox(ctx context.Context, olderThan time.Duration) ([]domain.Lead, error)
}

type Worker struct {
	server     *asynq.Server
	mux        *asynq.ServeMux
	jobs       LeadJobs
	staleAfter time.Duration
	log        *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, jobs LeadJobs, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	w := &Worker{
		server:     server,
		mux:        asynq.NewServeMux(),
		jobs:       jobs,
		staleAfter: cfg.GetInboxStaleAfter(),
		log:        log,
	}
	w.routes()

	return w, nil
}

func (w *Worker) routes() {
	w.mux.HandleFunc(TaskMetricsSnapshot, w.handleMetricsSnapshot)
	w.mux.HandleFunc(TaskInboxSweep, w.handleInboxSweep)
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleMetricsSnapshot(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseMetricsSnapshotPayload(task)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	m, err := w.jobs.SnapshotMetrics(ctx)
	if err != nil {
		return err
	}

	w.log.Info("lead metrics snapshot stored",
		"reason", payload.Reason,
		"total", m.Total,
		"unassigned", m.Unassigned,
		"completed", m.Completed,
		"conversion_rate", m.ConversionRate,
	)
	return nil
}

func (w *Worker) handleInboxSweep(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseInboxSweepPayload(task)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	stale, err := w.jobs.StaleInbox(ctx, w.staleAfter)
	if err != nil {
		return err
	}

	for _, lead := range stale {
		if payload.LeadID != "" && lead.ID.String() != payload.LeadID {
			continue
		}
		source := ""
		if lead.Source != nil {
			source = *lead.Source
		}
		w.log.Warn("lead waiting in inbox",
			"lead_id", lead.ID.String(),
			"created_at", lead.CreatedAt.Format(time.RFC3339),
			"source", source,
		)
	}
	return nil
}
