package scheduler

import (
	"fmt"
	"time"

	"rental_portal_backend/platform/config"
	"rental_portal_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// CronConfig adds the pipeline timezone so cron specs run on local days.
type CronConfig interface {
	config.SchedulerConfig
	GetLeadsTimezone() *time.Location
}

// NewCron registers the periodic lead jobs. Empty cron specs disable a job.
func NewCron(cfg CronConfig, log *logger.Logger) (*asynq.Scheduler, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	sched := asynq.NewScheduler(opt, &asynq.SchedulerOpts{
		Location: cfg.GetLeadsTimezone(),
		PostEnqueueFunc: func(info *asynq.TaskInfo, err error) {
			if err != nil {
				log.Error("periodic task enqueue failed", "error", err)
				return
			}
			log.Debug("periodic task enqueued", "task", info.Type, "id", info.ID)
		},
	})

	queue := queueName(cfg)

	entries, err := periodicTasks(cfg)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if _, err := sched.Register(entry.spec, entry.task, asynq.Queue(queue)); err != nil {
			return nil, fmt.Errorf("register %s: %w", entry.task.Type(), err)
		}
		log.Info("periodic task registered", "task", entry.task.Type(), "cron", entry.spec)
	}

	return sched, nil
}

type periodicTask struct {
	spec string
	task *asynq.Task
}

func periodicTasks(cfg config.SchedulerConfig) ([]periodicTask, error) {
	var entries []periodicTask

	if spec := cfg.GetMetricsSnapshotCron(); spec != "" {
		task, err := NewMetricsSnapshotTask(MetricsSnapshotPayload{Reason: "cron"})
		if err != nil {
			return nil, err
		}
		entries = append(entries, periodicTask{spec: spec, task: task})
	}

	if spec := cfg.GetInboxSweepCron(); spec != "" {
		task, err := NewInboxSweepTask(InboxSweepPayload{})
		if err != nil {
			return nil, err
		}
		entries = append(entries, periodicTask{spec: spec, task: task})
	}

	return entries, nil
}
