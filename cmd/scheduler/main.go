package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"rental_portal_backend/internal/events"
	"rental_portal_backend/internal/leads"
	"rental_portal_backend/internal/leads/cache"
	"rental_portal_backend/internal/scheduler"
	"rental_portal_backend/platform/config"
	"rental_portal_backend/platform/db"
	"rental_portal_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	rdb, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Warn("redis cache unavailable; snapshots will not warm the cache", "error", err)
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	eventBus := events.NewInMemoryBus(log)
	leadService := leads.NewService(pool, eventBus, cfg, log, rdb)

	cron, err := scheduler.NewCron(cfg, log)
	if err != nil {
		log.Error("failed to initialize periodic tasks", "error", err)
		panic("failed to initialize periodic tasks: " + err.Error())
	}
	if err := cron.Start(); err != nil {
		log.Error("failed to start periodic tasks", "error", err)
		panic("failed to start periodic tasks: " + err.Error())
	}
	defer cron.Shutdown()

	// Warm the metrics cache and record a snapshot as soon as the worker is up.
	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()
	if err := client.EnqueueMetricsSnapshot(ctx, "startup"); err != nil {
		log.Warn("startup metrics snapshot not enqueued", "error", err)
	}

	worker, err := scheduler.NewWorker(cfg, leadService, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}
