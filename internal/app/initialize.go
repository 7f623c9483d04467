package app

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aatumaykin/cqbot/internal/bus"
	"github.com/aatumaykin/cqbot/internal/commands"
	"github.com/aatumaykin/cqbot/internal/constants"
	"github.com/aatumaykin/cqbot/internal/cron"
	"github.com/aatumaykin/cqbot/internal/dispatch"
	"github.com/aatumaykin/cqbot/internal/fetch"
	"github.com/aatumaykin/cqbot/internal/logger"
	"github.com/aatumaykin/cqbot/internal/metrics"
	"github.com/aatumaykin/cqbot/internal/router"
	"github.com/aatumaykin/cqbot/internal/transport"
	"github.com/aatumaykin/cqbot/internal/workers"
)

// initialize builds every component that does not need the connection.
func (a *App) initialize() error {
	cfg := a.config

	a.metrics = metrics.New(constants.MetricsNamespace, a.registry)
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a.queue = bus.NewQueue()
	a.metrics.RegisterQueueDepth(constants.MetricsNamespace, a.queue.Len)

	table, err := commands.NewBuiltinTable(commands.Deps{
		Rand:      a.rand,
		Fetcher:   fetch.New(time.Duration(cfg.Handlers.HTTPTimeoutSeconds) * time.Second),
		MealsPath: cfg.Handlers.EatDataPath,
		CatURL:    cfg.Handlers.CatAPIURL,
		DogURL:    cfg.Handlers.DogAPIURL,
		PoemURL:   cfg.Handlers.PoemAPIURL,
		Logger:    a.logger.With(logger.Field{Key: "component", Value: "commands"}),
	})
	if err != nil {
		return fmt.Errorf("failed to build command table: %w", err)
	}
	a.router = router.New(table, a.logger.With(logger.Field{Key: "component", Value: "router"}))

	var spawner dispatch.Spawner = dispatch.Unbounded{}
	if cfg.Dispatch.MaxWorkers > 0 {
		a.pool = workers.NewPool(cfg.Dispatch.MaxWorkers, cfg.Dispatch.QueueSize,
			a.logger.With(logger.Field{Key: "component", Value: "workers"}))
		spawner = a.pool
	}

	handlerPub := bus.NewPublisher(a.queue, metrics.SourceHandler, a.logger, a.metrics)
	a.dispatcher = dispatch.New(a.router, handlerPub, spawner,
		a.logger.With(logger.Field{Key: "component", Value: "dispatcher"}), a.metrics)

	if cfg.Broadcast.IsEnabled() {
		schedulerPub := bus.NewPublisher(a.queue, metrics.SourceScheduler, a.logger, a.metrics)
		a.scheduler, err = cron.NewScheduler(cron.Config{
			Schedule: cfg.Broadcast.Schedule,
			Timezone: cfg.Broadcast.Timezone,
			GroupID:  cfg.Broadcast.GroupID,
			Message:  cfg.Broadcast.Message,
		}, schedulerPub, a.clock, a.logger.With(logger.Field{Key: "component", Value: "scheduler"}), a.metrics)
		if err != nil {
			return fmt.Errorf("failed to create broadcast scheduler: %w", err)
		}
	}

	return nil
}

func (a *App) transportOptions() transport.Options {
	cfg := a.config.Transport
	return transport.Options{
		AccessToken:  cfg.AccessToken,
		ReadLimit:    cfg.ReadLimitBytes,
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
		Logger:       a.logger.With(logger.Field{Key: "component", Value: "transport"}),
		Metrics:      a.metrics,
	}
}
