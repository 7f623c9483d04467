// Package cron fires the periodic group broadcast. Firing instants come from
// a robfig/cron/v3 schedule; waiting goes through an injectable Clock.
package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/aatumaykin/cqbot/internal/bus"
	"github.com/aatumaykin/cqbot/internal/logger"
	"github.com/aatumaykin/cqbot/internal/metrics"
)

// Publisher delivers the broadcast.
type Publisher interface {
	Publish(ctx context.Context, reply bus.OutboundReply) error
}

// Config describes the broadcast.
type Config struct {
	Schedule string
	Timezone string
	GroupID  uint64
	Message  string
}

// Scheduler publishes one group message at every firing instant.
type Scheduler struct {
	schedule  cron.Schedule
	cfg       Config
	publisher Publisher
	clock     Clock
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

// NewScheduler validates cfg and builds a scheduler. A nil clock means the
// system clock.
func NewScheduler(cfg Config, publisher Publisher, clock Clock, log *logger.Logger, m *metrics.Metrics) (*Scheduler, error) {
	schedule, err := ParseSchedule(cfg.Schedule, cfg.Timezone)
	if err != nil {
		return nil, err
	}
	if cfg.GroupID == 0 {
		return nil, fmt.Errorf("broadcast group id is required")
	}
	if clock == nil {
		clock = RealClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		schedule:  schedule,
		cfg:       cfg,
		publisher: publisher,
		clock:     clock,
		logger:    log,
		metrics:   m,
	}, nil
}

// NextFire returns the first firing instant strictly after t.
func (s *Scheduler) NextFire(t time.Time) time.Time {
	return s.schedule.Next(t)
}

// Run fires broadcasts until ctx is cancelled. The next instant is always
// computed from the current time, so missed firings are not replayed.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.InfoCtx(ctx, "broadcast scheduler started",
		logger.Field{Key: "schedule", Value: s.cfg.Schedule},
		logger.Field{Key: "timezone", Value: s.cfg.Timezone},
		logger.Field{Key: "group_id", Value: s.cfg.GroupID})

	for {
		now := s.clock.Now()
		next := s.schedule.Next(now)
		if next.IsZero() {
			s.logger.WarnCtx(ctx, "schedule has no future firing, scheduler exiting")
			return nil
		}

		s.logger.DebugCtx(ctx, "next broadcast scheduled",
			logger.Field{Key: "at", Value: next.Format(time.RFC3339)})

		select {
		case <-ctx.Done():
			s.logger.InfoCtx(ctx, "broadcast scheduler stopped")
			return nil
		case <-s.clock.After(next.Sub(now)):
		}

		// Woken early, e.g. by a wall-clock jump: recompute.
		if s.clock.Now().Before(next) {
			continue
		}

		s.fire(ctx)
	}
}

func (s *Scheduler) fire(ctx context.Context) {
	s.metrics.BroadcastFired()
	if err := s.publisher.Publish(ctx, bus.Broadcast(s.cfg.GroupID, s.cfg.Message)); err != nil {
		// The publisher has already logged the payload.
		return
	}
	s.logger.InfoCtx(ctx, "broadcast published",
		logger.Field{Key: "group_id", Value: s.cfg.GroupID})
}
