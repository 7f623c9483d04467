// Package dispatch reads inbound frames, decodes chat messages and runs one
// independent task per message that routes it and publishes the replies.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/aatumaykin/cqbot/internal/bus"
	"github.com/aatumaykin/cqbot/internal/logger"
	"github.com/aatumaykin/cqbot/internal/metrics"
)

// FrameSource yields inbound frames in delivery order. A nil frame with a
// nil error stands for a frame that carried no text.
type FrameSource interface {
	ReadFrame(ctx context.Context) ([]byte, error)
}

// Router computes the replies for one message.
type Router interface {
	Route(ctx context.Context, msg bus.IncomingMessage) []string
}

// Publisher delivers one reply.
type Publisher interface {
	Publish(ctx context.Context, reply bus.OutboundReply) error
}

// Dispatcher owns the inbound half of the connection.
type Dispatcher struct {
	router    Router
	publisher Publisher
	spawner   Spawner
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

// New creates a dispatcher. A nil spawner means one goroutine per message.
func New(router Router, publisher Publisher, spawner Spawner, log *logger.Logger, m *metrics.Metrics) *Dispatcher {
	if spawner == nil {
		spawner = Unbounded{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		router:    router,
		publisher: publisher,
		spawner:   spawner,
		logger:    log,
		metrics:   m,
	}
}

// Run reads frames until the source fails or ctx is cancelled. It never
// waits for the tasks it spawns.
func (d *Dispatcher) Run(ctx context.Context, source FrameSource) error {
	d.logger.InfoCtx(ctx, "dispatcher started")
	defer d.logger.InfoCtx(ctx, "dispatcher stopped")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame, err := source.ReadFrame(ctx)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("failed to read inbound frame: %w", err)
		}

		msg, ok := bus.DecodeInbound(frame)
		if !ok {
			d.metrics.InboundEvent(metrics.ResultDropped)
			d.logger.DebugCtx(ctx, "dropping undecodable frame",
				logger.Field{Key: "frame", Value: string(frame)})
			continue
		}
		d.metrics.InboundEvent(metrics.ResultDecoded)

		taskID := uuid.NewString()
		if err := d.spawner.Spawn(ctx, taskID, func(taskCtx context.Context) {
			d.handle(taskCtx, taskID, msg)
		}); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			d.logger.WarnCtx(ctx, "failed to start message task",
				logger.Field{Key: "task_id", Value: taskID},
				logger.Field{Key: "error", Value: err.Error()})
		}
	}
}

// handle routes one message and publishes every reply in order.
func (d *Dispatcher) handle(ctx context.Context, taskID string, msg bus.IncomingMessage) {
	done := d.metrics.TaskStarted()
	defer done()

	log := d.logger.With(
		logger.Field{Key: "task_id", Value: taskID},
		logger.Field{Key: "sender", Value: msg.SenderID})

	defer func() {
		if r := recover(); r != nil {
			d.metrics.TaskPanicked()
			log.ErrorCtx(ctx, "message task panicked", fmt.Errorf("panic: %v", r))
		}
	}()

	replies := d.router.Route(ctx, msg)
	log.DebugCtx(ctx, "message routed",
		logger.Field{Key: "group", Value: msg.IsGroup()},
		logger.Field{Key: "replies", Value: len(replies)})

	for _, text := range replies {
		if err := d.publisher.Publish(ctx, bus.ReplyTo(msg, text)); err != nil && errors.Is(err, bus.ErrQueueClosed) {
			// Shutting down: the rest would fail the same way.
			return
		}
	}
}
