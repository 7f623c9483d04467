package bus

import (
	"context"
	"errors"
	"sync"

	"github.com/aatumaykin/cqbot/internal/logger"
	"github.com/aatumaykin/cqbot/internal/metrics"
)

var ErrQueueClosed = errors.New("queue is closed")

// Queue is an unbounded FIFO of serialized frames with any number of
// producers and a single consumer. Push never blocks.
type Queue struct {
	mu     sync.Mutex
	items  [][]byte
	closed bool
	signal chan struct{}
}

// NewQueue creates an empty open queue.
func NewQueue() *Queue {
	return &Queue{signal: make(chan struct{}, 1)}
}

// Push appends a frame. It fails with ErrQueueClosed once Close was called.
func (q *Queue) Push(frame []byte) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	q.items = append(q.items, frame)
	q.mu.Unlock()

	q.notify()
	return nil
}

// Pop blocks until a frame is available, the queue is closed and drained
// (ErrQueueClosed), or ctx is done.
func (q *Queue) Pop(ctx context.Context) ([]byte, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			frame := q.items[0]
			q.items[0] = nil
			q.items = q.items[1:]
			q.mu.Unlock()
			return frame, nil
		}
		if q.closed {
			q.mu.Unlock()
			return nil, ErrQueueClosed
		}
		q.mu.Unlock()

		select {
		case <-q.signal:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Close stops accepting new frames. Frames already queued can still be popped.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.notify()
}

// Len returns the number of frames waiting.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) notify() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Publisher encodes replies and pushes them on a Queue on behalf of one
// kind of producer. Delivery failures are logged and reported, never fatal.
type Publisher struct {
	queue   *Queue
	source  string
	logger  *logger.Logger
	metrics *metrics.Metrics
}

// NewPublisher creates a publisher. source labels logs and metrics
// ("handler", "scheduler").
func NewPublisher(queue *Queue, source string, log *logger.Logger, m *metrics.Metrics) *Publisher {
	return &Publisher{
		queue:   queue,
		source:  source,
		logger:  log,
		metrics: m,
	}
}

// Publish encodes reply and enqueues it.
func (p *Publisher) Publish(ctx context.Context, reply OutboundReply) error {
	frame, err := reply.Encode()
	if err != nil {
		p.logger.ErrorCtx(ctx, "failed to encode reply", err,
			logger.Field{Key: "source", Value: p.source},
			logger.Field{Key: "text", Value: reply.Text})
		p.metrics.EnqueueFailed(p.source)
		return err
	}

	if err := p.queue.Push(frame); err != nil {
		p.logger.WarnCtx(ctx, "failed to deliver outbound message",
			logger.Field{Key: "source", Value: p.source},
			logger.Field{Key: "payload", Value: string(frame)},
			logger.Field{Key: "error", Value: err.Error()})
		p.metrics.EnqueueFailed(p.source)
		return err
	}

	p.metrics.ReplyEnqueued(p.source)
	p.logger.DebugCtx(ctx, "outbound message queued",
		logger.Field{Key: "source", Value: p.source},
		logger.Field{Key: "depth", Value: p.queue.Len()})
	return nil
}
