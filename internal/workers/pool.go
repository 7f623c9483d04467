package workers

import (
	"context"
	"sync"

	"github.com/aatumaykin/cqbot/internal/logger"
)

// Pool manages a pool of goroutine workers for concurrent task execution.
type Pool struct {
	taskQueue chan Task
	workers   int
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	logger    *logger.Logger

	mu       sync.RWMutex
	metrics  PoolMetrics
	started  bool
	stopOnce sync.Once
}

// NewPool creates a new worker pool. Non-positive sizes fall back to the
// defaults.
func NewPool(workers int, bufferSize int, log *logger.Logger) *Pool {
	if workers <= 0 {
		workers = DefaultPoolSize
	}
	if bufferSize < 0 {
		bufferSize = DefaultQueueSize
	}
	if log == nil {
		log = logger.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Pool{
		taskQueue: make(chan Task, bufferSize),
		workers:   workers,
		ctx:       ctx,
		cancel:    cancel,
		logger:    log,
	}
}

// Start initializes and starts all worker goroutines.
func (p *Pool) Start() {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	p.logger.Info("starting worker pool",
		logger.Field{Key: "workers", Value: p.workers},
		logger.Field{Key: "buffer_size", Value: cap(p.taskQueue)})

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Submit queues a task. It blocks while the queue is full, until ctx is done
// or the pool stops.
func (p *Pool) Submit(ctx context.Context, task Task) error {
	select {
	case <-p.ctx.Done():
		return ErrPoolStopped
	default:
	}

	select {
	case p.taskQueue <- task:
		p.incrementSubmitted()
		p.logger.DebugCtx(ctx, "task submitted",
			logger.Field{Key: "task_id", Value: task.ID})
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolStopped
	}
}

// Spawn submits fn as a task, so the pool can stand in for a goroutine
// per message.
func (p *Pool) Spawn(ctx context.Context, id string, fn func(context.Context)) error {
	return p.Submit(ctx, Task{ID: id, Run: fn, Ctx: context.WithoutCancel(ctx)})
}

// Stop shuts the pool down. Workers finish the task they are running; queued
// tasks that were not picked up are dropped.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() {
		p.cancel()
		p.wg.Wait()

		dropped := len(p.taskQueue)
		metrics := p.Metrics()
		p.logger.Info("worker pool stopped",
			logger.Field{Key: "tasks_submitted", Value: metrics.TasksSubmitted},
			logger.Field{Key: "tasks_completed", Value: metrics.TasksCompleted},
			logger.Field{Key: "tasks_panicked", Value: metrics.TasksPanicked},
			logger.Field{Key: "tasks_dropped", Value: dropped})
	})
}

// WorkerCount returns the number of workers.
func (p *Pool) WorkerCount() int {
	return p.workers
}

// QueueSize returns the current number of tasks waiting in the queue.
func (p *Pool) QueueSize() int {
	return len(p.taskQueue)
}
