// Package workers provides a fixed-size worker pool that runs message
// handling tasks with a bounded number of goroutines.
package workers

import (
	"context"
	"errors"
	"time"
)

// ErrPoolStopped is returned when submitting to a stopped pool.
var ErrPoolStopped = errors.New("worker pool is stopped")

// Task represents a unit of work to be executed by a worker.
type Task struct {
	ID  string                    // Identifier used in logs
	Run func(ctx context.Context) // Work to perform
	Ctx context.Context           // Context handed to Run; defaults to the pool context
}

// PoolMetrics tracks execution metrics for the worker pool.
type PoolMetrics struct {
	TasksSubmitted uint64
	TasksCompleted uint64
	TasksPanicked  uint64
	TotalDuration  time.Duration
}

// Constants for worker pool configuration
const (
	DefaultPoolSize  = 5
	DefaultQueueSize = 100
)
