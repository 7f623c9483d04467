package workers

import (
	"fmt"
	"time"

	"github.com/aatumaykin/cqbot/internal/logger"
)

// worker is the main worker goroutine that processes tasks from the queue.
func (p *Pool) worker(id int) {
	defer p.wg.Done()

	p.logger.DebugCtx(p.ctx, "worker started",
		logger.Field{Key: "worker_id", Value: id})

	for {
		select {
		case <-p.ctx.Done():
			p.logger.DebugCtx(p.ctx, "worker stopping",
				logger.Field{Key: "worker_id", Value: id})
			return
		case task := <-p.taskQueue:
			p.processTask(id, task)
		}
	}
}

// processTask runs one task. A panicking task is logged and counted; the
// worker keeps serving the queue.
func (p *Pool) processTask(workerID int, task Task) {
	start := time.Now()
	panicked := false

	defer func() {
		if r := recover(); r != nil {
			panicked = true
			p.logger.Error("task panic recovered",
				fmt.Errorf("panic: %v", r),
				logger.Field{Key: "worker_id", Value: workerID},
				logger.Field{Key: "task_id", Value: task.ID})
		}
		p.recordDone(time.Since(start), panicked)
	}()

	execCtx := p.ctx
	if task.Ctx != nil {
		execCtx = task.Ctx
	}
	if task.Run != nil {
		task.Run(execCtx)
	}
}
