package workers

import (
	"time"
)

// Metrics returns the current pool metrics.
func (p *Pool) Metrics() PoolMetrics {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.metrics
}

func (p *Pool) incrementSubmitted() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.metrics.TasksSubmitted++
}

// recordDone counts a finished task and its duration.
func (p *Pool) recordDone(d time.Duration, panicked bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if panicked {
		p.metrics.TasksPanicked++
	} else {
		p.metrics.TasksCompleted++
	}
	p.metrics.TotalDuration += d
}
