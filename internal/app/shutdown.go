package app

import (
	"context"
	"net/http"
	"time"

	"github.com/aatumaykin/cqbot/internal/logger"
)

const shutdownTimeout = 5 * time.Second

// shutdown stops components in order: no more outbound frames are accepted,
// the connection is closed so the reader unblocks, then the metrics server
// and worker pool stop. In-flight handler tasks are abandoned; their late
// replies fail to enqueue and are logged by the publisher.
func (a *App) shutdown(metricsServer *http.Server) {
	a.shutdownOnce.Do(func() {
		a.logger.Info("shutting down")

		if a.queue != nil {
			a.queue.Close()
		}

		if a.conn != nil {
			if err := a.conn.Close(); err != nil {
				a.logger.Debug("connection close", logger.Field{Key: "error", Value: err.Error()})
			}
		}

		if metricsServer != nil {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := metricsServer.Shutdown(ctx); err != nil {
				a.logger.Warn("metrics server shutdown failed", logger.Field{Key: "error", Value: err.Error()})
			}
		}

		if a.pool != nil {
			// Workers finish their current task first; do not hold up exit on them.
			go a.pool.Stop()
		}

		a.logger.Info("shutdown complete")
	})
}
