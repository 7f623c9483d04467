package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/aatumaykin/cqbot/internal/logger"
	"github.com/aatumaykin/cqbot/internal/metrics"
	"github.com/aatumaykin/cqbot/internal/transport"
)

// Run connects and serves until ctx is cancelled or a component stops. It
// returns nil after a cancellation and the first component error otherwise.
// A failed connection attempt is returned before anything starts.
func (a *App) Run(ctx context.Context) error {
	if err := a.initialize(); err != nil {
		return err
	}

	conn, err := transport.Dial(ctx, a.config.Transport.Address, a.transportOptions())
	if err != nil {
		return err
	}
	a.conn = conn

	if a.pool != nil {
		a.pool.Start()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	// Any component ending ends the bot.
	stopAll := func(name string) {
		a.logger.Info("component stopped", logger.Field{Key: "component", Value: name})
		cancel()
	}

	g.Go(func() error {
		defer stopAll("writer")
		return conn.Writer().Run(gctx, a.queue)
	})

	g.Go(func() error {
		defer stopAll("dispatcher")
		return a.dispatcher.Run(gctx, conn.Reader())
	})

	if a.scheduler != nil {
		g.Go(func() error {
			defer stopAll("scheduler")
			return a.scheduler.Run(gctx)
		})
	}

	var metricsServer *http.Server
	if a.config.Metrics.Enabled {
		metricsServer = a.newMetricsServer()
		g.Go(func() error {
			a.logger.Info("metrics endpoint listening",
				logger.Field{Key: "addr", Value: metricsServer.Addr})
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				cancel()
				return fmt.Errorf("metrics server failed: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.shutdown(metricsServer)
		return nil
	})

	err = g.Wait()
	if err != nil && errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		if transport.IsClosed(err) {
			a.logger.Warn("connection closed by peer", logger.Field{Key: "error", Value: err.Error()})
		} else {
			a.logger.Error("bot stopped with error", err)
		}
	}
	return err
}

func (a *App) newMetricsServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(a.registry))
	return &http.Server{
		Addr:    a.config.Metrics.ListenAddr,
		Handler: mux,
	}
}
