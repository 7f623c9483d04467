// Package app wires the transport, dispatcher, writer and broadcast
// scheduler together and runs them until one of them stops.
package app

import (
	"math/rand/v2"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aatumaykin/cqbot/internal/bus"
	"github.com/aatumaykin/cqbot/internal/config"
	"github.com/aatumaykin/cqbot/internal/cron"
	"github.com/aatumaykin/cqbot/internal/dispatch"
	"github.com/aatumaykin/cqbot/internal/logger"
	"github.com/aatumaykin/cqbot/internal/metrics"
	"github.com/aatumaykin/cqbot/internal/router"
	"github.com/aatumaykin/cqbot/internal/transport"
	"github.com/aatumaykin/cqbot/internal/workers"
)

// App represents the running bot and owns every component's lifecycle.
type App struct {
	config *config.Config
	logger *logger.Logger

	// Injected for tests
	rand     *rand.Rand
	clock    cron.Clock
	registry *prometheus.Registry

	// Built by initialize
	metrics    *metrics.Metrics
	queue      *bus.Queue
	router     *router.Router
	dispatcher *dispatch.Dispatcher
	scheduler  *cron.Scheduler
	pool       *workers.Pool

	// Set once connected
	conn *transport.Conn

	shutdownOnce sync.Once
}

// Option customizes an App.
type Option func(*App)

// WithRand fixes the random source shared by the handlers.
func WithRand(r *rand.Rand) Option {
	return func(a *App) { a.rand = r }
}

// WithClock replaces the scheduler's clock.
func WithClock(c cron.Clock) Option {
	return func(a *App) { a.clock = c }
}

// WithRegistry registers metrics on reg instead of a fresh registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(a *App) { a.registry = reg }
}

// New creates an App. Nothing is started until Run.
func New(cfg *config.Config, log *logger.Logger, opts ...Option) *App {
	a := &App{
		config: cfg,
		logger: log,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logger.Nop()
	}
	if a.registry == nil {
		a.registry = prometheus.NewRegistry()
	}
	return a
}

// Registry returns the registry holding the bot's metrics.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}
