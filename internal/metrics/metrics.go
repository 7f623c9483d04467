// Package metrics holds the Prometheus collectors for the dispatch engine.
// Every method is safe to call on a nil *Metrics so components can run
// without instrumentation in tests.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Inbound event results.
const (
	ResultDecoded = "decoded"
	ResultDropped = "dropped"
)

// Reply sources.
const (
	SourceHandler   = "handler"
	SourceScheduler = "scheduler"
)

type Metrics struct {
	registry        prometheus.Registerer
	inboundEvents   *prometheus.CounterVec
	tasksInFlight   prometheus.Gauge
	taskPanics      prometheus.Counter
	handlerDuration prometheus.Histogram
	repliesEnqueued *prometheus.CounterVec
	enqueueFailures *prometheus.CounterVec
	framesWritten   prometheus.Counter
	writeErrors     prometheus.Counter
	broadcasts      prometheus.Counter
}

// New creates the collectors and registers them on reg. A nil reg means the
// default registerer.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		registry: reg,
		inboundEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inbound_events_total",
				Help:      "Inbound transport events by decode result",
			},
			[]string{"result"},
		),
		tasksInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "handler_tasks_in_flight",
				Help:      "Handler tasks currently running",
			},
		),
		taskPanics: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "handler_task_panics_total",
				Help:      "Handler tasks that panicked and were recovered",
			},
		),
		handlerDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "handler_task_duration_seconds",
				Help:      "Time from spawn to completion of a handler task",
				Buckets:   []float64{.001, .01, .05, .1, .5, 1, 2.5, 5, 10},
			},
		),
		repliesEnqueued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "replies_enqueued_total",
				Help:      "Replies accepted by the outbound queue",
			},
			[]string{"source"},
		),
		enqueueFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "enqueue_failures_total",
				Help:      "Replies rejected by the outbound queue",
			},
			[]string{"source"},
		),
		framesWritten: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "frames_written_total",
				Help:      "Frames written to the transport",
			},
		),
		writeErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "write_errors_total",
				Help:      "Transport write failures",
			},
		),
		broadcasts: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scheduled_broadcasts_total",
				Help:      "Scheduled broadcasts fired",
			},
		),
	}

	reg.MustRegister(
		m.inboundEvents,
		m.tasksInFlight,
		m.taskPanics,
		m.handlerDuration,
		m.repliesEnqueued,
		m.enqueueFailures,
		m.framesWritten,
		m.writeErrors,
		m.broadcasts,
	)

	return m
}

// RegisterQueueDepth exposes the outbound queue length as a gauge.
func (m *Metrics) RegisterQueueDepth(namespace string, depth func() int) {
	if m == nil {
		return
	}
	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "outbound_queue_depth",
			Help:      "Frames waiting for the writer",
		},
		func() float64 { return float64(depth()) },
	))
}

func (m *Metrics) InboundEvent(result string) {
	if m == nil {
		return
	}
	m.inboundEvents.WithLabelValues(result).Inc()
}

// TaskStarted marks a handler task as running and returns the func that
// records its completion.
func (m *Metrics) TaskStarted() func() {
	if m == nil {
		return func() {}
	}
	start := time.Now()
	m.tasksInFlight.Inc()
	return func() {
		m.tasksInFlight.Dec()
		m.handlerDuration.Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) TaskPanicked() {
	if m == nil {
		return
	}
	m.taskPanics.Inc()
}

func (m *Metrics) ReplyEnqueued(source string) {
	if m == nil {
		return
	}
	m.repliesEnqueued.WithLabelValues(source).Inc()
}

func (m *Metrics) EnqueueFailed(source string) {
	if m == nil {
		return
	}
	m.enqueueFailures.WithLabelValues(source).Inc()
}

func (m *Metrics) FrameWritten() {
	if m == nil {
		return
	}
	m.framesWritten.Inc()
}

func (m *Metrics) WriteFailed() {
	if m == nil {
		return
	}
	m.writeErrors.Inc()
}

func (m *Metrics) BroadcastFired() {
	if m == nil {
		return
	}
	m.broadcasts.Inc()
}

// Handler serves the collectors of g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
