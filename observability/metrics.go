package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pairchat"

// Metrics groups the counters exported on /metrics.
// Each instance owns its registry so tests can build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	ConversationsCreated prometheus.Counter
	MessagesPosted       prometheus.Counter
	IndexErrors          prometheus.Counter
	IndexQueueDepth      prometheus.Gauge
	// Failures is labelled by the operation whose Result was a failure.
	Failures *prometheus.CounterVec
	// Requests is labelled by transport, route and status.
	Requests *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		ConversationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversations_created_total",
			Help:      "Conversations created by find-or-create.",
		}),
		MessagesPosted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_posted_total",
			Help:      "Messages persisted.",
		}),
		IndexErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_errors_total",
			Help:      "Messages persisted but not indexed for search.",
		}),
		IndexQueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_queue_depth",
			Help:      "Messages waiting for the search index.",
		}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Operations that returned a failure result.",
		}, []string{"operation"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Requests served, by transport, route and status.",
		}, []string{"transport", "route", "status"}),
	}

	registry.MustRegister(
		m.ConversationsCreated,
		m.MessagesPosted,
		m.IndexErrors,
		m.IndexQueueDepth,
		m.Failures,
		m.Requests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Failure(operation string) {
	m.Failures.WithLabelValues(operation).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
