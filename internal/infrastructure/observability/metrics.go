// Package observability holds the Prometheus collectors for the HTTP layer and the
// domain use cases.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "coparent"

// Metrics groups every collector the service registers. A nil *Metrics is valid
// and records nothing, which keeps use case tests free of registry setup.
type Metrics struct {
	// HTTPRequestsTotal counts requests by method, route and status code.
	HTTPRequestsTotal *prometheus.CounterVec
	// HTTPRequestDuration measures handler latency by method and route.
	HTTPRequestDuration *prometheus.HistogramVec

	ConversationsCreated prometheus.Counter
	MessagesSent         prometheus.Counter
	// TopicUpdates counts coverage writes by topic and party role.
	TopicUpdates  *prometheus.CounterVec
	ShortlistAdds prometheus.Counter
	// DiscoverCache counts discover cache lookups by result (hit, miss, error).
	DiscoverCache *prometheus.CounterVec
}

// NewMetrics registers all collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ConversationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "conversation",
			Name:      "created_total",
			Help:      "Conversations created by get-or-create.",
		}),
		MessagesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "conversation",
			Name:      "messages_sent_total",
			Help:      "Messages appended to conversations.",
		}),
		TopicUpdates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "conversation",
			Name:      "topic_updates_total",
			Help:      "Topic coverage writes by topic and role.",
		}, []string{"topic", "role"}),
		ShortlistAdds: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "shortlist",
			Name:      "adds_total",
			Help:      "New shortlist entries.",
		}),
		DiscoverCache: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "discover",
			Name:      "cache_lookups_total",
			Help:      "Discover cache lookups by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObserveHTTP(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func (m *Metrics) ConversationCreated() {
	if m == nil {
		return
	}
	m.ConversationsCreated.Inc()
}

func (m *Metrics) MessageSent() {
	if m == nil {
		return
	}
	m.MessagesSent.Inc()
}

func (m *Metrics) TopicUpdated(topic, role string) {
	if m == nil {
		return
	}
	m.TopicUpdates.WithLabelValues(topic, role).Inc()
}

func (m *Metrics) ShortlistAdded() {
	if m == nil {
		return
	}
	m.ShortlistAdds.Inc()
}

// CacheLookup records a discover cache result: "hit", "miss" or "error".
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.DiscoverCache.WithLabelValues(result).Inc()
}
