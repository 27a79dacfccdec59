package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ConversationCreated()
	m.MessageSent()
	m.MessageSent()
	m.TopicUpdated("custody", "seeker")
	m.ShortlistAdded()
	m.CacheLookup("hit")
	m.CacheLookup("miss")
	m.CacheLookup("miss")
	m.ObserveHTTP("GET", "/api/v1/discover", "200", 0.01)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ConversationsCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.MessagesSent))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TopicUpdates.WithLabelValues("custody", "seeker")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ShortlistAdds))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DiscoverCache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/v1/discover", "200")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ConversationCreated()
		m.MessageSent()
		m.TopicUpdated("legal", "candidate")
		m.ShortlistAdded()
		m.CacheLookup("error")
		m.ObserveHTTP("POST", "/x", "500", 1)
	})
}
