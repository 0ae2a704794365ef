package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Are_Exposed(t *testing.T) {
	req := require.New(t)
	m := NewMetrics()

	m.MessagesPosted.Inc()
	m.Failure("post_message")
	m.Failure("post_message")

	req.Equal(float64(1), testutil.ToFloat64(m.MessagesPosted))
	req.Equal(float64(2), testutil.ToFloat64(m.Failures.WithLabelValues("post_message")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	req.Equal(http.StatusOK, rec.Code)
	req.Contains(rec.Body.String(), "pairchat_messages_posted_total 1")
	req.Contains(rec.Body.String(), `pairchat_operation_failures_total{operation="post_message"} 2`)
}

func TestMetrics_Instances_Are_Independent(t *testing.T) {
	first, second := NewMetrics(), NewMetrics()
	first.ConversationsCreated.Inc()

	require.Equal(t, float64(0), testutil.ToFloat64(second.ConversationsCreated))
}

func TestStatsCollector(t *testing.T) {
	req := require.New(t)
	stats := NewStatsCollector().Collect()

	req.Equal("ok", stats.Status)
	req.Positive(stats.Goroutines)
}
