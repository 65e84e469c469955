package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Independent_Registries(t *testing.T) {
	req := require.New(t)

	// Two servers in one process must not collide
	first := NewMetrics(prometheus.NewRegistry())
	second := NewMetrics(prometheus.NewRegistry())

	first.PeersConnected.Inc()

	req.Equal(float64(1), testutil.ToFloat64(first.PeersConnected))
	req.Zero(testutil.ToFloat64(second.PeersConnected))
}

func TestMetricsHandler_Exposes_Counters(t *testing.T) {
	req := require.New(t)
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	metrics.FramesDropped.WithLabelValues("queue_full").Add(3)

	rec := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	req.Equal(http.StatusOK, rec.Code)
	req.Contains(rec.Body.String(), `lanchat_frames_dropped_total{reason="queue_full"} 3`)
	req.Contains(rec.Body.String(), "lanchat_peers_connected 0")
}
