package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CountersAndHandler(t *testing.T) {
	r := New()

	r.PredictionsTotal.WithLabelValues("buy", "24h", "live").Inc()
	r.PredictionsTotal.WithLabelValues("buy", "24h", "live").Inc()
	r.UpstreamFallbacks.WithLabelValues("whales").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.PredictionsTotal.WithLabelValues("buy", "24h", "live")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.UpstreamFallbacks.WithLabelValues("whales")))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `whalepredictor_predictions_total{recommendation="buy",source="live",timeframe="24h"} 2`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNew_IndependentRegistries(t *testing.T) {
	// separate instances must not collide on registration
	a, b := New(), New()
	a.HTTPRequests.WithLabelValues("GET", "/api/health", "200").Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.HTTPRequests.WithLabelValues("GET", "/api/health", "200")))
}
