package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordAuth(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAuth("login", "success")
	c.RecordAuth("login", "success")
	c.RecordAuth("login", "invalid_credentials")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.auth.WithLabelValues("login", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.auth.WithLabelValues("login", "invalid_credentials")))
}

func TestCollector_ObserveRequestUsesUnmatchedRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.ObserveRequest(http.MethodGet, "", http.StatusNotFound, 5*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues(http.MethodGet, "unmatched", "404")))
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.ObserveRequest(http.MethodPost, "/api/cart", http.StatusCreated, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "frutolandia_http_requests_total")
	assert.Contains(t, string(body), "frutolandia_http_request_duration_seconds")
}
