package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveRequest(t *testing.T) {
	c := New()
	c.ObserveRequest("get", OutcomeMocked, time.Millisecond)
	c.ObserveRequest("GET", OutcomeMocked, time.Millisecond)
	c.ObserveRequest("post", OutcomeError, time.Millisecond)
	c.ObserveRequest("get", OutcomeUnmatched, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.RequestsTotal.WithLabelValues("GET", OutcomeMocked)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RequestsTotal.WithLabelValues("POST", OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.RequestsTotal.WithLabelValues("GET", OutcomeUnmatched)))
	assert.Equal(t, 3, testutil.CollectAndCount(c.RequestsTotal))
}

func TestCollector_RoutesAndReloads(t *testing.T) {
	c := New()
	c.SetRoutes(7)
	c.ObserveReload(nil)
	c.ObserveReload(errors.New("bad document"))
	c.ObserveReload(errors.New("bad document"))

	assert.Equal(t, 7.0, testutil.ToFloat64(c.Routes))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.ReloadsTotal.WithLabelValues(ReloadSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.ReloadsTotal.WithLabelValues(ReloadFailure)))
}

func TestCollector_Handler(t *testing.T) {
	c := New(WithBuckets(0.01, 0.1))
	c.ObserveRequest("GET", OutcomeMocked, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `specmock_requests_total{method="GET",outcome="mocked"} 1`)
	assert.Contains(t, string(body), `specmock_generation_duration_seconds_bucket{le="0.01"} 1`)
}

func TestCollector_Nil(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveRequest("GET", OutcomeMocked, time.Second)
		c.SetRoutes(1)
		c.ObserveReload(nil)
	})
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCollector_RuntimeMetrics(t *testing.T) {
	c := New(WithRuntimeMetrics())
	families, err := c.Registry().Gather()
	require.NoError(t, err)

	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "go_goroutines")
}
