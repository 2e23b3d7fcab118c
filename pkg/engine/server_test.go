package engine

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/specmock/pkg/generator"
	"github.com/getmockd/specmock/pkg/httputil"
	"github.com/getmockd/specmock/pkg/metrics"
	"github.com/getmockd/specmock/pkg/requestlog"
)

func serve(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHandler_ServesEnvelopes(t *testing.T) {
	h := NewHandler(readyDispatcher(t))

	rec := serve(t, h, http.MethodGet, "/widgets/42?verbose=1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "id")
	assert.Contains(t, body, "count")

	rec = serve(t, h, http.MethodGet, "/broken")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message": "GET /broken: no generator strategy`)

	rec = serve(t, h, http.MethodDelete, "/widgets/42")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHandler_HeadOmitsBody(t *testing.T) {
	rec := serve(t, NewHandler(readyDispatcher(t)), http.MethodHead, "/widgets/1")
	assert.Equal(t, http.StatusNotFound, rec.Code, "HEAD is matched as its own method")

	doc := widgetDocument(t)
	doc.Routes.Add("/widgets/{id}", "head", doc.Routes["/widgets/{id}"]["get"])
	snap, err := BuildSnapshot(doc, generator.New(), BuildOptions{})
	require.NoError(t, err)
	d := NewDispatcher()
	d.Install(snap)

	rec = serve(t, NewHandler(d), http.MethodHead, "/widgets/1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("Content-Length"))
	assert.Empty(t, rec.Body.String())
}

func TestHandler_NotFoundAndPassthrough(t *testing.T) {
	d := readyDispatcher(t)

	rec := serve(t, NewHandler(d), http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body httputil.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "no_route", body.Error)
	assert.Equal(t, "no mock defined for GET /nope", body.Message)

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	rec = serve(t, NewHandler(d, WithPassthrough(next)), http.MethodGet, "/nope")
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestHandler_NotReady(t *testing.T) {
	d := NewDispatcher()
	d.Start(context.Background(), func(context.Context) (*Snapshot, error) {
		return BuildSnapshot(nil, nil, BuildOptions{})
	})
	<-d.Ready()

	rec := serve(t, NewHandler(d), http.MethodGet, "/widgets/1")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_ready")
}

func TestHandler_RecordsRequests(t *testing.T) {
	store := requestlog.NewMemoryStore(10)
	teapot := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	d := readyDispatcher(t)

	h := NewHandler(d, WithHandlerRequestLog(store))
	serve(t, h, http.MethodGet, "/widgets/42?verbose=1")
	serve(t, h, http.MethodGet, "/broken")
	serve(t, h, http.MethodGet, "/nope")
	serve(t, NewHandler(d, WithHandlerRequestLog(store), WithPassthrough(teapot)), http.MethodGet, "/elsewhere")

	entries := store.List(nil)
	require.Len(t, entries, 4)

	passthrough, unmatched, failed, mocked := entries[0], entries[1], entries[2], entries[3]
	assert.Equal(t, requestlog.OutcomePassthrough, passthrough.Outcome)
	assert.Equal(t, http.StatusTeapot, passthrough.ResponseStatus)

	assert.Equal(t, requestlog.OutcomeUnmatched, unmatched.Outcome)
	assert.Equal(t, http.StatusNotFound, unmatched.ResponseStatus)
	assert.Empty(t, unmatched.Route)

	assert.Equal(t, requestlog.OutcomeError, failed.Outcome)
	assert.Equal(t, "/broken", failed.Route)
	assert.Contains(t, failed.Error, "no generator strategy")

	assert.Equal(t, requestlog.OutcomeMocked, mocked.Outcome)
	assert.Equal(t, "/widgets/{id}", mocked.Route)
	assert.Equal(t, map[string]string{"id": "42"}, mocked.Params)
	assert.Equal(t, "verbose=1", mocked.QueryString)
	assert.Equal(t, http.StatusOK, mocked.ResponseStatus)
	assert.Positive(t, mocked.BodySize)
	assert.NotEmpty(t, mocked.ID)
}

func TestServer_RequestLogEndpoints(t *testing.T) {
	store := requestlog.NewMemoryStore(10)
	h := NewServer("127.0.0.1:0", readyDispatcher(t), WithRequestLog(store)).Handler()

	req := httptest.NewRequest(http.MethodGet, "/widgets/7", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-1", rec.Header().Get(RequestIDHeader))

	rec = serve(t, h, http.MethodGet, "/nope")
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))

	rec = serve(t, h, http.MethodGet, AdminPrefix+"/requests?outcome=mocked")
	assert.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Requests []requestlog.Entry `json:"requests"`
		Count    int                `json:"count"`
		Total    int                `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Equal(t, 1, listing.Count)
	assert.Equal(t, 2, listing.Total)
	require.Len(t, listing.Requests, 1)
	assert.Equal(t, "req-1", listing.Requests[0].ID)
	assert.Equal(t, "/widgets/{id}", listing.Requests[0].Route)

	rec = serve(t, h, http.MethodGet, AdminPrefix+"/requests/req-1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"path":"/widgets/7"`)

	rec = serve(t, h, http.MethodGet, AdminPrefix+"/requests/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(t, h, http.MethodGet, AdminPrefix+"/requests?limit=lots")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, h, http.MethodDelete, AdminPrefix+"/requests")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, store.Count())
}

func TestServer_AdminEndpoints(t *testing.T) {
	collector := metrics.New()
	d := readyDispatcher(t, WithMetrics(collector))
	h := NewServer("127.0.0.1:0", d, WithServerMetrics(collector)).Handler()

	rec := serve(t, h, http.MethodGet, AdminPrefix+"/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	rec = serve(t, h, http.MethodGet, AdminPrefix+"/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	var ready map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ready))
	assert.Equal(t, "ready", ready["status"])
	assert.EqualValues(t, 5, ready["routes"])

	rec = serve(t, h, http.MethodGet, AdminPrefix+"/routes")
	assert.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Title  string      `json:"title"`
		Routes []RouteInfo `json:"routes"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Equal(t, "Widgets", listing.Title)
	require.Len(t, listing.Routes, 5)
	assert.Equal(t, "/broken", listing.Routes[0].Template)

	serve(t, h, http.MethodGet, "/widgets/1")
	rec = serve(t, h, http.MethodGet, AdminPrefix+"/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `specmock_requests_total{method="GET",outcome="mocked"} 1`)

	rec = serve(t, h, http.MethodGet, "/widgets/1")
	assert.Equal(t, http.StatusOK, rec.Code, "mock routes are served through the catch-all")
}

func TestServer_ReadyBeforePreparation(t *testing.T) {
	d := NewDispatcher()
	h := NewServer(":0", d).Handler()

	rec := serve(t, h, http.MethodGet, AdminPrefix+"/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "preparing")

	rec = serve(t, h, http.MethodGet, AdminPrefix+"/routes")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_StartStop(t *testing.T) {
	s := NewServer("127.0.0.1:0", readyDispatcher(t))
	require.NoError(t, s.Start())
	assert.Error(t, s.Start(), "second start fails")

	resp, err := http.Get("http://" + s.Addr() + "/widgets/9")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"count":0`)
	assert.Greater(t, s.Uptime(), time.Duration(0))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	require.NoError(t, s.Stop(ctx))
	assert.Equal(t, time.Duration(0), s.Uptime())
}
