package specmocktest

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/getmockd/specmock/pkg/engine"
	"github.com/getmockd/specmock/pkg/generator"
	"github.com/getmockd/specmock/pkg/loader"
	"github.com/getmockd/specmock/pkg/requestlog"
)

type settings struct {
	basePath string
	genOpts  []generator.Option
}

// Option configures a Server.
type Option func(*settings)

// WithBasePath overrides the base path declared by the document.
func WithBasePath(p string) Option {
	return func(s *settings) { s.basePath = p }
}

// WithGeneratorOptions tunes value generation.
func WithGeneratorOptions(opts ...generator.Option) Option {
	return func(s *settings) { s.genOpts = append(s.genOpts, opts...) }
}

// Server is a running mock server.
type Server struct {
	// URL is the base URL of the form http://ipaddr:port with no trailing slash.
	URL string

	httpSrv    *httptest.Server
	dispatcher *engine.Dispatcher
	requests   *requestlog.MemoryStore
}

// NewServer starts a server for the document at path.
func NewServer(t testing.TB, path string, opts ...Option) *Server {
	t.Helper()
	doc, err := loader.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("specmocktest: load %s: %v", path, err)
	}
	return start(t, doc, opts)
}

// NewServerFromData starts a server for an in-memory document.
func NewServerFromData(t testing.TB, data []byte, opts ...Option) *Server {
	t.Helper()
	doc, err := loader.LoadData(context.Background(), data)
	if err != nil {
		t.Fatalf("specmocktest: load document: %v", err)
	}
	return start(t, doc, opts)
}

func start(t testing.TB, doc *loader.Document, opts []Option) *Server {
	t.Helper()
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	snap, err := engine.BuildSnapshot(doc, generator.New(s.genOpts...), engine.BuildOptions{BasePath: s.basePath})
	if err != nil {
		t.Fatalf("specmocktest: build route table: %v", err)
	}
	d := engine.NewDispatcher()
	d.Install(snap)

	store := requestlog.NewMemoryStore(0)
	srv := &Server{
		dispatcher: d,
		requests:   store,
	}
	srv.httpSrv = httptest.NewServer(engine.NewServer("", d, engine.WithRequestLog(store)).Handler())
	srv.URL = srv.httpSrv.URL
	t.Cleanup(srv.Close)
	return srv
}

// Close shuts the server down. It is safe to call more than once.
func (s *Server) Close() {
	s.httpSrv.Close()
}

// Snapshot returns the active route table.
func (s *Server) Snapshot() *engine.Snapshot { return s.dispatcher.Snapshot() }

// Requests returns the recorded requests, oldest first.
func (s *Server) Requests() []*requestlog.Entry {
	entries := s.requests.List(nil)
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries
}

// Reset clears the recorded requests.
func (s *Server) Reset() { s.requests.Clear() }

// CallCount returns how many requests were made with method and path.
func (s *Server) CallCount(method, path string) int {
	return len(s.requests.List(&requestlog.Filter{Method: method, Path: path, Exact: true}))
}

// RouteCallCount returns how many requests matched the route template.
func (s *Server) RouteCallCount(method, template string) int {
	return len(s.requests.List(&requestlog.Filter{Method: method, Route: template}))
}

// AssertCalled asserts at least one request was made with method and path.
func (s *Server) AssertCalled(t testing.TB, method, path string) bool {
	t.Helper()
	return assert.Positive(t, s.CallCount(method, path), "expected %s %s to be called\nrecorded:\n%s", method, path, s.describe())
}

// AssertNotCalled asserts no request was made with method and path.
func (s *Server) AssertNotCalled(t testing.TB, method, path string) bool {
	t.Helper()
	return assert.Zero(t, s.CallCount(method, path), "expected %s %s not to be called", method, path)
}

// AssertCalledTimes asserts the exact number of requests made with method and path.
func (s *Server) AssertCalledTimes(t testing.TB, method, path string, n int) bool {
	t.Helper()
	return assert.Equal(t, n, s.CallCount(method, path), "calls to %s %s", method, path)
}

// AssertRouteCalledTimes asserts the exact number of requests that matched
// the route template.
func (s *Server) AssertRouteCalledTimes(t testing.TB, method, template string, n int) bool {
	t.Helper()
	return assert.Equal(t, n, s.RouteCallCount(method, template), "calls to route %s %s", method, template)
}

// AssertAllMocked asserts every recorded request matched a route.
func (s *Server) AssertAllMocked(t testing.TB) bool {
	t.Helper()
	ok := true
	for _, e := range s.Requests() {
		if e.Outcome != requestlog.OutcomeMocked {
			assert.Fail(t, "request was not mocked", "%s %s: %s", e.Method, e.Path, e.Outcome)
			ok = false
		}
	}
	return ok
}

func (s *Server) describe() string {
	var b strings.Builder
	for _, e := range s.Requests() {
		b.WriteString("  " + e.Method + " " + e.Path + " (" + e.Outcome + ")\n")
	}
	if b.Len() == 0 {
		return "  (none)"
	}
	return b.String()
}
