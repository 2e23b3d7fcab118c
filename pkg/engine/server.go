package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/urfave/negroni"

	"github.com/getmockd/specmock/pkg/httputil"
	"github.com/getmockd/specmock/pkg/logging"
	"github.com/getmockd/specmock/pkg/metrics"
	"github.com/getmockd/specmock/pkg/requestlog"
)

// AdminPrefix is the path prefix of the built-in endpoints.
const AdminPrefix = "/__specmock"

// Server is the mock HTTP server.
type Server struct {
	addr       string
	dispatcher *Dispatcher
	metrics    *metrics.Collector
	handlerOpt []HandlerOption
	requests   requestlog.Store
	log        *slog.Logger

	httpServer *http.Server
	listener   net.Listener
	mu         sync.RWMutex
	running    bool
	startTime  time.Time
}

// ServerOption is a functional option for configuring a Server.
type ServerOption func(*Server)

// WithServerLogger sets the operational and access logger.
func WithServerLogger(log *slog.Logger) ServerOption {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithServerMetrics exposes c on the metrics endpoint.
func WithServerMetrics(c *metrics.Collector) ServerOption {
	return func(s *Server) { s.metrics = c }
}

// WithRequestLog records mock traffic in store and serves it on the
// requests endpoint.
func WithRequestLog(store requestlog.Store) ServerOption {
	return func(s *Server) { s.requests = store }
}

// WithHandlerOptions passes options to the mock handler.
func WithHandlerOptions(opts ...HandlerOption) ServerOption {
	return func(s *Server) { s.handlerOpt = append(s.handlerOpt, opts...) }
}

// NewServer creates a server listening on addr once started.
func NewServer(addr string, d *Dispatcher, opts ...ServerOption) *Server {
	s := &Server{
		addr:       addr,
		dispatcher: d,
		log:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.Component(s.log, "server")
	return s
}

// Handler builds the full HTTP handler: admin endpoints, the catch-all mock
// handler, access logging and panic recovery.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	admin := r.PathPrefix(AdminPrefix).Subrouter()
	admin.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	admin.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	admin.HandleFunc("/routes", s.handleRoutes).Methods(http.MethodGet)
	admin.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	opts := append([]HandlerOption{WithHandlerLogger(s.log)}, s.handlerOpt...)
	if s.requests != nil {
		admin.HandleFunc("/requests", s.handleListRequests).Methods(http.MethodGet)
		admin.HandleFunc("/requests", s.handleClearRequests).Methods(http.MethodDelete)
		admin.HandleFunc("/requests/{id}", s.handleGetRequest).Methods(http.MethodGet)
		opts = append(opts, WithHandlerRequestLog(s.requests))
	}
	r.PathPrefix("/").Handler(NewHandler(s.dispatcher, opts...))
	r.Use(s.logMiddleware)

	recovery := negroni.NewRecovery()
	recovery.Logger = slogPrinter{s.log}
	recovery.PrintStack = false

	n := negroni.New(recovery)
	n.UseHandler(r)
	return n
}

// logMiddleware tags each request with an ID and writes one access log line.
// An incoming X-Request-Id is kept.
func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		ww := negroni.NewResponseWriter(w)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.RequestURI,
			"status", ww.Status(),
			"bytes", ww.Size(),
			"duration", time.Since(start),
		)
	})
}

// Start binds the listener and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server already running")
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.addr, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.running = true
	s.startTime = time.Now()

	srv := s.httpServer
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("server error", "error", err)
		}
	}()
	s.log.Info("mock server listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false
	s.listener = nil
	return s.httpServer.Shutdown(ctx)
}

// Uptime returns how long the server has been running.
func (s *Server) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return time.Since(s.startTime)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"uptime":    int(s.Uptime().Seconds()),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	select {
	case <-s.dispatcher.Ready():
	default:
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "preparing"})
		return
	}
	snap := s.dispatcher.Snapshot()
	if snap == nil {
		httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "failed"})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "ready",
		"routes":  snap.Table.Len(),
		"builtAt": snap.BuiltAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleRoutes(w http.ResponseWriter, _ *http.Request) {
	snap := s.dispatcher.Snapshot()
	if snap == nil {
		httputil.WriteServiceUnavailable(w, "not_ready", ErrNotReady.Error())
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"title":    snap.Title,
		"basePath": snap.Table.BasePath(),
		"routes":   snap.Routes(),
		"shadowed": snap.Shadowed(),
	})
}

func (s *Server) handleListRequests(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := &requestlog.Filter{
		Method:  q.Get("method"),
		Path:    q.Get("path"),
		Route:   q.Get("route"),
		Outcome: q.Get("outcome"),
	}
	for name, dst := range map[string]*int{
		"status": &filter.StatusCode,
		"limit":  &filter.Limit,
		"offset": &filter.Offset,
	} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httputil.WriteError(w, http.StatusBadRequest, "invalid_query", name+" must be a non-negative integer")
			return
		}
		*dst = n
	}

	entries := s.requests.List(filter)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"requests": entries,
		"count":    len(entries),
		"total":    s.requests.Count(),
	})
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	entry := s.requests.Get(id)
	if entry == nil {
		httputil.WriteNotFound(w, "not_found", "no request with id "+id)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, entry)
}

func (s *Server) handleClearRequests(w http.ResponseWriter, _ *http.Request) {
	s.requests.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// slogPrinter adapts a slog.Logger to negroni's ALogger.
type slogPrinter struct{ log *slog.Logger }

func (p slogPrinter) Println(v ...interface{}) { p.log.Error(fmt.Sprint(v...)) }

func (p slogPrinter) Printf(format string, v ...interface{}) {
	p.log.Error(fmt.Sprintf(format, v...))
}
