package engine

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/urfave/negroni"

	"github.com/getmockd/specmock/pkg/httputil"
	"github.com/getmockd/specmock/pkg/logging"
	"github.com/getmockd/specmock/pkg/requestlog"
)

// RequestIDHeader carries the request ID assigned by the server.
const RequestIDHeader = "X-Request-Id"

// Handler serves mock envelopes over HTTP.
type Handler struct {
	dispatcher *Dispatcher
	next       http.Handler
	log        *slog.Logger
	requests   requestlog.Logger
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithPassthrough hands unmatched requests to next instead of answering 404.
func WithPassthrough(next http.Handler) HandlerOption {
	return func(h *Handler) { h.next = next }
}

// WithHandlerLogger sets the operational logger.
func WithHandlerLogger(log *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if log != nil {
			h.log = log
		}
	}
}

// WithHandlerRequestLog records every served request in l.
func WithHandlerRequestLog(l requestlog.Logger) HandlerOption {
	return func(h *Handler) { h.requests = l }
}

// NewHandler creates an HTTP handler backed by d.
func NewHandler(d *Dispatcher, opts ...HandlerOption) *Handler {
	h := &Handler{dispatcher: d, log: logging.Nop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	entry := &requestlog.Entry{
		ID:          w.Header().Get(RequestIDHeader),
		Timestamp:   start,
		Method:      r.Method,
		Path:        r.URL.Path,
		QueryString: r.URL.RawQuery,
		RemoteAddr:  r.RemoteAddr,
	}
	defer func() {
		if h.requests != nil && entry.Outcome != "" {
			entry.DurationMs = float64(time.Since(start).Microseconds()) / 1000
			h.requests.Log(entry)
		}
	}()

	res, err := h.dispatcher.Handle(r.Context(), Request{Method: r.Method, Path: r.URL.EscapedPath()})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		h.log.Warn("request not served", "method", r.Method, "path", r.URL.Path, "error", err)
		httputil.WriteServiceUnavailable(w, "not_ready", err.Error())
		entry.Outcome = requestlog.OutcomeNotReady
		entry.ResponseStatus = http.StatusServiceUnavailable
		entry.Error = err.Error()
		return
	}

	if !res.Mocked() {
		if h.next != nil {
			rw := negroni.NewResponseWriter(w)
			h.next.ServeHTTP(rw, r)
			entry.Outcome = requestlog.OutcomePassthrough
			entry.ResponseStatus = rw.Status()
			entry.BodySize = rw.Size()
			return
		}
		httputil.WriteNotFound(w, "no_route", "no mock defined for "+r.Method+" "+r.URL.Path)
		entry.Outcome = requestlog.OutcomeUnmatched
		entry.ResponseStatus = http.StatusNotFound
		return
	}

	env := res.Envelope
	entry.Route = res.Route
	entry.Params = res.Params
	entry.ResponseStatus = env.StatusCode
	entry.ContentType = env.ContentType
	entry.Outcome = requestlog.OutcomeMocked
	if env.Failed() {
		entry.Outcome = requestlog.OutcomeError
		entry.Error = env.Body
	}
	if r.Method == http.MethodHead {
		httputil.WriteBody(w, env.StatusCode, env.ContentType, "")
		return
	}
	entry.BodySize = len(env.Body)
	httputil.WriteBody(w, env.StatusCode, env.ContentType, env.Body)
}
