package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/getmockd/specmock/pkg/loader"
	"github.com/getmockd/specmock/pkg/logging"
	"github.com/getmockd/specmock/pkg/metrics"
	"github.com/getmockd/specmock/pkg/router"
)

// ErrNotReady is returned for requests when no route table could be prepared.
var ErrNotReady = errors.New("dispatcher not ready")

// Request is the part of an HTTP request that selects a mock.
type Request struct {
	Method string
	Path   string
}

// Result is the outcome of one dispatched request.
type Result struct {
	// Envelope is nil when no route matched.
	Envelope *Envelope
	Method   string
	// Route is the matched path template.
	Route  string
	Params router.Params
}

// Mocked reports whether a route matched the request.
func (r Result) Mocked() bool { return r.Envelope != nil }

// PrepareFunc builds a snapshot, e.g. by loading and compiling a document.
type PrepareFunc func(ctx context.Context) (*Snapshot, error)

// Dispatcher matches requests against the active snapshot and generates
// mock envelopes. It is safe for concurrent use.
type Dispatcher struct {
	snapshot atomic.Pointer[Snapshot]

	ready     chan struct{}
	readyOnce sync.Once
	startOnce sync.Once
	prepErr   error // written before ready is closed

	log     *slog.Logger
	metrics *metrics.Collector
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// WithMetrics records dispatch activity in c.
func WithMetrics(c *metrics.Collector) Option {
	return func(d *Dispatcher) { d.metrics = c }
}

// NewDispatcher creates a dispatcher with no snapshot. Requests wait until
// Start or Install provides one.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		ready: make(chan struct{}),
		log:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = logging.Component(d.log, "dispatcher")
	return d
}

// Start runs prepare once in the background and opens the readiness gate
// when it returns. Later calls are no-ops. A failed preparation leaves the
// dispatcher without a snapshot and every request fails with ErrNotReady.
func (d *Dispatcher) Start(ctx context.Context, prepare PrepareFunc) {
	d.startOnce.Do(func() {
		go func() {
			snap, err := prepare(ctx)
			if err != nil {
				d.log.Error("route table preparation failed", "error", err)
				d.prepErr = err
				d.markReady()
				return
			}
			d.Install(snap)
		}()
	})
}

// Install atomically replaces the active snapshot and opens the readiness
// gate if it is still closed.
func (d *Dispatcher) Install(snap *Snapshot) {
	if snap == nil {
		return
	}
	d.snapshot.Store(snap)
	d.metrics.SetRoutes(snap.Table.Len())
	d.log.Info("route table installed", "title", snap.Title, "routes", snap.Table.Len(), "basePath", snap.Table.BasePath())
	d.markReady()
}

func (d *Dispatcher) markReady() {
	d.readyOnce.Do(func() { close(d.ready) })
}

// Ready is closed once the first preparation has finished, successfully or not.
func (d *Dispatcher) Ready() <-chan struct{} { return d.ready }

// Snapshot returns the active snapshot, or nil.
func (d *Dispatcher) Snapshot() *Snapshot { return d.snapshot.Load() }

// Wait blocks until the readiness gate opens or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	select {
	case <-d.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	if d.snapshot.Load() == nil {
		if d.prepErr != nil {
			return fmt.Errorf("%w: %w", ErrNotReady, d.prepErr)
		}
		return ErrNotReady
	}
	return nil
}

// Reload prepares a new snapshot and installs it. On failure the active
// snapshot stays in place.
func (d *Dispatcher) Reload(ctx context.Context, prepare PrepareFunc) error {
	snap, err := prepare(ctx)
	d.metrics.ObserveReload(err)
	if err != nil {
		d.log.Error("reload failed, keeping previous route table", "error", err)
		return err
	}
	d.Install(snap)
	return nil
}

// Follow reloads on every change event until ctx is done or events is
// closed. Events carrying an error are logged and skipped.
func (d *Dispatcher) Follow(ctx context.Context, events <-chan loader.WatchEvent, prepare PrepareFunc) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Error != nil {
				d.log.Warn("watch failed", "path", ev.Path, "error", ev.Error)
				continue
			}
			d.log.Info("document changed, reloading", "path", ev.Path, "change", ev.Type)
			_ = d.Reload(ctx, prepare)
		}
	}
}

// Handle waits for readiness and dispatches req, blocking until the
// envelope is available. An unmatched request is not an error: the Result
// is simply not Mocked.
func (d *Dispatcher) Handle(ctx context.Context, req Request) (Result, error) {
	if err := d.Wait(ctx); err != nil {
		return Result{}, err
	}
	return d.dispatch(d.snapshot.Load(), req), nil
}

// Submit dispatches req asynchronously.
func (d *Dispatcher) Submit(ctx context.Context, req Request) *Future {
	f := newFuture()
	go func() {
		f.resolve(d.Handle(ctx, req))
	}()
	return f
}

// HandleFunc dispatches req and calls cb exactly once with the outcome.
func (d *Dispatcher) HandleFunc(ctx context.Context, req Request, cb func(Result, error)) {
	d.Submit(ctx, req).Then(cb)
}

func (d *Dispatcher) dispatch(snap *Snapshot, req Request) Result {
	method := strings.ToLower(req.Method)
	m, ok := snap.Table.Match(method, req.Path)
	if !ok {
		d.log.Debug("no route", "method", req.Method, "path", req.Path)
		d.metrics.ObserveRequest(method, metrics.OutcomeUnmatched, 0)
		return Result{Method: method}
	}

	res := Result{Method: method, Route: m.Route.Template, Params: m.Params}
	info, _ := snap.Route(m.Route.Method, m.Route.Template)
	label := strings.ToUpper(method) + " " + m.Route.Template

	start := time.Now()
	value, err := respond(m)
	elapsed := time.Since(start)

	if err == nil {
		res.Envelope, err = successEnvelope(info.Status, info.ContentType, value)
	}
	if err != nil {
		d.log.Warn("mock generation failed", "route", label, "path", req.Path, "error", err)
		d.metrics.ObserveRequest(method, metrics.OutcomeError, elapsed)
		res.Envelope = failureEnvelope(label + ": " + err.Error())
		return res
	}

	d.log.Debug("mocked", "method", req.Method, "path", req.Path, "route", m.Route.Template, "duration", elapsed)
	d.metrics.ObserveRequest(method, metrics.OutcomeMocked, elapsed)
	return res
}

// respond invokes the route's responder, converting panics into errors.
func respond(m router.Match) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("responder panic: %v", r)
		}
	}()
	if m.Route.Responder == nil {
		return nil, nil
	}
	return m.Route.Responder(m.Params)
}
