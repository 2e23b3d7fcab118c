package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdhttputil "net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getmockd/specmock/pkg/config"
	"github.com/getmockd/specmock/pkg/engine"
	"github.com/getmockd/specmock/pkg/loader"
	"github.com/getmockd/specmock/pkg/logging"
	"github.com/getmockd/specmock/pkg/metrics"
	"github.com/getmockd/specmock/pkg/requestlog"
	"github.com/spf13/cobra"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 10 * time.Second

type serveFlags struct {
	port     int
	host     string
	watch    bool
	interval time.Duration
	notFound string
	upstream string
	history  int
}

func (f *serveFlags) bindings(cfg *config.Config) []flagBinding {
	return []flagBinding{
		{"port", "port", func() { cfg.Port = f.port }},
		{"host", "host", func() { cfg.Host = f.host }},
		{"watch", "watch", func() { cfg.Watch = f.watch }},
		{"watch-interval", "watchInterval", func() { cfg.WatchInterval = f.interval }},
		{"not-found", "notFound", func() { cfg.NotFound = f.notFound }},
		{"upstream", "upstream", func() { cfg.Upstream = f.upstream }},
		{"request-log-size", "requestLogSize", func() { cfg.RequestLogSize = f.history }},
	}
}

func newServeCmd(g *globalFlags) *cobra.Command {
	f := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve [SPEC]",
		Short: "Serve mock responses for every route in a schema document (default command)",
		Long: `Start the mock server. Every operation declared by the document is answered
with a response generated from its response schema. Requests that match no
route get a 404, or are forwarded to --upstream with --not-found passthrough.

Admin endpoints live under ` + engine.AdminPrefix + `: health, ready, routes, metrics
and requests.`,
		Example: `  # Serve an OpenAPI document on the default port
  specmock serve openapi.yaml

  # Reload when the document changes
  specmock serve openapi.yaml --watch

  # Mock only the pet routes and forward everything else
  specmock serve openapi.yaml --mock-paths '/pets/**' --not-found passthrough --upstream http://localhost:9000`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g, args, f.bindings)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			return runServe(ctx, cfg, out, cmd.ErrOrStderr(), func(addr string) {
				fmt.Fprintf(out, "specmock listening on http://%s\n", addr)
			})
		},
	}

	fl := cmd.Flags()
	fl.IntVarP(&f.port, "port", "p", config.DefaultPort, "HTTP server port")
	fl.StringVar(&f.host, "host", config.DefaultHost, "Interface to bind (default: all)")
	fl.BoolVarP(&f.watch, "watch", "w", false, "Reload the document when it changes")
	fl.DurationVar(&f.interval, "watch-interval", config.DefaultWatchInterval, "Polling interval for --watch")
	fl.StringVar(&f.notFound, "not-found", config.NotFound404, "Unmatched requests: 404 or passthrough")
	fl.StringVar(&f.upstream, "upstream", "", "Upstream URL for --not-found passthrough")
	fl.IntVar(&f.history, "request-log-size", config.DefaultRequestLog, "Recent requests kept for the admin API (0 disables)")
	return cmd
}

// runServe serves cfg until ctx is done. onListen receives the bound address.
func runServe(ctx context.Context, cfg *config.Config, out, logOut io.Writer, onListen func(addr string)) error {
	a := newApp(cfg, logOut, metrics.New(metrics.WithRuntimeMetrics()))
	d := a.dispatcher()
	d.Start(ctx, a.prepare)

	if cfg.Watch {
		w := loader.NewWatcher(cfg.SpecFile, cfg.WatchInterval)
		events := w.Start()
		defer w.Stop()
		go d.Follow(ctx, events, a.prepare)
	}

	var handlerOpts []engine.HandlerOption
	if cfg.NotFound == config.NotFoundPassthrough {
		upstream, err := url.Parse(cfg.Upstream)
		if err != nil {
			return config.Errorf("upstream", "invalid URL %q", cfg.Upstream)
		}
		handlerOpts = append(handlerOpts, engine.WithPassthrough(stdhttputil.NewSingleHostReverseProxy(upstream)))
	}

	serverOpts := []engine.ServerOption{
		engine.WithServerLogger(a.log),
		engine.WithServerMetrics(a.metrics),
		engine.WithHandlerOptions(handlerOpts...),
	}
	if cfg.RequestLogSize > 0 {
		serverOpts = append(serverOpts, engine.WithRequestLog(requestlog.NewMemoryStore(cfg.RequestLogSize)))
	}
	srv := engine.NewServer(cfg.Address(), d, serverOpts...)
	if err := srv.Start(); err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Stop(shutdownCtx); err != nil {
			a.log.Warn("shutdown did not complete", "error", err)
		}
	}()
	if onListen != nil {
		onListen(srv.Addr())
	}

	// Without --watch a document that fails to load can never recover.
	if err := d.Wait(ctx); err != nil && !cfg.Watch && !errors.Is(err, context.Canceled) {
		return err
	}

	<-ctx.Done()
	fmt.Fprintln(out, "Shutting down...")
	logging.Component(a.log, "cli").Info("shutdown requested")
	return nil
}
