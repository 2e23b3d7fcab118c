package cli

import (
	"context"
	"io"
	"log/slog"

	"github.com/getmockd/specmock/pkg/config"
	"github.com/getmockd/specmock/pkg/engine"
	"github.com/getmockd/specmock/pkg/generator"
	"github.com/getmockd/specmock/pkg/loader"
	"github.com/getmockd/specmock/pkg/logging"
	"github.com/getmockd/specmock/pkg/metrics"
)

// app bundles the collaborators built from a resolved config.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	gen     *generator.Engine
	metrics *metrics.Collector
}

func newApp(cfg *config.Config, logOut io.Writer, m *metrics.Collector) *app {
	return &app{
		cfg: cfg,
		log: logging.New(logging.FromStrings(cfg.Log.Level, cfg.Log.Format, logOut)),
		gen: generator.New(
			generator.WithMaxDepth(cfg.Generator.MaxDepth),
			generator.WithArrayLength(cfg.Generator.ArrayLength),
		),
		metrics: m,
	}
}

// prepare loads, filters and compiles the configured document.
func (a *app) prepare(ctx context.Context) (*engine.Snapshot, error) {
	doc, err := loader.Load(ctx, a.cfg.SpecFile,
		loader.WithStrict(a.cfg.Strict),
		loader.WithLogger(logging.Component(a.log, "loader")),
	)
	if err != nil {
		return nil, err
	}
	routes, err := loader.Filter(doc.Routes, a.cfg.IgnorePaths, a.cfg.MockPaths)
	if err != nil {
		return nil, err
	}
	doc.Routes = routes
	return engine.BuildSnapshot(doc, a.gen, engine.BuildOptions{
		BasePath: a.cfg.BasePath,
		Logger:   logging.Component(a.log, "snapshot"),
	})
}

// dispatcher returns a Dispatcher wired to the app's logger and metrics.
func (a *app) dispatcher() *engine.Dispatcher {
	return engine.NewDispatcher(
		engine.WithLogger(logging.Component(a.log, "dispatcher")),
		engine.WithMetrics(a.metrics),
	)
}
