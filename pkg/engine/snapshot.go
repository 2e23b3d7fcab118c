package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/getmockd/specmock/pkg/config"
	"github.com/getmockd/specmock/pkg/generator"
	"github.com/getmockd/specmock/pkg/loader"
	"github.com/getmockd/specmock/pkg/logging"
	"github.com/getmockd/specmock/pkg/router"
	"github.com/getmockd/specmock/pkg/schema"
)

// RouteInfo describes one active route.
type RouteInfo struct {
	Method      string `json:"method"`
	Template    string `json:"path"`
	Status      int    `json:"status"`
	ContentType string `json:"contentType,omitempty"`
	OperationID string `json:"operationId,omitempty"`
	HasSchema   bool   `json:"hasSchema"`
}

// Snapshot is an immutable route table ready to serve.
type Snapshot struct {
	Table    *router.Table
	Title    string
	Format   loader.Format
	Location string
	BuiltAt  time.Time

	info     map[string]RouteInfo // keyed by "method template"
	shadowed []RouteInfo
}

// BuildOptions tune BuildSnapshot.
type BuildOptions struct {
	// BasePath overrides the document's base path when non-empty.
	BasePath string
	Logger   *slog.Logger
}

func infoKey(method, template string) string { return method + " " + template }

// BuildSnapshot compiles doc's routes. Each responder runs gen over the
// route's response schema. An empty route source is a configuration error.
func BuildSnapshot(doc *loader.Document, gen *generator.Engine, opts BuildOptions) (*Snapshot, error) {
	if doc == nil || doc.Routes.Len() == 0 {
		return nil, config.Errorf("routes", "route source is empty")
	}
	if gen == nil {
		gen = generator.New()
	}
	log := logging.OrNop(opts.Logger)

	basePath := doc.BasePath
	if opts.BasePath != "" {
		basePath = opts.BasePath
	}

	snap := &Snapshot{
		Title:    doc.Title,
		Format:   doc.Format,
		Location: doc.Location,
		BuiltAt:  time.Now(),
		info:     make(map[string]RouteInfo, doc.Routes.Len()),
	}
	routes := make([]router.Route, 0, doc.Routes.Len())
	for template, methods := range doc.Routes {
		for method, op := range methods {
			routes = append(routes, router.Route{
				Method:    method,
				Template:  template,
				Responder: responder(gen, op.ResponseSchema),
			})
			snap.info[infoKey(method, template)] = RouteInfo{
				Method:      method,
				Template:    template,
				Status:      op.Status,
				ContentType: op.ContentType,
				OperationID: op.OperationID,
				HasSchema:   op.ResponseSchema != nil,
			}
		}
	}

	table, err := router.Compile(basePath, routes)
	if err != nil {
		return nil, &config.ConfigurationError{Field: "routes", Message: "cannot compile route table", Cause: err}
	}
	snap.Table = table

	for _, r := range table.Shadowed() {
		kept, _ := table.Lookup(r.Key())
		log.Warn("route shadowed by equivalent template",
			"method", r.Method, "path", r.Template, "kept", kept.Template)
		snap.shadowed = append(snap.shadowed, snap.info[infoKey(r.Method, r.Template)])
	}
	return snap, nil
}

func responder(gen *generator.Engine, n *schema.Node) router.Responder {
	if n == nil {
		return func(router.Params) (any, error) { return nil, nil }
	}
	return func(router.Params) (any, error) { return gen.Generate(n) }
}

// Route returns the metadata of an active route.
func (s *Snapshot) Route(method, template string) (RouteInfo, bool) {
	ri, ok := s.info[infoKey(method, template)]
	return ri, ok
}

// Routes lists the active routes sorted by path then method.
func (s *Snapshot) Routes() []RouteInfo {
	out := make([]RouteInfo, 0, s.Table.Len())
	for _, r := range s.Table.Routes() {
		out = append(out, s.info[infoKey(r.Method, r.Template)])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Template != out[j].Template {
			return out[i].Template < out[j].Template
		}
		return out[i].Method < out[j].Method
	})
	return out
}

// Shadowed lists routes dropped because an equivalent template sorted first.
func (s *Snapshot) Shadowed() []RouteInfo {
	out := make([]RouteInfo, len(s.shadowed))
	copy(out, s.shadowed)
	return out
}

func (s *Snapshot) String() string {
	return fmt.Sprintf("%s: %d routes", s.Title, s.Table.Len())
}
