package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/getmockd/specmock/pkg/logging"
	"github.com/getmockd/specmock/pkg/schema"
)

// Format identifies the kind of input document.
type Format string

const (
	FormatOpenAPI3    Format = "openapi3"
	FormatSwagger2    Format = "swagger2"
	FormatRouteSource Format = "routes"
)

// Operation is the canonical response of one method on one path.
type Operation struct {
	// ResponseSchema is nil when the operation declares no response body.
	ResponseSchema *schema.Node
	// Status is the declared success status the schema was taken from.
	Status      int
	ContentType string
	OperationID string
	Summary     string
}

// RouteSource maps a path template to lowercase method to operation.
type RouteSource map[string]map[string]Operation

// Len returns the number of (path, method) entries.
func (rs RouteSource) Len() int {
	n := 0
	for _, methods := range rs {
		n += len(methods)
	}
	return n
}

// Templates returns the path templates in sorted order.
func (rs RouteSource) Templates() []string {
	out := make([]string, 0, len(rs))
	for tpl := range rs {
		out = append(out, tpl)
	}
	sort.Strings(out)
	return out
}

// Add registers op for method on template.
func (rs RouteSource) Add(template, method string, op Operation) {
	methods, ok := rs[template]
	if !ok {
		methods = make(map[string]Operation)
		rs[template] = methods
	}
	methods[strings.ToLower(method)] = op
}

// Document is a loaded API description.
type Document struct {
	Title    string
	Version  string
	Format   Format
	BasePath string
	Location string
	Routes   RouteSource
}

// Settings configures loading.
type Settings struct {
	// Strict fails the load when OpenAPI validation reports problems.
	// Otherwise they are logged and loading proceeds.
	Strict bool
	Logger *slog.Logger
}

// Option mutates Settings.
type Option func(*Settings)

// WithStrict enables strict validation.
func WithStrict(strict bool) Option { return func(s *Settings) { s.Strict = strict } }

// WithLogger sets the logger for non-fatal findings.
func WithLogger(l *slog.Logger) Option { return func(s *Settings) { s.Logger = l } }

// Load reads the document at path and builds its route source.
func Load(ctx context.Context, path string, opts ...Option) (*Document, error) {
	if strings.TrimSpace(path) == "" {
		return nil, loadErrorf(InputError, "", nil, "document path is empty")
	}
	settings := Settings{}
	for _, opt := range opts {
		opt(&settings)
	}
	settings.Logger = logging.Component(settings.Logger, "loader")

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, loadErrorf(InputError, path, err, "resolve path: %v", err)
	}
	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, loadErrorf(InputError, abs, err, "read document: %v", err)
	}
	return parse(ctx, abs, raw, settings)
}

// LoadData builds a route source from an in-memory document. External
// references are resolved relative to the working directory.
func LoadData(ctx context.Context, data []byte, opts ...Option) (*Document, error) {
	settings := Settings{}
	for _, opt := range opts {
		opt(&settings)
	}
	settings.Logger = logging.Component(settings.Logger, "loader")
	return parse(ctx, "", data, settings)
}

func parse(ctx context.Context, location string, raw []byte, settings Settings) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, loadErrorf(ParseError, location, err, "parse document: %v", err)
	}
	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, loadErrorf(ParseError, location, nil, "document must be a mapping")
	}

	format, version := detectFormat(root.Content[0])
	var (
		doc *Document
		err error
	)
	switch format {
	case FormatOpenAPI3:
		doc, err = loadOpenAPI3(ctx, location, raw, &root, settings)
	case FormatSwagger2:
		doc, err = loadSwagger2(ctx, location, &root, settings)
	default:
		doc, err = loadRouteSource(location, root.Content[0])
	}
	if err != nil {
		return nil, err
	}
	doc.Format = format
	doc.Location = location
	if doc.Version == "" {
		doc.Version = version
	}
	settings.Logger.Info("document loaded",
		"location", location,
		"format", string(format),
		"routes", doc.Routes.Len(),
		"basePath", doc.BasePath,
	)
	return doc, nil
}

// detectFormat inspects the top-level openapi/swagger keys.
func detectFormat(m *yaml.Node) (Format, string) {
	for i := 0; i+1 < len(m.Content); i += 2 {
		key, val := m.Content[i].Value, strings.TrimSpace(m.Content[i+1].Value)
		switch {
		case key == "openapi" && strings.HasPrefix(val, "3."):
			return FormatOpenAPI3, val
		case key == "swagger" && strings.HasPrefix(val, "2."):
			return FormatSwagger2, val
		}
	}
	return FormatRouteSource, ""
}

func (d *Document) String() string {
	return fmt.Sprintf("%s (%s, %d routes)", d.Title, d.Format, d.Routes.Len())
}
