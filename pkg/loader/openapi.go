package loader

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/specmock/pkg/schema"
)

const jsonContentType = "application/json"

func newLoader(ctx context.Context) *openapi3.Loader {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true
	loader.Context = ctx
	return loader
}

func loadOpenAPI3(ctx context.Context, location string, raw []byte, root *yaml.Node, settings Settings) (*Document, error) {
	loader := newLoader(ctx)
	var (
		doc *openapi3.T
		err error
	)
	if location != "" {
		doc, err = loader.LoadFromFile(location)
	} else {
		doc, err = loader.LoadFromData(raw)
	}
	if err != nil {
		return nil, loadErrorf(ParseError, location, err, "load openapi document: %v", err)
	}
	if err := validate(ctx, doc, location, settings); err != nil {
		return nil, err
	}

	b := &builder{
		conv:   schema.NewConverter(schema.IndexKeyOrder(root)),
		layout: oas3Layout{},
	}
	out := b.document(doc)
	out.BasePath = serverBasePath(doc.Servers)
	return out, nil
}

func loadSwagger2(ctx context.Context, location string, root *yaml.Node, settings Settings) (*Document, error) {
	generic, err := plainValue(root, "")
	if err != nil {
		return nil, loadErrorf(ParseError, location, err, "decode swagger document: %v", err)
	}
	data, err := json.Marshal(generic)
	if err != nil {
		return nil, loadErrorf(ParseError, location, err, "encode swagger document: %v", err)
	}
	var v2 openapi2.T
	if err := json.Unmarshal(data, &v2); err != nil {
		return nil, loadErrorf(ParseError, location, err, "parse swagger document: %v", err)
	}
	doc, err := openapi2conv.ToV3(&v2)
	if err != nil {
		return nil, loadErrorf(ConversionError, location, err, "convert swagger 2.0 to openapi 3: %v", err)
	}
	if err := newLoader(ctx).ResolveRefsIn(doc, nil); err != nil {
		return nil, loadErrorf(ConversionError, location, err, "resolve references: %v", err)
	}
	if err := validate(ctx, doc, location, settings); err != nil {
		return nil, err
	}

	conv := schema.NewConverter(schema.IndexKeyOrder(root))
	conv.RefLocation = swagger2RefLocation
	b := &builder{conv: conv, layout: swagger2Layout{}}
	out := b.document(doc)
	out.BasePath = v2.BasePath
	return out, nil
}

func validate(ctx context.Context, doc *openapi3.T, location string, settings Settings) error {
	err := doc.Validate(ctx)
	if err == nil {
		return nil
	}
	if settings.Strict {
		return loadErrorf(ValidationError, location, err, "invalid document: %v", err)
	}
	settings.Logger.Warn("document has validation problems", "location", location, "error", err)
	return nil
}

// textKeys hold values that must stay strings even when YAML would resolve
// them to numbers, e.g. swagger: 2.0 or version: 1.0.
var textKeys = map[string]bool{"swagger": true, "version": true, "title": true, "description": true}

// plainValue converts a YAML node into values encoding/json can marshal.
// Mapping keys are taken verbatim, so integer status codes become strings.
func plainValue(n *yaml.Node, key string) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return plainValue(n.Content[0], key)
	case yaml.AliasNode:
		return plainValue(n.Alias, key)
	case yaml.MappingNode:
		out := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k := n.Content[i].Value
			v, err := plainValue(n.Content[i+1], k)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := plainValue(c, "")
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	default:
		if textKeys[key] && n.Tag != "!!null" {
			return n.Value, nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	}
}

// layout locates response schemas in the raw document so that property
// declaration order can be recovered.
type layout interface {
	responseLocation(template, method, code string, ref *openapi3.ResponseRef) string
	schemaLocation(responseLoc, mediaType string) string
}

type oas3Layout struct{}

func (oas3Layout) responseLocation(template, method, code string, ref *openapi3.ResponseRef) string {
	if ref.Ref != "" {
		return schema.LocalRefLocation(ref.Ref)
	}
	return operationLocation(template, method) + "/responses/" + schema.EscapePointer(code)
}

func (oas3Layout) schemaLocation(responseLoc, mediaType string) string {
	if responseLoc == "" {
		return ""
	}
	return responseLoc + "/content/" + schema.EscapePointer(mediaType) + "/schema"
}

type swagger2Layout struct{}

func (swagger2Layout) responseLocation(template, method, code string, ref *openapi3.ResponseRef) string {
	if ref.Ref != "" {
		if name, ok := strings.CutPrefix(ref.Ref, "#/components/responses/"); ok {
			return "/responses/" + name
		}
		return ""
	}
	return operationLocation(template, method) + "/responses/" + schema.EscapePointer(code)
}

func (swagger2Layout) schemaLocation(responseLoc, _ string) string {
	if responseLoc == "" {
		return ""
	}
	return responseLoc + "/schema"
}

func swagger2RefLocation(ref string) string {
	if name, ok := strings.CutPrefix(ref, "#/components/schemas/"); ok {
		return "/definitions/" + name
	}
	return schema.LocalRefLocation(ref)
}

func operationLocation(template, method string) string {
	return "/paths/" + schema.EscapePointer(template) + "/" + strings.ToLower(method)
}

type builder struct {
	conv   *schema.Converter
	layout layout
}

func (b *builder) document(doc *openapi3.T) *Document {
	out := &Document{Routes: RouteSource{}}
	if doc.Info != nil {
		out.Title = doc.Info.Title
		out.Version = doc.Info.Version
	}
	if doc.Paths == nil {
		return out
	}
	for template, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			out.Routes.Add(template, method, b.operation(template, method, op))
		}
	}
	return out
}

func (b *builder) operation(template, method string, op *openapi3.Operation) Operation {
	out := Operation{
		Status:      http.StatusOK,
		OperationID: op.OperationID,
		Summary:     op.Summary,
	}
	if op.Responses == nil {
		return out
	}
	code, status, ref := canonicalResponse(op.Responses.Map())
	if ref == nil || ref.Value == nil {
		return out
	}
	out.Status = status

	mediaType, media := canonicalMedia(ref.Value.Content)
	if media == nil {
		return out
	}
	out.ContentType = mediaType
	if media.Schema != nil {
		loc := b.layout.schemaLocation(b.layout.responseLocation(template, method, code, ref), mediaType)
		out.ResponseSchema = b.conv.Convert(media.Schema, loc)
	}
	return out
}

// canonicalResponse picks the first response carrying a schema, trying
// explicit 2xx statuses in ascending order, then a 2XX range, then default.
// When none has a schema the first candidate is returned.
func canonicalResponse(responses map[string]*openapi3.ResponseRef) (string, int, *openapi3.ResponseRef) {
	type candidate struct {
		code   string
		status int
	}
	var explicit []candidate
	for code := range responses {
		n, err := strconv.Atoi(code)
		if err != nil || n < 200 || n > 299 {
			continue
		}
		explicit = append(explicit, candidate{code, n})
	}
	sort.Slice(explicit, func(i, j int) bool { return explicit[i].status < explicit[j].status })
	for _, code := range []string{"2XX", "2xx", "default"} {
		if _, ok := responses[code]; ok {
			explicit = append(explicit, candidate{code, http.StatusOK})
		}
	}
	if len(explicit) == 0 {
		return "", http.StatusOK, nil
	}

	for _, c := range explicit {
		if ref := responses[c.code]; hasSchema(ref) {
			return c.code, c.status, ref
		}
	}
	first := explicit[0]
	return first.code, first.status, responses[first.code]
}

func hasSchema(ref *openapi3.ResponseRef) bool {
	if ref == nil || ref.Value == nil {
		return false
	}
	_, media := canonicalMedia(ref.Value.Content)
	return media != nil && media.Schema != nil
}

// canonicalMedia prefers application/json, then any JSON suffix type, then
// the first media type in sorted order.
func canonicalMedia(content openapi3.Content) (string, *openapi3.MediaType) {
	if len(content) == 0 {
		return "", nil
	}
	if mt, ok := content[jsonContentType]; ok {
		return jsonContentType, mt
	}
	types := make([]string, 0, len(content))
	for t := range content {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		base, _, _ := strings.Cut(t, ";")
		if strings.HasSuffix(strings.TrimSpace(base), "+json") || strings.HasPrefix(t, jsonContentType) {
			return t, content[t]
		}
	}
	return types[0], content[types[0]]
}

// serverBasePath returns the path of the first server URL, with variables
// replaced by their defaults.
func serverBasePath(servers openapi3.Servers) string {
	if len(servers) == 0 || servers[0] == nil {
		return ""
	}
	raw := servers[0].URL
	for name, v := range servers[0].Variables {
		if v != nil {
			raw = strings.ReplaceAll(raw, "{"+name+"}", v.Default)
		}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimRight(u.Path, "/")
}
