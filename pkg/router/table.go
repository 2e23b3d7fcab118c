package router

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Table is a compiled, immutable route table.
type Table struct {
	basePath string
	methods  map[string]*trieNode
	byKey    map[string]*Route
	routes   []*Route
	shadowed []*Route
}

type trieNode struct {
	literal map[string]*trieNode
	param   *trieNode
	route   *Route
}

func newTrieNode() *trieNode {
	return &trieNode{literal: make(map[string]*trieNode)}
}

// Match is a resolved request.
type Match struct {
	Route  *Route
	Params Params
}

// Compile builds a table from routes. basePath is stripped from request paths
// before matching; it may be empty.
//
// Routes are inserted in (method, template) order so that key collisions are
// resolved the same way whatever order the caller supplies: the template that
// sorts first is kept and the rest are reported by Shadowed.
func Compile(basePath string, routes []Route) (*Table, error) {
	sorted := make([]*Route, 0, len(routes))
	for i := range routes {
		r := routes[i]
		r.Method = strings.ToLower(r.Method)
		if r.Method == "" {
			return nil, fmt.Errorf("route %q: missing method", r.Template)
		}
		segs, err := parseTemplate(r.Template)
		if err != nil {
			return nil, err
		}
		r.segments = segs
		sorted = append(sorted, &r)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Method != sorted[j].Method {
			return sorted[i].Method < sorted[j].Method
		}
		return sorted[i].Template < sorted[j].Template
	})

	t := &Table{
		basePath: cleanBasePath(basePath),
		methods:  make(map[string]*trieNode),
		byKey:    make(map[string]*Route, len(sorted)),
	}
	for _, r := range sorted {
		key := r.Key()
		if _, exists := t.byKey[key]; exists {
			t.shadowed = append(t.shadowed, r)
			continue
		}
		t.byKey[key] = r
		t.routes = append(t.routes, r)
		t.insert(r)
	}
	return t, nil
}

func (t *Table) insert(r *Route) {
	root, ok := t.methods[r.Method]
	if !ok {
		root = newTrieNode()
		t.methods[r.Method] = root
	}
	node := root
	for _, s := range r.segments {
		if s.param {
			if node.param == nil {
				node.param = newTrieNode()
			}
			node = node.param
			continue
		}
		next, ok := node.literal[s.value]
		if !ok {
			next = newTrieNode()
			node.literal[s.value] = next
		}
		node = next
	}
	node.route = r
}

// BasePath returns the prefix stripped from request paths.
func (t *Table) BasePath() string { return t.basePath }

// Len returns the number of active routes.
func (t *Table) Len() int { return len(t.routes) }

// Routes returns the active routes sorted by method and template.
func (t *Table) Routes() []*Route {
	out := make([]*Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Shadowed returns routes dropped because their key collided with a route
// that sorts earlier.
func (t *Table) Shadowed() []*Route {
	out := make([]*Route, len(t.shadowed))
	copy(out, t.shadowed)
	return out
}

// Lookup returns the route stored under a synthetic key.
func (t *Table) Lookup(key string) (*Route, bool) {
	r, ok := t.byKey[key]
	return r, ok
}

// Match resolves method and a raw request path (query strings are ignored).
// ok is false when no route matches.
func (t *Table) Match(method, path string) (Match, bool) {
	root, ok := t.methods[strings.ToLower(method)]
	if !ok {
		return Match{}, false
	}
	segs := splitPath(t.Normalize(path))
	values := make([]string, 0, len(segs))
	route, values := root.match(segs, values)
	if route == nil {
		return Match{}, false
	}

	var params Params
	if names := route.ParamNames(); len(names) > 0 {
		params = make(Params, len(names))
		for i, name := range names {
			params[name] = values[i]
		}
	}
	return Match{Route: route, Params: params}, true
}

// match descends literal children before the parameter child, so literal
// segments take precedence, and backtracks on dead ends.
func (n *trieNode) match(segs []string, values []string) (*Route, []string) {
	if len(segs) == 0 {
		return n.route, values
	}
	seg, rest := segs[0], segs[1:]
	if next, ok := n.literal[seg]; ok {
		if r, v := next.match(rest, values); r != nil {
			return r, v
		}
	}
	if n.param != nil && seg != "" {
		value := seg
		if unescaped, err := url.PathUnescape(seg); err == nil {
			value = unescaped
		}
		if r, v := n.param.match(rest, append(values, value)); r != nil {
			return r, v
		}
	}
	return nil, values
}

// Normalize strips the query string and the base path and guarantees a single
// leading separator.
func (t *Table) Normalize(path string) string {
	return Normalize(t.basePath, path)
}

// Normalize strips the query string and basePath from path and guarantees a
// single leading separator.
func Normalize(basePath, path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	base := cleanBasePath(basePath)
	if base != "" {
		switch {
		case path == base:
			path = "/"
		case strings.HasPrefix(path, base+"/"):
			path = path[len(base):]
		}
	}
	return "/" + strings.TrimLeft(path, "/")
}

func cleanBasePath(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return ""
	}
	return "/" + strings.TrimLeft(base, "/")
}
