package router

import (
	"fmt"
	"strings"
)

// Params holds path parameter values keyed by parameter name.
type Params map[string]string

// Responder produces the mock value for a matched route.
type Responder func(params Params) (any, error)

// Route is one method + path template and its responder.
type Route struct {
	// Method is the lowercase HTTP verb.
	Method string
	// Template is the path template as written, e.g. "/widgets/{id}".
	Template  string
	Responder Responder

	segments []segment
}

type segment struct {
	value string // literal text, or parameter name
	param bool
}

// Key returns the synthetic index key: method plus the template skeleton
// with parameter names erased.
func (r *Route) Key() string {
	return routeKey(r.Method, r.segments)
}

// ParamNames lists the template parameters in path order.
func (r *Route) ParamNames() []string {
	var names []string
	for _, s := range r.segments {
		if s.param {
			names = append(names, s.value)
		}
	}
	return names
}

func routeKey(method string, segs []segment) string {
	var b strings.Builder
	b.WriteString(method)
	b.WriteByte(' ')
	if len(segs) == 0 {
		b.WriteByte('/')
	}
	for _, s := range segs {
		b.WriteByte('/')
		if s.param {
			b.WriteString("{}")
		} else {
			b.WriteString(s.value)
		}
	}
	return b.String()
}

// parseTemplate splits a path template into classified segments.
func parseTemplate(template string) ([]segment, error) {
	parts := splitPath(template)
	segs := make([]segment, 0, len(parts))
	seen := make(map[string]bool)
	for _, p := range parts {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			name := p[1 : len(p)-1]
			if name == "" {
				return nil, fmt.Errorf("template %q: empty parameter name", template)
			}
			if seen[name] {
				return nil, fmt.Errorf("template %q: duplicate parameter %q", template, name)
			}
			seen[name] = true
			segs = append(segs, segment{value: name, param: true})
			continue
		}
		if strings.ContainsAny(p, "{}") {
			return nil, fmt.Errorf("template %q: parameter must span a whole segment: %q", template, p)
		}
		segs = append(segs, segment{value: p})
	}
	return segs, nil
}

// splitPath splits a path into segments, ignoring the leading and trailing
// separator. The root path has no segments.
func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}
