package loader

import (
	"regexp"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/getmockd/specmock/pkg/config"
)

// Filter returns the routes whose templates survive the ignore or mock glob
// lists. At most one list may be non-empty: ignore drops matching templates
// and mock keeps only matching templates. Patterns are doublestar globs
// matched against the path template, e.g. "/internal/**" or "/pets/{id}".
// A brace group holding a single parameter name matches that parameter
// literally; groups with commas are alternations.
func Filter(routes RouteSource, ignore, mock []string) (RouteSource, error) {
	if len(ignore) > 0 && len(mock) > 0 {
		return nil, config.Errorf("ignorePaths", "cannot be combined with mockPaths")
	}
	patterns, keep, field := ignore, false, "ignorePaths"
	if len(mock) > 0 {
		patterns, keep, field = mock, true, "mockPaths"
	}
	if len(patterns) == 0 {
		return routes, nil
	}
	escaped := make([]string, len(patterns))
	for i, p := range patterns {
		escaped[i] = escapeParams(p)
		if !doublestar.ValidatePattern(escaped[i]) {
			return nil, config.Errorf(field, "invalid glob pattern %q", p)
		}
	}
	patterns = escaped

	out := make(RouteSource, len(routes))
	for template, methods := range routes {
		if matchAny(patterns, template) == keep {
			out[template] = methods
		}
	}
	return out, nil
}

func matchAny(patterns []string, template string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, template); ok {
			return true
		}
	}
	return false
}

var paramGroup = regexp.MustCompile(`\{([^{},/*?\[\]\\]+)\}`)

// escapeParams quotes "{name}" groups so doublestar compares them as text.
func escapeParams(pattern string) string {
	return paramGroup.ReplaceAllString(pattern, `\{$1\}`)
}
