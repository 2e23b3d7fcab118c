package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/specmock/pkg/config"
)

func sampleRoutes() RouteSource {
	rs := RouteSource{}
	for _, tpl := range []string{"/pets", "/pets/{id}", "/internal/metrics", "/internal/debug/vars", "/users/{id}/pets"} {
		rs.Add(tpl, "get", Operation{})
	}
	return rs
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name   string
		ignore []string
		mock   []string
		want   []string
	}{
		{"no filters", nil, nil, []string{"/internal/debug/vars", "/internal/metrics", "/pets", "/pets/{id}", "/users/{id}/pets"}},
		{"ignore subtree", []string{"/internal/**"}, nil, []string{"/pets", "/pets/{id}", "/users/{id}/pets"}},
		{"ignore single segment", []string{"/pets/*"}, nil, []string{"/internal/debug/vars", "/internal/metrics", "/pets", "/users/{id}/pets"}},
		{"mock only", nil, []string{"/pets", "/users/*/pets"}, []string{"/pets", "/users/{id}/pets"}},
		{"mock alternatives", nil, []string{"/{pets,internal}/*"}, []string{"/internal/metrics", "/pets/{id}"}},
		{"mock nothing", nil, []string{"/nothing"}, []string{}},
		{"mock parameter template", nil, []string{"/pets/{id}"}, []string{"/pets/{id}"}},
		{"ignore under parameter", []string{"/users/{id}/**"}, nil, []string{"/internal/debug/vars", "/internal/metrics", "/pets", "/pets/{id}"}},
		{"parameter name must match", nil, []string{"/pets/{petId}"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(sampleRoutes(), tt.ignore, tt.mock)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Templates())
		})
	}
}

func TestFilter_ConfigurationErrors(t *testing.T) {
	_, err := Filter(sampleRoutes(), []string{"/a"}, []string{"/b"})
	assert.ErrorIs(t, err, config.ErrConfiguration)

	_, err = Filter(sampleRoutes(), []string{"/a/[b"}, nil)
	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "ignorePaths", cfgErr.Field)
}
