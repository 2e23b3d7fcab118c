package specmocktest

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/specmock/pkg/generator"
	"github.com/getmockd/specmock/pkg/requestlog"
)

const petstore = `openapi: 3.0.3
info:
  title: Petstore
  version: 1.0.0
servers:
  - url: http://localhost/v1
paths:
  /pets/{petId}:
    get:
      operationId: getPet
      parameters:
        - name: petId
          in: path
          required: true
          schema:
            type: integer
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: object
                properties:
                  name:
                    type: string
                  tags:
                    type: array
                    items:
                      type: string
`

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestNewServerFromData_RecordsCalls(t *testing.T) {
	srv := NewServerFromData(t, []byte(petstore))

	resp, body := get(t, srv.URL+"/v1/pets/42")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var pet map[string]any
	require.NoError(t, json.Unmarshal(body, &pet))
	assert.Contains(t, pet, "name")

	get(t, srv.URL+"/v1/pets/7")

	srv.AssertCalled(t, "GET", "/v1/pets/42")
	srv.AssertCalledTimes(t, "get", "/v1/pets/7", 1)
	srv.AssertNotCalled(t, "GET", "/v1/pets")
	srv.AssertRouteCalledTimes(t, "GET", "/pets/{petId}", 2)
	srv.AssertAllMocked(t)

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, "/v1/pets/42", reqs[0].Path)
	assert.Equal(t, "/v1/pets/7", reqs[1].Path)

	srv.Reset()
	assert.Empty(t, srv.Requests())
}

func TestNewServer_FromFileWithOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "petstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(petstore), 0o600))

	srv := NewServer(t, path, WithBasePath("/api"), WithGeneratorOptions(generator.WithArrayLength(3)))
	assert.Equal(t, "/api", srv.Snapshot().Table.BasePath())

	resp, body := get(t, srv.URL+"/api/pets/1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var pet struct {
		Tags []string `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(body, &pet))
	assert.Len(t, pet.Tags, 3)
}

func TestServer_UnmatchedRequestsAreRecorded(t *testing.T) {
	srv := NewServerFromData(t, []byte(petstore))

	resp, _ := get(t, srv.URL+"/v1/owners")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, requestlog.OutcomeUnmatched, reqs[0].Outcome)
	assert.Zero(t, srv.RouteCallCount("GET", "/pets/{petId}"))

	rt := &recordingT{TB: t}
	assert.False(t, srv.AssertAllMocked(rt))
	assert.True(t, rt.failed)
}

// recordingT captures assertion failures instead of failing the test.
type recordingT struct {
	testing.TB
	failed bool
}

func (r *recordingT) Helper() {}

func (r *recordingT) Name() string { return "recording" }

func (r *recordingT) Errorf(string, ...any) { r.failed = true }

func TestServer_CloseIsIdempotent(t *testing.T) {
	srv := NewServerFromData(t, []byte(petstore))
	srv.Close()
	srv.Close()
}
