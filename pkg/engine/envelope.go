package engine

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/getmockd/specmock/pkg/httputil"
)

// Envelope is a serialized mock response.
type Envelope struct {
	StatusCode  int    `json:"statusCode"`
	ContentType string `json:"contentType"`
	// Body is empty when the generated value is absent.
	Body string `json:"body"`
}

// Failed reports whether the envelope carries a generation failure.
func (e *Envelope) Failed() bool { return e.StatusCode >= http.StatusInternalServerError }

// successEnvelope serializes value. A nil value yields an empty body.
func successEnvelope(status int, contentType string, value any) (*Envelope, error) {
	if status == 0 {
		status = http.StatusOK
	}
	if contentType == "" {
		contentType = httputil.ContentTypeJSON
	}
	env := &Envelope{StatusCode: status, ContentType: contentType}
	if value == nil {
		return env, nil
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	env.Body = string(bytes.TrimRight(buf.Bytes(), "\n"))
	return env, nil
}

// failureEnvelope wraps message as {"message": ...} indented with four spaces.
func failureEnvelope(message string) *Envelope {
	body, err := json.MarshalIndent(map[string]string{"message": message}, "", "    ")
	if err != nil {
		body = []byte(`{"message": "internal error"}`)
	}
	return &Envelope{
		StatusCode:  http.StatusInternalServerError,
		ContentType: httputil.ContentTypeJSON,
		Body:        string(body),
	}
}
