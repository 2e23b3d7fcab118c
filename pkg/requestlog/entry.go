package requestlog

import "time"

// Outcomes of a served request.
const (
	OutcomeMocked      = "mocked"
	OutcomeUnmatched   = "unmatched"
	OutcomePassthrough = "passthrough"
	OutcomeError       = "error"
	OutcomeNotReady    = "not_ready"
)

// Entry describes one request and the response it received.
type Entry struct {
	// ID is assigned by the store when empty.
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`

	Method      string `json:"method"`
	Path        string `json:"path"`
	QueryString string `json:"queryString,omitempty"`
	RemoteAddr  string `json:"remoteAddr,omitempty"`

	// Route is the matched path template, empty when nothing matched.
	Route  string            `json:"route,omitempty"`
	Params map[string]string `json:"params,omitempty"`

	Outcome        string  `json:"outcome"`
	ResponseStatus int     `json:"responseStatus"`
	ContentType    string  `json:"contentType,omitempty"`
	BodySize       int     `json:"bodySize"`
	DurationMs     float64 `json:"durationMs"`
	Error          string  `json:"error,omitempty"`
}
