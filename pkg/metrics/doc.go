// Package metrics exposes Prometheus metrics for the mock server.
//
// Each Collector owns its own registry so that tests and multiple servers in
// one process never collide on the default registerer:
//
//	m := metrics.New()
//	m.ObserveRequest("GET", metrics.OutcomeMocked, 1200*time.Microsecond)
//	http.Handle("/__specmock/metrics", m.Handler())
//
// Metrics:
//
//   - specmock_requests_total: dispatched requests (labels: method, outcome)
//   - specmock_generation_duration_seconds: time spent generating mock values
//   - specmock_routes: routes in the active table
//   - specmock_reloads_total: document reloads (labels: result)
//
// A nil *Collector is valid and records nothing.
package metrics
