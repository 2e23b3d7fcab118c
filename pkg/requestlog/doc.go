// Package requestlog captures the requests the mock server answered so
// users can inspect what came in, which route matched and what was sent back.
// It is distinct from operational logging, which uses log/slog.
//
// MemoryStore keeps the most recent entries in a bounded buffer:
//
//	store := requestlog.NewMemoryStore(500)
//	store.Log(&requestlog.Entry{Method: "GET", Path: "/pets/1", Outcome: requestlog.OutcomeMocked})
//	recent := store.List(&requestlog.Filter{Outcome: requestlog.OutcomeMocked, Limit: 10})
//
// This is a leaf package with no internal dependencies.
package requestlog
