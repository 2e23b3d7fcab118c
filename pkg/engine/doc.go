// Package engine serves mock responses from a compiled route table.
//
// A Snapshot pairs an immutable router.Table with the generator that
// materializes each route's response schema. The Dispatcher holds the active
// snapshot behind an atomic pointer: Start prepares the first snapshot in the
// background and opens the readiness gate, Reload replaces it wholesale, and
// every request observes exactly one snapshot from start to finish.
//
// Requests complete through a single Future. Handle blocks on it, HandleFunc
// registers a callback on it. Generation failures never escape the
// dispatcher: they are returned as a 500 Envelope.
//
// Handler adapts a Dispatcher to net/http and Server wraps it with admin
// endpoints, access logging and panic recovery.
package engine
