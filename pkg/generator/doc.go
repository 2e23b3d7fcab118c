// Package generator turns schema trees into concrete mock values.
//
// An Engine holds an ordered list of Strategy values. For every node it asks
// each strategy in turn whether it can handle the node; the first one that
// answers yes produces the value. Order matters: a node that declares
// properties is always an object, even when it also carries a type, an enum
// or an example.
//
// Composite strategies (object, array, composition) recurse through the
// Walker they are handed. The Walker is a value carrying the recursion depth
// and the JSON pointer of the node being generated, so generation needs no
// shared mutable state and an Engine can be used from many goroutines.
//
// Generation fails with a *NoStrategyError when no strategy claims a node and
// with a *DepthExceededError when the configured depth ceiling is hit, which
// is how schemas with reference cycles terminate.
//
// Every choice is deterministic: the first enum value, the lower numeric
// bound, a fixed array length, and format-aware strings derived from the
// node's location. Generating the same node twice yields equal output.
package generator
