// Package schema defines the schema tree that mock values are generated from.
//
// A Node is one unit of a response schema after every reference has been
// resolved. Nodes are read-only once built and are shared by every route that
// points at them, so references that form cycles in the source document
// become pointer cycles here. Consumers must bound their own recursion.
//
// Nodes are produced in two ways:
//
//   - Decoding YAML or JSON directly (Parse, or yaml/json Unmarshal into a
//     Node). Property declaration order is preserved.
//   - Converting a dereferenced kin-openapi document with a Converter. The
//     declaration order of properties is recovered from a KeyOrder index of
//     the raw document.
package schema
