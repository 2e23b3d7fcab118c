// Package router compiles method + path templates into a lookup table and
// resolves requests against it.
//
// Templates are split on "/" into segments. A segment written as "{name}" is a
// parameter that matches any single non-empty request segment; every other
// segment is a literal compared byte-for-byte. Routes are indexed under a key
// made of the method and the template skeleton with parameter names erased,
// so "/users/{id}" and "/users/{userId}" share a key. When keys collide the
// template that sorts first wins, regardless of registration order.
//
// Matching walks the table segment by segment and prefers a literal segment
// over a parameter at the same position, backtracking when the literal branch
// dead-ends. No match is a normal outcome, reported as ok == false.
//
// A Table is immutable once compiled and safe for concurrent readers.
package router
