// Package loader turns API description documents into route sources.
//
// Three input formats are detected from the document content:
//
//   - OpenAPI 3.x, loaded and dereferenced with kin-openapi.
//   - Swagger 2.0, converted to OpenAPI 3 with openapi2conv first.
//   - A plain route source: a mapping of path template to lowercase method
//     to {responseSchema: ...}, with optional title and basePath keys.
//
// Every operation is reduced to one canonical success response schema. The
// declaration order of object properties is carried through to the schema
// tree so that generated bodies list fields the way the document does.
//
// Filter narrows a route source with doublestar globs and Watcher polls the
// document for changes.
package loader
