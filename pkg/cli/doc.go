// Package cli provides the command-line interface for specmock.
//
// Commands:
//   - serve: Serve mock responses for every route in an API schema document
//   - routes: Print the compiled route table
//   - generate: Print the response a single request would receive
//   - config: Display the effective configuration and where each value came from
//   - version: Show specmock version
//
// Every command resolves its settings from defaults, the config file
// (specmock.yaml or --config), SPECMOCK_* environment variables and flags,
// in increasing order of precedence.
//
// Usage:
//
//	specmock serve openapi.yaml --port 4280 --watch
//	specmock serve --spec swagger.json --mock-paths '/pets/**'
//	specmock routes openapi.yaml --json
//	specmock generate GET /pets/42 --spec openapi.yaml
//	specmock config --spec openapi.yaml
package cli
