// Package config provides configuration types and loading for specmock.
//
// Configuration values can come from multiple sources with the following
// precedence (highest first):
//
//  1. Command-line flags (applied by the cli package)
//  2. Environment variables (SPECMOCK_*)
//  3. Config file (specmock.yaml, or the path given with --config)
//  4. Default values
//
// A minimal config file:
//
//	specFile: ./openapi.yaml
//	port: 4280
//	watch: true
//	strict: false
//	notFound: passthrough
//	upstream: http://localhost:9000
//	ignorePaths:
//	  - /internal/**
//	generator:
//	  maxDepth: 16
//	  arrayLength: 2
//	log:
//	  level: debug
//	  format: json
//
// Invalid or contradictory settings are reported as *ConfigurationError,
// which matches ErrConfiguration under errors.Is.
package config
