package config

import (
	"strconv"
	"strings"
	"time"
)

// Environment variable names.
const (
	EnvSpecFile      = "SPECMOCK_SPEC"
	EnvBasePath      = "SPECMOCK_BASE_PATH"
	EnvHost          = "SPECMOCK_HOST"
	EnvPort          = "SPECMOCK_PORT"
	EnvWatch         = "SPECMOCK_WATCH"
	EnvWatchInterval = "SPECMOCK_WATCH_INTERVAL"
	EnvIgnorePaths   = "SPECMOCK_IGNORE_PATHS"
	EnvMockPaths     = "SPECMOCK_MOCK_PATHS"
	EnvNotFound      = "SPECMOCK_NOT_FOUND"
	EnvMaxDepth      = "SPECMOCK_MAX_DEPTH"
	EnvArrayLength   = "SPECMOCK_ARRAY_LENGTH"
	EnvLogLevel      = "SPECMOCK_LOG_LEVEL"
	EnvLogFormat     = "SPECMOCK_LOG_FORMAT"
	EnvStrict        = "SPECMOCK_STRICT"
	EnvUpstream      = "SPECMOCK_UPSTREAM"
	EnvRequestLog    = "SPECMOCK_REQUEST_LOG_SIZE"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides c with SPECMOCK_* variables found through lookup.
// Empty values are ignored.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	strs := []struct {
		env, key string
		dst      *string
	}{
		{EnvSpecFile, "specFile", &c.SpecFile},
		{EnvBasePath, "basePath", &c.BasePath},
		{EnvHost, "host", &c.Host},
		{EnvNotFound, "notFound", &c.NotFound},
		{EnvUpstream, "upstream", &c.Upstream},
		{EnvLogLevel, "log.level", &c.Log.Level},
		{EnvLogFormat, "log.format", &c.Log.Format},
	}
	for _, s := range strs {
		if v, ok := get(s.env); ok {
			*s.dst = v
			c.SetSource(s.key, SourceEnv)
		}
	}

	ints := []struct {
		env, key string
		dst      *int
	}{
		{EnvPort, "port", &c.Port},
		{EnvMaxDepth, "generator.maxDepth", &c.Generator.MaxDepth},
		{EnvArrayLength, "generator.arrayLength", &c.Generator.ArrayLength},
		{EnvRequestLog, "requestLogSize", &c.RequestLogSize},
	}
	for _, s := range ints {
		v, ok := get(s.env)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return &ConfigurationError{Field: s.env, Message: "not an integer: " + v, Cause: err}
		}
		*s.dst = n
		c.SetSource(s.key, SourceEnv)
	}

	bools := []struct {
		env, key string
		dst      *bool
	}{
		{EnvWatch, "watch", &c.Watch},
		{EnvStrict, "strict", &c.Strict},
	}
	for _, s := range bools {
		v, ok := get(s.env)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &ConfigurationError{Field: s.env, Message: "not a boolean: " + v, Cause: err}
		}
		*s.dst = b
		c.SetSource(s.key, SourceEnv)
	}
	if v, ok := get(EnvWatchInterval); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return &ConfigurationError{Field: EnvWatchInterval, Message: "not a duration: " + v, Cause: err}
		}
		c.WatchInterval = d
		c.SetSource("watchInterval", SourceEnv)
	}
	if v, ok := get(EnvIgnorePaths); ok {
		c.IgnorePaths = SplitList(v)
		c.SetSource("ignorePaths", SourceEnv)
	}
	if v, ok := get(EnvMockPaths); ok {
		c.MockPaths = SplitList(v)
		c.SetSource("mockPaths", SourceEnv)
	}
	return nil
}

// SplitList splits a comma-separated list, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
