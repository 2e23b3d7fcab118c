package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}

var validLogFormats = map[string]bool{"text": true, "json": true}

// validateFilePath checks that path names an existing regular file.
func validateFilePath(path, field string) error {
	if path == "" {
		return Errorf(field, "is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Errorf(field, "file does not exist: %s", path)
		}
		return &ConfigurationError{Field: field, Message: "cannot access file", Cause: err}
	}
	if info.IsDir() {
		return Errorf(field, "path is a directory, not a file: %s", path)
	}
	return nil
}

func validatePatterns(patterns []string, field string) error {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return Errorf(field, "invalid glob pattern %q", p)
		}
	}
	return nil
}

func validateUpstream(raw string, required bool) error {
	if raw == "" {
		if required {
			return Errorf("upstream", "is required when notFound is %q", NotFoundPassthrough)
		}
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return &ConfigurationError{Field: "upstream", Message: "invalid URL", Cause: err}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Errorf("upstream", "must be an absolute http(s) URL, got %q", raw)
	}
	return nil
}

// Validate reports the first invalid or contradictory setting.
func (c *Config) Validate() error {
	if err := validateFilePath(c.SpecFile, "specFile"); err != nil {
		return err
	}
	if c.Port < 0 || c.Port > 65535 {
		return Errorf("port", "must be between 0 and 65535, got %d", c.Port)
	}
	if len(c.IgnorePaths) > 0 && len(c.MockPaths) > 0 {
		return Errorf("ignorePaths", "cannot be combined with mockPaths")
	}
	if err := validatePatterns(c.IgnorePaths, "ignorePaths"); err != nil {
		return err
	}
	if err := validatePatterns(c.MockPaths, "mockPaths"); err != nil {
		return err
	}
	if c.Watch && c.WatchInterval <= 0 {
		return Errorf("watchInterval", "must be positive when watch is enabled")
	}
	switch c.NotFound {
	case NotFound404, NotFoundPassthrough:
	default:
		return Errorf("notFound", "must be %q or %q, got %q", NotFound404, NotFoundPassthrough, c.NotFound)
	}
	if err := validateUpstream(c.Upstream, c.NotFound == NotFoundPassthrough); err != nil {
		return err
	}
	if c.RequestLogSize < 0 {
		return Errorf("requestLogSize", "must not be negative, got %d", c.RequestLogSize)
	}
	if c.Generator.MaxDepth <= 0 {
		return Errorf("generator.maxDepth", "must be positive, got %d", c.Generator.MaxDepth)
	}
	if c.Generator.ArrayLength <= 0 {
		return Errorf("generator.arrayLength", "must be positive, got %d", c.Generator.ArrayLength)
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		return Errorf("log.level", "unknown level %q", c.Log.Level)
	}
	if !validLogFormats[strings.ToLower(c.Log.Format)] {
		return Errorf("log.format", "unknown format %q", c.Log.Format)
	}
	return nil
}

// Address returns the listen address for the mock server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
