package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func envMap(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, 2*time.Second, cfg.WatchInterval)
	assert.Equal(t, NotFound404, cfg.NotFound)
	assert.Equal(t, 32, cfg.Generator.MaxDepth)
	assert.Equal(t, 1, cfg.Generator.ArrayLength)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, SourceDefault, cfg.Source("port"))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "specmock.yaml", `
specFile: api.yaml
port: 9090
watch: true
watchInterval: 500ms
ignorePaths:
  - /internal/**
generator:
  maxDepth: 8
log:
  format: json
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "api.yaml"), cfg.SpecFile)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.Watch)
	assert.Equal(t, 500*time.Millisecond, cfg.WatchInterval)
	assert.Equal(t, []string{"/internal/**"}, cfg.IgnorePaths)
	assert.Equal(t, 8, cfg.Generator.MaxDepth)
	assert.Equal(t, DefaultArrayLength, cfg.Generator.ArrayLength, "unset nested keys keep defaults")
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, SourceFile, cfg.Source("port"))
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))

	bad := writeFile(t, dir, "bad.yaml", "port: [1, 2\n")
	_, err = LoadFile(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))

	unknown := writeFile(t, dir, "unknown.yaml", "prot: 80\n")
	_, err = LoadFile(unknown)
	require.Error(t, err)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "config", cfgErr.Field)
}

func TestLoadFile_Empty(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.yaml", "")
	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Port)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		EnvSpecFile:      "/tmp/api.json",
		EnvPort:          "8081",
		EnvWatch:         "true",
		EnvWatchInterval: "5s",
		EnvMockPaths:     " /pets/** , ,/users/*",
		EnvMaxDepth:      "4",
		EnvLogLevel:      "debug",
		EnvHost:          "",
		EnvStrict:        "1",
	}))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/api.json", cfg.SpecFile)
	assert.Equal(t, 8081, cfg.Port)
	assert.True(t, cfg.Watch)
	assert.Equal(t, 5*time.Second, cfg.WatchInterval)
	assert.Equal(t, []string{"/pets/**", "/users/*"}, cfg.MockPaths)
	assert.Equal(t, 4, cfg.Generator.MaxDepth)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.True(t, cfg.Strict)
	assert.Equal(t, SourceEnv, cfg.Source("port"))
	assert.Equal(t, SourceDefault, cfg.Source("host"))
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	tests := map[string]string{
		EnvPort:          "eighty",
		EnvWatch:         "sometimes",
		EnvWatchInterval: "soon",
		EnvArrayLength:   "1.5",
		EnvStrict:        "very",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			err := Default().ApplyEnv(envMap(map[string]string{key: value}))
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, key, cfgErr.Field)
		})
	}
}

func TestValidate(t *testing.T) {
	spec := writeFile(t, t.TempDir(), "api.yaml", "openapi: 3.0.0\n")

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing spec", func(c *Config) { c.SpecFile = "" }, "specFile"},
		{"spec does not exist", func(c *Config) { c.SpecFile = spec + ".nope" }, "specFile"},
		{"spec is directory", func(c *Config) { c.SpecFile = filepath.Dir(spec) }, "specFile"},
		{"port range", func(c *Config) { c.Port = 70000 }, "port"},
		{"both filters", func(c *Config) {
			c.IgnorePaths = []string{"/a"}
			c.MockPaths = []string{"/b"}
		}, "ignorePaths"},
		{"bad ignore glob", func(c *Config) { c.IgnorePaths = []string{"/a/[b"} }, "ignorePaths"},
		{"bad mock glob", func(c *Config) { c.MockPaths = []string{"/a/{b"} }, "mockPaths"},
		{"watch interval", func(c *Config) {
			c.Watch = true
			c.WatchInterval = 0
		}, "watchInterval"},
		{"not found", func(c *Config) { c.NotFound = "teapot" }, "notFound"},
		{"passthrough without upstream", func(c *Config) { c.NotFound = NotFoundPassthrough }, "upstream"},
		{"passthrough ok", func(c *Config) {
			c.NotFound = NotFoundPassthrough
			c.Upstream = "http://localhost:9000/api"
		}, ""},
		{"relative upstream", func(c *Config) { c.Upstream = "/api" }, "upstream"},
		{"upstream scheme", func(c *Config) { c.Upstream = "ftp://example.com" }, "upstream"},
		{"request log disabled", func(c *Config) { c.RequestLogSize = 0 }, ""},
		{"request log size", func(c *Config) { c.RequestLogSize = -1 }, "requestLogSize"},
		{"depth", func(c *Config) { c.Generator.MaxDepth = 0 }, "generator.maxDepth"},
		{"array length", func(c *Config) { c.Generator.ArrayLength = -1 }, "generator.arrayLength"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format upper", func(c *Config) { c.Log.Format = "JSON" }, ""},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.SpecFile = spec
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "api.yaml", "openapi: 3.0.0\n")
	path := writeFile(t, dir, "specmock.yaml", "specFile: api.yaml\nport: 9000\n")
	t.Setenv(EnvPort, "9001")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9001, cfg.Port)
	assert.Equal(t, SourceEnv, cfg.Source("port"))
	assert.Equal(t, ":9001", cfg.Address())
}

func TestFindLocal(t *testing.T) {
	dir := t.TempDir()
	assert.Empty(t, FindLocal(dir))

	writeFile(t, dir, "specmock.yml", "port: 1\n")
	assert.Equal(t, filepath.Join(dir, "specmock.yml"), FindLocal(dir))
}

func TestConfigurationError_Message(t *testing.T) {
	err := &ConfigurationError{Field: "port", Message: "bad", Cause: errors.New("boom")}
	assert.Equal(t, "configuration port: bad: boom", err.Error())
	assert.Equal(t, "configuration: bad", (&ConfigurationError{Message: "bad"}).Error())
}
