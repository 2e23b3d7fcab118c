package config

import "time"

// Defaults.
const (
	DefaultPort          = 4280
	DefaultHost          = ""
	DefaultWatchInterval = 2 * time.Second
	DefaultMaxDepth      = 32
	DefaultArrayLength   = 1
	DefaultRequestLog    = 1000
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

// Not-found behaviors for requests that match no route.
const (
	NotFound404         = "404"
	NotFoundPassthrough = "passthrough"
)

// DefaultConfigFileNames are searched in the working directory, in order.
var DefaultConfigFileNames = []string{"specmock.yaml", "specmock.yml", ".specmockrc.yaml"}

// Config is the complete specmock configuration.
type Config struct {
	// SpecFile is the API schema document to serve.
	SpecFile string `yaml:"specFile" json:"specFile"`
	// BasePath overrides the base path declared by the document.
	BasePath string `yaml:"basePath,omitempty" json:"basePath,omitempty"`
	// Strict rejects documents that fail schema validation instead of
	// logging a warning.
	Strict bool `yaml:"strict,omitempty" json:"strict,omitempty"`

	Host string `yaml:"host,omitempty" json:"host,omitempty"`
	Port int    `yaml:"port" json:"port"`

	// Watch reloads the document when it changes on disk.
	Watch         bool          `yaml:"watch" json:"watch"`
	WatchInterval time.Duration `yaml:"watchInterval" json:"watchInterval"`

	// IgnorePaths and MockPaths are mutually exclusive glob lists matched
	// against path templates.
	IgnorePaths []string `yaml:"ignorePaths,omitempty" json:"ignorePaths,omitempty"`
	MockPaths   []string `yaml:"mockPaths,omitempty" json:"mockPaths,omitempty"`

	// NotFound selects the response for unmatched requests: "404" or "passthrough".
	NotFound string `yaml:"notFound" json:"notFound"`
	// Upstream receives unmatched requests when NotFound is "passthrough".
	Upstream string `yaml:"upstream,omitempty" json:"upstream,omitempty"`

	// RequestLogSize bounds the recent-request history served by the admin
	// API. Zero disables it.
	RequestLogSize int `yaml:"requestLogSize" json:"requestLogSize"`

	Generator GeneratorConfig `yaml:"generator" json:"generator"`
	Log       LogConfig       `yaml:"log" json:"log"`

	// Sources tracks where each value came from (for debugging).
	Sources map[string]string `yaml:"-" json:"-"`
}

// GeneratorConfig configures mock value generation.
type GeneratorConfig struct {
	MaxDepth    int `yaml:"maxDepth" json:"maxDepth"`
	ArrayLength int `yaml:"arrayLength" json:"arrayLength"`
}

// LogConfig configures operational logging.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Sources of configuration values.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Host:           DefaultHost,
		Port:           DefaultPort,
		WatchInterval:  DefaultWatchInterval,
		NotFound:       NotFound404,
		RequestLogSize: DefaultRequestLog,
		Generator: GeneratorConfig{
			MaxDepth:    DefaultMaxDepth,
			ArrayLength: DefaultArrayLength,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Sources: make(map[string]string),
	}
}

// SetSource records where a value came from.
func (c *Config) SetSource(key, source string) {
	if c.Sources == nil {
		c.Sources = make(map[string]string)
	}
	c.Sources[key] = source
}

// Source reports where a value came from.
func (c *Config) Source(key string) string {
	if s, ok := c.Sources[key]; ok {
		return s
	}
	return SourceDefault
}
