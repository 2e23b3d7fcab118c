package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FindLocal searches dir for one of DefaultConfigFileNames.
// Returns an empty string when none exists.
func FindLocal(dir string) string {
	for _, name := range DefaultConfigFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}

// LoadFile reads a YAML (or JSON) config file on top of the defaults.
// Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.MergeFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MergeFile decodes path onto c. Keys absent from the file keep their
// current values.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &ConfigurationError{Field: "config", Message: "cannot read " + path, Cause: err}
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return &ConfigurationError{Field: "config", Message: "invalid " + path, Cause: err}
	}

	var keys map[string]any
	if err := yaml.Unmarshal(data, &keys); err == nil {
		for k := range keys {
			c.SetSource(k, SourceFile)
		}
	}
	if c.SpecFile != "" && !filepath.IsAbs(c.SpecFile) {
		c.SpecFile = filepath.Join(filepath.Dir(path), c.SpecFile)
	}
	return nil
}

// Load builds a Config from defaults, the optional file at path and the
// process environment, then validates it. When path is empty the working
// directory is searched for a default config file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = FindLocal(wd)
		}
	}
	if path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// String renders the effective configuration as YAML.
func (c *Config) String() string {
	out, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("%+v", *c)
	}
	return string(out)
}
