package cli

import (
	"os"

	"github.com/getmockd/specmock/pkg/config"
	"github.com/spf13/cobra"
)

// flagBinding copies one flag into the config when the user set it.
type flagBinding struct {
	flag  string
	key   string
	apply func()
}

// bindings maps the persistent flags onto cfg.
func (g *globalFlags) bindings(cfg *config.Config) []flagBinding {
	return []flagBinding{
		{"spec", "specFile", func() { cfg.SpecFile = g.specFile }},
		{"base-path", "basePath", func() { cfg.BasePath = g.basePath }},
		{"ignore-paths", "ignorePaths", func() { cfg.IgnorePaths = g.ignore }},
		{"mock-paths", "mockPaths", func() { cfg.MockPaths = g.mock }},
		{"strict", "strict", func() { cfg.Strict = g.strict }},
		{"max-depth", "generator.maxDepth", func() { cfg.Generator.MaxDepth = g.maxDepth }},
		{"array-length", "generator.arrayLength", func() { cfg.Generator.ArrayLength = g.arrayLen }},
		{"log-level", "log.level", func() { cfg.Log.Level = g.logLevel }},
		{"log-format", "log.format", func() { cfg.Log.Format = g.logFormat }},
	}
}

// resolveConfig layers defaults, the config file, SPECMOCK_* variables and
// the flags set on cmd. A positional argument names the document and wins
// over --spec. The result is not validated.
func resolveConfig(cmd *cobra.Command, g *globalFlags, args []string, local func(*config.Config) []flagBinding) (*config.Config, error) {
	cfg := config.Default()

	path := g.configFile
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = config.FindLocal(wd)
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

	bindings := g.bindings(cfg)
	if local != nil {
		bindings = append(bindings, local(cfg)...)
	}
	fs := cmd.Flags()
	for _, b := range bindings {
		if fs.Changed(b.flag) {
			b.apply()
			cfg.SetSource(b.key, config.SourceFlag)
		}
	}
	if len(args) > 0 && args[0] != "" {
		cfg.SpecFile = args[0]
		cfg.SetSource("specFile", config.SourceFlag)
	}
	return cfg, nil
}

// loadConfig resolves and validates the configuration for cmd.
func loadConfig(cmd *cobra.Command, g *globalFlags, args []string, local func(*config.Config) []flagBinding) (*config.Config, error) {
	cfg, err := resolveConfig(cmd, g, args, local)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
