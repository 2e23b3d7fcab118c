package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	configFile string
	specFile   string
	basePath   string
	ignore     []string
	mock       []string
	strict     bool
	maxDepth   int
	arrayLen   int
	logLevel   string
	logFormat  string
	jsonOutput bool
}

// NewRootCmd builds the specmock command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "specmock",
		Short: "specmock serves mock responses generated from an API schema",
		Long: `specmock reads an OpenAPI 3, Swagger 2 or route source document and answers
every declared operation with a response generated from its schema.

Configuration can be provided via flags, SPECMOCK_* environment variables, or a
configuration file. By default, specmock looks for specmock.yaml in the working
directory.`,
		// No Run function here means 'specmock' with no args prints help.
		SilenceUsage:  true,
		SilenceErrors: true, // We handle errors in Execute()
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configFile, "config", "c", "", "Config file path (default: ./specmock.yaml if present)")
	pf.StringVarP(&g.specFile, "spec", "s", "", "API schema document to serve")
	pf.StringVar(&g.basePath, "base-path", "", "Override the base path declared by the document")
	pf.StringSliceVar(&g.ignore, "ignore-paths", nil, "Glob patterns of path templates to leave unmocked")
	pf.StringSliceVar(&g.mock, "mock-paths", nil, "Glob patterns of the only path templates to mock")
	pf.BoolVar(&g.strict, "strict", false, "Reject documents that fail validation")
	pf.IntVar(&g.maxDepth, "max-depth", 0, "Maximum schema nesting depth during generation")
	pf.IntVar(&g.arrayLen, "array-length", 0, "Number of items generated for arrays without minItems")
	pf.StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.StringVar(&g.logFormat, "log-format", "", "Log format (text, json)")
	pf.BoolVar(&g.jsonOutput, "json", false, "Output command results in JSON format")

	root.AddCommand(
		newServeCmd(g),
		newRoutesCmd(g),
		newGenerateCmd(g),
		newConfigCmd(g),
		newVersionCmd(g),
	)
	return root
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	root := NewRootCmd()
	root.SetArgs(withDefaultCommand(root, os.Args[1:]))
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// withDefaultCommand prepends "serve" unless args already name a subcommand
// or ask for help, so "specmock openapi.yaml --port 9000" starts the server.
func withDefaultCommand(root *cobra.Command, args []string) []string {
	if len(args) == 0 {
		return []string{"serve"}
	}
	switch args[0] {
	case "-h", "--help", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return args
	}
	if cmd, _, err := root.Find(args); err == nil && cmd != root {
		return args
	}
	return append([]string{"serve"}, args...)
}
