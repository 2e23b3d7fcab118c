package cli

import (
	"fmt"
	"sort"

	"github.com/getmockd/specmock/pkg/cli/internal/output"
	"github.com/getmockd/specmock/pkg/config"
	"github.com/spf13/cobra"
)

// ConfigOutput is the JSON form of the config command.
type ConfigOutput struct {
	Config  *config.Config    `json:"config"`
	Sources map[string]string `json:"sources,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func newConfigCmd(g *globalFlags) *cobra.Command {
	var showSources bool
	cmd := &cobra.Command{
		Use:   "config [SPEC]",
		Short: "Display the effective configuration",
		Long: `Display the configuration after defaults, the config file, SPECMOCK_*
environment variables and flags have been applied. Validation problems are
reported as warnings so the output can be used to diagnose them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, g, args, nil)
			if err != nil {
				return err
			}
			verr := cfg.Validate()
			out := cmd.OutOrStdout()

			if g.jsonOutput {
				res := ConfigOutput{Config: cfg}
				if showSources {
					res.Sources = cfg.Sources
				}
				if verr != nil {
					res.Error = verr.Error()
				}
				return output.JSON(out, res)
			}

			fmt.Fprint(out, cfg.String())
			if showSources && len(cfg.Sources) > 0 {
				keys := make([]string, 0, len(cfg.Sources))
				for k := range cfg.Sources {
					keys = append(keys, k)
				}
				sort.Strings(keys)

				fmt.Fprintln(out)
				tw := output.Table(out)
				fmt.Fprintln(tw, "SETTING\tSOURCE")
				for _, k := range keys {
					fmt.Fprintf(tw, "%s\t%s\n", k, cfg.Sources[k])
				}
				if err := tw.Flush(); err != nil {
					return err
				}
			}
			if verr != nil {
				output.Warn(cmd.ErrOrStderr(), "%v", verr)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showSources, "sources", false, "Show where each non-default value came from")
	return cmd
}
