package cli

import (
	"fmt"
	"strings"

	"github.com/getmockd/specmock/pkg/cli/internal/output"
	"github.com/getmockd/specmock/pkg/engine"
	"github.com/spf13/cobra"
)

// GenerateOutput is the JSON form of the generate command.
type GenerateOutput struct {
	Route       string            `json:"route"`
	Params      map[string]string `json:"params,omitempty"`
	StatusCode  int               `json:"statusCode"`
	ContentType string            `json:"contentType"`
	Body        string            `json:"body"`
}

func newGenerateCmd(g *globalFlags) *cobra.Command {
	var include bool
	cmd := &cobra.Command{
		Use:   "generate METHOD PATH",
		Short: "Print the response a request would receive, without starting a server",
		Example: `  specmock generate GET /pets/42 --spec openapi.yaml
  specmock generate post /v1/orders --spec openapi.yaml --include`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g, nil, nil)
			if err != nil {
				return err
			}
			a := newApp(cfg, cmd.ErrOrStderr(), nil)
			snap, err := a.prepare(cmd.Context())
			if err != nil {
				return err
			}
			d := a.dispatcher()
			d.Install(snap)

			method := strings.ToUpper(args[0])
			res, err := d.Handle(cmd.Context(), engine.Request{Method: method, Path: args[1]})
			if err != nil {
				return err
			}
			if !res.Mocked() {
				return fmt.Errorf("no mock defined for %s %s", method, args[1])
			}

			env := res.Envelope
			out := cmd.OutOrStdout()
			if g.jsonOutput {
				if err := output.JSON(out, GenerateOutput{
					Route:       res.Route,
					Params:      res.Params,
					StatusCode:  env.StatusCode,
					ContentType: env.ContentType,
					Body:        env.Body,
				}); err != nil {
					return err
				}
			} else {
				if include {
					fmt.Fprintf(out, "%d %s\nContent-Type: %s\n\n", env.StatusCode, res.Route, env.ContentType)
				}
				if env.Body != "" {
					fmt.Fprintln(out, env.Body)
				}
			}
			if env.Failed() {
				return fmt.Errorf("generation failed for %s", res.Route)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&include, "include", "i", false, "Print the status line and content type before the body")
	return cmd
}
