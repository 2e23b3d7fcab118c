package cli

import (
	"fmt"
	"strings"

	"github.com/getmockd/specmock/pkg/cli/internal/output"
	"github.com/getmockd/specmock/pkg/engine"
	"github.com/getmockd/specmock/pkg/loader"
	"github.com/spf13/cobra"
)

// RoutesOutput is the JSON form of the routes command.
type RoutesOutput struct {
	Title    string             `json:"title"`
	Format   loader.Format      `json:"format"`
	BasePath string             `json:"basePath"`
	Routes   []engine.RouteInfo `json:"routes"`
	Shadowed []engine.RouteInfo `json:"shadowed,omitempty"`
}

func newRoutesCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "routes [SPEC]",
		Short: "Print the compiled route table",
		Example: `  specmock routes openapi.yaml
  specmock routes --spec swagger.json --ignore-paths '/internal/**' --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, g, args, nil)
			if err != nil {
				return err
			}
			snap, err := newApp(cfg, cmd.ErrOrStderr(), nil).prepare(cmd.Context())
			if err != nil {
				return err
			}

			res := RoutesOutput{
				Title:    snap.Title,
				Format:   snap.Format,
				BasePath: snap.Table.BasePath(),
				Routes:   snap.Routes(),
				Shadowed: snap.Shadowed(),
			}
			out := cmd.OutOrStdout()
			if g.jsonOutput {
				return output.JSON(out, res)
			}

			fmt.Fprintf(out, "%s (%s)", res.Title, res.Format)
			if res.BasePath != "" {
				fmt.Fprintf(out, " base path %s", res.BasePath)
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out)

			tw := output.Table(out)
			fmt.Fprintln(tw, "METHOD\tPATH\tSTATUS\tCONTENT TYPE\tOPERATION")
			for _, r := range res.Routes {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
					strings.ToUpper(r.Method), r.Template, r.Status, dash(r.ContentType), dash(r.OperationID))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			for _, r := range res.Shadowed {
				output.Warn(cmd.ErrOrStderr(), "%s %s is shadowed by a route with the same shape", strings.ToUpper(r.Method), r.Template)
			}
			return nil
		},
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
