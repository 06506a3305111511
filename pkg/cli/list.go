package cli

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"github.com/getmockd/routestore/pkg/cli/internal/output"
	"github.com/getmockd/routestore/pkg/dispatch"
	"github.com/getmockd/routestore/pkg/route"
)

const previewWidth = 40

var (
	listMatch   string
	exportMatch string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stored routes, sorted by name",
	Example: `  routestore list
  routestore list --match 'users/**'
  routestore list --json`,
	Args: cobra.NoArgs,
	RunE: withHost(func(cmd *cobra.Command, _ []string, h *host) error {
		if listMatch != "" && !doublestar.ValidatePattern(listMatch) {
			return fmt.Errorf("invalid --match pattern %q", listMatch)
		}

		var routes []route.Route
		if err := h.call(cmd.Context(), dispatch.OpGetRoutes, nil, &routes); err != nil {
			return err
		}
		routes = filterRoutes(routes, listMatch)

		if jsonOutput {
			return printJSON(cmd, routes)
		}
		if len(routes) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No routes")
			return nil
		}

		tw := output.Table(cmd.OutOrStdout())
		fmt.Fprintln(tw, "NAME\tMETHOD\tPAYLOAD\tSTATUS\tBODY")
		for _, r := range routes {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
				r.Route,
				r.Request.Method,
				output.Bytes(r.Request.Payload, previewWidth),
				r.ExpectedResponse.Status,
				output.Bytes(r.ExpectedResponse.Body, previewWidth),
			)
		}
		return tw.Flush()
	}),
}

// filterRoutes keeps the routes whose name matches the doublestar pattern.
// An empty pattern keeps everything.
func filterRoutes(routes []route.Route, pattern string) []route.Route {
	if pattern == "" {
		return routes
	}
	out := make([]route.Route, 0, len(routes))
	for _, r := range routes {
		if ok, _ := doublestar.Match(pattern, r.Route); ok {
			out = append(out, r)
		}
	}
	return out
}

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Show one route",
	Args:  cobra.ExactArgs(1),
	RunE: withHost(func(cmd *cobra.Command, args []string, h *host) error {
		var r route.Route
		if err := h.call(cmd.Context(), dispatch.OpGetRoute, dispatch.NameArgs{Route: args[0]}, &r); err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd, r)
		}
		tw := output.Table(cmd.OutOrStdout())
		fmt.Fprintf(tw, "Route:\t%s\n", r.Route)
		fmt.Fprintf(tw, "Method:\t%s\n", r.Request.Method)
		fmt.Fprintf(tw, "Payload:\t%s\n", output.Bytes(r.Request.Payload, 1<<10))
		fmt.Fprintf(tw, "Status:\t%d\n", r.ExpectedResponse.Status)
		fmt.Fprintf(tw, "Body:\t%s\n", output.Bytes(r.ExpectedResponse.Body, 1<<10))
		return tw.Flush()
	}),
}

func init() {
	listCmd.Flags().StringVar(&listMatch, "match", "", "Only list routes whose name matches this glob (supports **)")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(getCmd)
}
