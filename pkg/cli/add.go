package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/routestore/pkg/dispatch"
	"github.com/getmockd/routestore/pkg/route"
)

var addFlags routeFlags

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a route, replacing any route with the same name",
	Example: `  # Route answering GET with 200 "ok"
  routestore add health --method GET --status 200 --body ok

  # Binary payload
  routestore add upload --method POST --payload-base64 AAECAw== --status 201`,
	Args: cobra.ExactArgs(1),
	RunE: withHost(func(cmd *cobra.Command, args []string, h *host) error {
		req, err := addFlags.request(cmd)
		if err != nil {
			return err
		}
		resp, err := addFlags.response(cmd)
		if err != nil {
			return err
		}

		r := route.Route{Route: args[0], Request: req, ExpectedResponse: resp}
		if err := h.call(cmd.Context(), dispatch.OpAddRoute, r, nil); err != nil {
			return err
		}
		warnEphemeral(cmd, h)

		if jsonOutput {
			return printJSON(cmd, r)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added route %s\n", r.Route)
		return nil
	}),
}

func init() {
	addFlags.register(addCmd)
	rootCmd.AddCommand(addCmd)
}
