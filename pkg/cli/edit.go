package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/routestore/pkg/dispatch"
)

var editFlags routeFlags

var editCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Replace the request and expected response of an existing route",
	Long: `Replace the request and expected response of an existing route.

Both are replaced as a whole: fields not given on the command line take their
defaults (method GET, status 200, no payload, no body).`,
	Example: `  routestore edit r1 --method POST --payload x --status 404 --body nf`,
	Args:    cobra.ExactArgs(1),
	RunE: withHost(func(cmd *cobra.Command, args []string, h *host) error {
		req, err := editFlags.request(cmd)
		if err != nil {
			return err
		}
		resp, err := editFlags.response(cmd)
		if err != nil {
			return err
		}

		edit := dispatch.EditArgs{Route: args[0], Request: req, ExpectedResponse: resp}
		if err := h.call(cmd.Context(), dispatch.OpEditRoute, edit, nil); err != nil {
			return err
		}
		warnEphemeral(cmd, h)

		fmt.Fprintf(cmd.OutOrStdout(), "Updated route %s\n", args[0])
		return nil
	}),
}

func init() {
	editFlags.register(editCmd)
	rootCmd.AddCommand(editCmd)
}
