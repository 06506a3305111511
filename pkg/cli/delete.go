package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/routestore/pkg/dispatch"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <name>...",
	Aliases: []string{"rm"},
	Short:   "Delete routes by name",
	Args:    cobra.MinimumNArgs(1),
	RunE: withHost(func(cmd *cobra.Command, args []string, h *host) error {
		for _, name := range args {
			if err := h.call(cmd.Context(), dispatch.OpDeleteRoute, dispatch.NameArgs{Route: name}, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted route %s\n", name)
		}
		warnEphemeral(cmd, h)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
