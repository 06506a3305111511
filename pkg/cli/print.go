package cli

import (
	"github.com/spf13/cobra"

	"github.com/getmockd/routestore/pkg/cli/internal/output"
	"github.com/getmockd/routestore/pkg/store"
)

func printJSON(cmd *cobra.Command, v any) error {
	return output.JSON(cmd.OutOrStdout(), v)
}

// warnEphemeral tells the user a mutation will not outlive the process.
func warnEphemeral(cmd *cobra.Command, h *host) {
	if store.Kind(h.cfg.Store.Backend) == store.KindMemory {
		output.Warn(cmd.ErrOrStderr(), "memory backend: changes are discarded when routestore exits (use --backend file)")
	}
}
