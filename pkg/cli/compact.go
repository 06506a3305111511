package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Rewrite the file backend's snapshot and truncate its write-ahead log",
	Args:  cobra.NoArgs,
	RunE: withHost(func(cmd *cobra.Command, _ []string, h *host) error {
		ok, err := h.reg.Compact(cmd.Context())
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(cmd.OutOrStdout(), "The %s backend does not need compaction\n", h.cfg.Store.Backend)
			return nil
		}
		n, err := h.reg.Count(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Compacted %d routes\n", n)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(compactCmd)
}
